package dpoint_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dibs-go/dibs"
	"github.com/dibs-go/dibs/dpoint"
)

type Greeter struct {
	greeting string
}

type Blob interface {
	Where() string
}

type S3Blob struct{}

func (*S3Blob) Where() string { return "s3" }

type LocalBlob struct{}

func (*LocalBlob) Where() string { return "local" }

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	res, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func TestServiceInjectsHandlerDependencies(t *testing.T) {
	reg := dibs.New()
	dibs.MustRegisterSingleton[*Greeter](reg, func() (*Greeter, error) {
		return &Greeter{greeting: "hello"}, nil
	})

	router := chi.NewRouter()
	svc := dpoint.RegisterService("greetings", reg, router)
	svc.RegisterEndpoint("/greet", func(w http.ResponseWriter, r *http.Request, g *Greeter) {
		_, _ = w.Write([]byte(g.greeting + " " + r.URL.Query().Get("name")))
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	code, body := get(t, srv, "/greet?name=ada")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "hello ada", body)
}

func TestRequestIDFreshPerRequest(t *testing.T) {
	reg := dibs.New()
	dpoint.MustRegisterRequestID(reg)

	router := chi.NewRouter()
	svc := dpoint.RegisterService("ids", reg, router)
	svc.RegisterEndpoint("/id", func(w http.ResponseWriter, r *http.Request, id dpoint.RequestID) {
		_, _ = w.Write([]byte(id))
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	_, first := get(t, srv, "/id")
	_, second := get(t, srv, "/id")
	assert.NotEqual(t, first, second)
	_, err := uuid.Parse(first)
	assert.NoError(t, err)
}

func TestSingletonSharedAcrossRequests(t *testing.T) {
	reg := dibs.New()
	type counter struct{ n int }
	dibs.MustRegisterSingleton[*counter](reg)

	h := dpoint.MustCreateEndpoint(reg, func(w http.ResponseWriter, r *http.Request, c *counter) {
		c.n++
		_, _ = w.Write([]byte{byte('0' + c.n)})
	})

	first := httptest.NewRecorder()
	h(first, httptest.NewRequest(http.MethodGet, "/count", nil))
	second := httptest.NewRecorder()
	h(second, httptest.NewRequest(http.MethodGet, "/count", nil))

	assert.Equal(t, "1", first.Body.String())
	assert.Equal(t, "2", second.Body.String())
}

func TestKeyedHandlerParameter(t *testing.T) {
	reg := dibs.New()
	dibs.MustRegisterAbstractBase[Blob](reg)
	dibs.MustRegisterImplementation[Blob, *S3Blob](reg, "s3", dibs.SingletonLifecycle, true)
	dibs.MustRegisterImplementation[Blob, *LocalBlob](reg, "local", dibs.InstanceLifecycle, false)

	router := chi.NewRouter()
	svc := dpoint.RegisterService("blobs", reg, router)
	svc.RegisterEndpoint("/blob", func(w http.ResponseWriter, r *http.Request, k dibs.Keyed[Blob]) {
		b := k.Value
		if key := r.URL.Query().Get("backend"); key != "" {
			var err error
			b, err = k.FromKey(key)
			if err != nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
		}
		_, _ = w.Write([]byte(b.Where()))
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	_, body := get(t, srv, "/blob")
	assert.Equal(t, "s3", body)
	_, body = get(t, srv, "/blob?backend=local")
	assert.Equal(t, "local", body)
	code, _ := get(t, srv, "/blob?backend=tape")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCreateEndpointRejectsBadHandler(t *testing.T) {
	reg := dibs.New()
	_, err := dpoint.CreateEndpoint(reg, func(w http.ResponseWriter, r *http.Request, dep any) {})
	require.Error(t, err)

	assert.Panics(t, func() {
		dpoint.MustCreateEndpoint(reg, 42)
	})
}

func TestDuplicateEndpointPathPanics(t *testing.T) {
	reg := dibs.New()
	router := chi.NewRouter()
	svc := dpoint.RegisterService("dups", reg, router)
	handler := func(w http.ResponseWriter, r *http.Request) {}
	svc.RegisterEndpoint("/x", handler)
	assert.Panics(t, func() { svc.RegisterEndpoint("/x", handler) })
}
