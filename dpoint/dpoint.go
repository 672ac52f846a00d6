package dpoint

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/dibs-go/dibs"
)

// Service groups related endpoints that share one registry and one
// router.  Endpoints registered through a Service are live immediately.
type Service struct {
	Name      string
	registry  *dibs.Registry
	router    chi.Router
	endpoints map[string]http.HandlerFunc
	lock      sync.Mutex
}

// RegisterService creates a service that mounts endpoints on router and
// resolves handler dependencies from reg.
//
// The name of the service is just used for error messages and is
// otherwise ignored.
func RegisterService(name string, reg *dibs.Registry, router chi.Router) *Service {
	return &Service{
		Name:      name,
		registry:  reg,
		router:    router,
		endpoints: make(map[string]http.HandlerFunc),
	}
}

// RegisterEndpoint binds a handler, mounts it at path, and starts serving
// it.  The handler's leading parameters must be http.ResponseWriter and
// *http.Request; the rest are resolved from the service's registry per
// request.  It panics if the handler cannot be bound or the path is
// already taken.
func (s *Service) RegisterEndpoint(path string, handler any) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.endpoints[path] != nil {
		panic(errors.Errorf("dpoint: endpoint path %s already registered on service %s", path, s.Name))
	}
	h, err := CreateEndpoint(s.registry, handler)
	if err != nil {
		panic(errors.Wrapf(err, "dpoint: cannot bind %s %s", s.Name, path))
	}
	s.endpoints[path] = h
	s.router.HandleFunc(path, h)
}

// CreateEndpoint generates an http.HandlerFunc from a handler function,
// bypassing Service.  The handler's leading parameters must be
// http.ResponseWriter and *http.Request; the rest are resolved from reg
// per request.
func CreateEndpoint(reg *dibs.Registry, handler any) (http.HandlerFunc, error) {
	var h http.HandlerFunc
	if err := reg.Bind(&h, handler); err != nil {
		return nil, errors.Wrap(err, "create endpoint")
	}
	return h, nil
}

// MustCreateEndpoint is CreateEndpoint except that it panics on error.
func MustCreateEndpoint(reg *dibs.Registry, handler any) http.HandlerFunc {
	h, err := CreateEndpoint(reg, handler)
	if err != nil {
		panic(err)
	}
	return h
}
