package dibs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateRegistration(t *testing.T) {
	cases := []struct {
		name   string
		first  func(r *Registry) error
		second func(r *Registry) error
	}{
		{
			name:   "singleton then singleton",
			first:  func(r *Registry) error { return RegisterSingleton[*Logger](r) },
			second: func(r *Registry) error { return RegisterSingleton[*Logger](r) },
		},
		{
			name:   "singleton then instance",
			first:  func(r *Registry) error { return RegisterSingleton[*Logger](r) },
			second: func(r *Registry) error { return RegisterInstance[*Logger](r) },
		},
		{
			name:   "instance then singleton",
			first:  func(r *Registry) error { return RegisterInstance[*Request](r) },
			second: func(r *Registry) error { return RegisterSingleton[*Request](r) },
		},
		{
			name:   "abstract base then singleton",
			first:  func(r *Registry) error { return RegisterAbstractBase[Storage](r) },
			second: func(r *Registry) error { return RegisterSingleton[Storage](r) },
		},
		{
			name:   "abstract base then abstract base",
			first:  func(r *Registry) error { return RegisterAbstractBase[Storage](r) },
			second: func(r *Registry) error { return RegisterAbstractBase[Storage](r) },
		},
		{
			name:  "singleton then implementation of that type",
			first: func(r *Registry) error { return RegisterSingleton[*DiskStorage](r) },
			second: func(r *Registry) error {
				if err := RegisterAbstractBase[Storage](r); err != nil {
					return err
				}
				return RegisterImplementation[Storage, *DiskStorage](r, "disk", SingletonLifecycle, false)
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := New()
			require.NoError(t, tc.first(r))
			err := tc.second(r)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDuplicateRegistration), "got %v", err)
		})
	}
}

func TestRegisterAbstractBaseRequiresInterface(t *testing.T) {
	r := New()
	err := RegisterAbstractBase[*DiskStorage](r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidBase), "got %v", err)
}

func TestRegisterImplementationUnregisteredBase(t *testing.T) {
	r := New()
	err := RegisterImplementation[Storage, *DiskStorage](r, "disk", SingletonLifecycle, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnregisteredBase), "got %v", err)

	// a non-abstract registration of the base does not count either
	require.NoError(t, RegisterSingleton[*Logger](r))
	err = RegisterImplementation[*Logger, *Logger](r, "log", SingletonLifecycle, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnregisteredBase), "got %v", err)
}

func TestRegisterImplementationDuplicateKey(t *testing.T) {
	r := New()
	require.NoError(t, RegisterAbstractBase[Storage](r))
	require.NoError(t, RegisterImplementation[Storage, *DiskStorage](r, "disk", SingletonLifecycle, false))
	err := RegisterImplementation[Storage, *MemStorage](r, "disk", InstanceLifecycle, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateKey), "got %v", err)
	assert.Contains(t, err.Error(), "DiskStorage", "the colliding identity is named")

	// the failed registration must not have touched the registry
	_, err = Resolve[*MemStorage](r)
	assert.True(t, errors.Is(err, ErrUnresolvedDependency), "got %v", err)
}

func TestRegisterImplementationDuplicateDefault(t *testing.T) {
	r := New()
	require.NoError(t, RegisterAbstractBase[Storage](r))
	require.NoError(t, RegisterImplementation[Storage, *DiskStorage](r, "disk", SingletonLifecycle, true))
	err := RegisterImplementation[Storage, *MemStorage](r, "mem", InstanceLifecycle, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateDefault), "got %v", err)
	assert.Contains(t, err.Error(), "DiskStorage")
}

func TestRegisterImplementationReservedCapability(t *testing.T) {
	r := New()
	require.NoError(t, RegisterAbstractBase[Storage](r))
	err := RegisterImplementation[Storage, *pivoting](r, "pivot", SingletonLifecycle, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReservedCapability), "got %v", err)

	// without the default flag the same type is fine
	require.NoError(t, RegisterImplementation[Storage, *pivoting](r, "pivot", SingletonLifecycle, false))
}

func TestRegisterImplementationMustSatisfyBase(t *testing.T) {
	r := New()
	require.NoError(t, RegisterAbstractBase[Storage](r))
	err := RegisterImplementation[Storage, *Logger](r, "log", SingletonLifecycle, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidImplementation), "got %v", err)
}

func TestImplementationIndependentlyResolvable(t *testing.T) {
	r := New()
	require.NoError(t, RegisterAbstractBase[Storage](r))
	require.NoError(t, RegisterImplementation[Storage, *DiskStorage](r, "disk", SingletonLifecycle, true))
	require.NoError(t, RegisterImplementation[Storage, *MemStorage](r, "mem", InstanceLifecycle, false))

	disk, err := Resolve[*DiskStorage](r)
	require.NoError(t, err)
	assert.NotNil(t, disk)

	first, err := Resolve[*MemStorage](r)
	require.NoError(t, err)
	second, err := Resolve[*MemStorage](r)
	require.NoError(t, err)
	assert.NotSame(t, first, second, "instance implementations construct fresh values")
}

func TestRegistrations(t *testing.T) {
	r := New()
	require.NoError(t, RegisterSingleton[*Logger](r))
	require.NoError(t, RegisterAbstractBase[Storage](r))
	require.NoError(t, RegisterImplementation[Storage, *DiskStorage](r, "disk", SingletonLifecycle, true))

	lines := r.Registrations()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "(")

	r.Reset()
	assert.Empty(t, r.Registrations())
}

func TestResetIsolation(t *testing.T) {
	r := New()
	require.NoError(t, RegisterSingleton[*Logger](r))
	r.Reset()
	require.NoError(t, RegisterSingleton[*Logger](r), "reset allows re-registration")
}
