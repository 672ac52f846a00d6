package dibs

import (
	"reflect"

	"github.com/muir/reflectutils"
)

// RegisterSingleton registers T as a singleton dependency: one instance,
// constructed lazily on first resolution and shared by every later
// resolution.  An optional constructor may be supplied; without one, T is
// zero-constructed (new(T) for pointer identities).
//
// Fails with ErrDuplicateRegistration if T is already registered.
func RegisterSingleton[T any](r *Registry, ctor ...func() (T, error)) error {
	return r.registerValue(codeFor[T](), singletonRecord, constructor[T](ctor))
}

// MustRegisterSingleton is RegisterSingleton except that it panics on
// error.
func MustRegisterSingleton[T any](r *Registry, ctor ...func() (T, error)) {
	must(RegisterSingleton[T](r, ctor...))
}

// RegisterInstance registers T as an instance dependency: a fresh value is
// constructed for every resolution and never cached.  An optional
// constructor may be supplied; without one, T is zero-constructed.
//
// Fails with ErrDuplicateRegistration if T is already registered.
func RegisterInstance[T any](r *Registry, ctor ...func() (T, error)) error {
	return r.registerValue(codeFor[T](), instanceRecord, constructor[T](ctor))
}

// MustRegisterInstance is RegisterInstance except that it panics on error.
func MustRegisterInstance[T any](r *Registry, ctor ...func() (T, error)) {
	must(RegisterInstance[T](r, ctor...))
}

// RegisterAbstractBase registers the interface type B as an abstract base:
// an identity that resolves polymorphically through a table of keyed
// implementations (see RegisterImplementation) instead of by direct
// construction.  Registering the base also makes Keyed[B] resolvable.
//
// Fails with ErrInvalidBase if B is not an interface type and with
// ErrDuplicateRegistration if B is already registered.
func RegisterAbstractBase[B any](r *Registry) error {
	base := typeOf[B]()
	if base.Kind() != reflect.Interface {
		return registryFailure(ErrInvalidBase, "%s", reflectutils.TypeName(base))
	}
	makeKeyed := func(reg *Registry, rec *record, v reflect.Value, filled bool) reflect.Value {
		k := Keyed[B]{registry: reg, rec: rec, filled: filled}
		if filled {
			k.Value = v.Interface().(B)
		}
		return reflect.ValueOf(&k).Elem()
	}
	return r.registerAbstract(getTypeCode(base), getTypeCode(reflect.TypeOf(Keyed[B]{})), makeKeyed)
}

// MustRegisterAbstractBase is RegisterAbstractBase except that it panics
// on error.
func MustRegisterAbstractBase[B any](r *Registry) {
	must(RegisterAbstractBase[B](r))
}

// RegisterImplementation registers T as the implementation of the
// abstract base B under the given key, and separately registers T itself
// with the given lifecycle so that it is independently resolvable on its
// own.  If isDefault is set, T also becomes the value that resolving the
// bare base yields.
//
// Keys may be any comparable value.  Failure modes: ErrUnregisteredBase
// if B is not an abstract base; ErrDuplicateKey if the key is taken;
// ErrDuplicateDefault if a default already exists; ErrReservedCapability
// if a default candidate already has a FromKey method;
// ErrInvalidImplementation if T does not satisfy B;
// ErrDuplicateRegistration if T itself is already registered.  A failed
// registration leaves the registry unchanged.
func RegisterImplementation[B, T any](r *Registry, key any, lc Lifecycle, isDefault bool, ctor ...func() (T, error)) error {
	base := typeOf[B]()
	impl := typeOf[T]()
	if base.Kind() == reflect.Interface && !impl.Implements(base) {
		return registryFailure(ErrInvalidImplementation, "%s does not implement %s",
			reflectutils.TypeName(impl), reflectutils.TypeName(base))
	}
	return r.registerImplementation(getTypeCode(base), getTypeCode(impl), key, lc, isDefault, constructor[T](ctor))
}

// MustRegisterImplementation is RegisterImplementation except that it
// panics on error.
func MustRegisterImplementation[B, T any](r *Registry, key any, lc Lifecycle, isDefault bool, ctor ...func() (T, error)) {
	must(RegisterImplementation[B, T](r, key, lc, isDefault, ctor...))
}

// Resolve resolves the identity T to a concrete value.  For abstract
// bases this yields the default implementation; use ResolveKeyed to pick
// an implementation by key.
func Resolve[T any](r *Registry) (T, error) {
	var zero T
	v, err := r.resolveType(typeOf[T]())
	if err != nil {
		return zero, err
	}
	return v.Interface().(T), nil
}

// MustResolve is Resolve except that it panics on error.
func MustResolve[T any](r *Registry) T {
	v, err := Resolve[T](r)
	if err != nil {
		panic(DetailedError(err))
	}
	return v
}

// ResolveKeyed resolves the abstract base B to a Keyed[B]: the default
// implementation (when one exists) plus the FromKey pivot over the base's
// whole implementation table.
func ResolveKeyed[B any](r *Registry) (Keyed[B], error) {
	v, err := r.resolveType(reflect.TypeOf(Keyed[B]{}))
	if err != nil {
		return Keyed[B]{}, err
	}
	return v.Interface().(Keyed[B]), nil
}

// MustResolveKeyed is ResolveKeyed except that it panics on error.
func MustResolveKeyed[B any](r *Registry) Keyed[B] {
	k, err := ResolveKeyed[B](r)
	if err != nil {
		panic(DetailedError(err))
	}
	return k
}

// FromKey resolves the implementation of the abstract base B registered
// under key, without first resolving a default.
func FromKey[B any](r *Registry, key any) (B, error) {
	k, err := ResolveKeyed[B](r)
	var zero B
	if err != nil {
		return zero, err
	}
	return k.FromKey(key)
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func codeFor[T any]() typeCode {
	return getTypeCode(typeOf[T]())
}

// constructor picks the user-supplied constructor if one was given and
// falls back to zero construction otherwise.
func constructor[T any](ctor []func() (T, error)) func() (reflect.Value, error) {
	if len(ctor) > 0 && ctor[0] != nil {
		f := ctor[0]
		return func() (reflect.Value, error) {
			v, err := f()
			if err != nil {
				return reflect.Value{}, err
			}
			// going through a pointer keeps the static type T even
			// when T is an interface
			return reflect.ValueOf(&v).Elem(), nil
		}
	}
	return zeroConstructor(typeOf[T]())
}

// zeroConstructor builds new(T) values: a pointer to a zeroed element for
// pointer identities, a zero value otherwise.
func zeroConstructor(t reflect.Type) func() (reflect.Value, error) {
	return func() (reflect.Value, error) {
		if t.Kind() == reflect.Ptr {
			return reflect.New(t.Elem()), nil
		}
		return reflect.New(t).Elem(), nil
	}
}

func must(err error) {
	if err != nil {
		panic(DetailedError(err))
	}
}
