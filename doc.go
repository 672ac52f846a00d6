// Obligatory // comment

/*

Package dibs is a compile-time-typed, runtime-resolved dependency registry.
Dependencies are registered against a type identity and later resolved by
that identity, either directly or by wrapping a function so that its
trailing parameters are filled in from the registry.

Registries

A Registry maps type identities to registration records.  Registries are
created with New().  A package-level Default registry exists for programs
that want the convenience of a single implicit registry.  Reset() empties
a registry and is intended for test isolation.

	reg := dibs.New()
	err := dibs.RegisterSingleton[*Logger](reg)

Lifecycles

Every registered dependency has one of two lifecycles.  A Singleton is
constructed lazily on first resolution and the same instance is returned
for every later resolution.  An Instance dependency is constructed fresh
for every resolution and never cached.

	dibs.MustRegisterSingleton[*Logger](reg)
	dibs.MustRegisterInstance[*Request](reg)

	logger := dibs.MustResolve[*Logger](reg) // same value every time
	req := dibs.MustResolve[*Request](reg)   // new value every time

By default values are zero-constructed (new(T)).  An optional constructor
can be supplied at registration time:

	dibs.MustRegisterSingleton[*DB](reg, func() (*DB, error) {
		return sql.Open("postgres", dsn)
	})

Constructor errors and panics propagate unmodified to whoever triggered
the resolution.

Abstract bases

An abstract base is an interface identity that resolves polymorphically
through a table of keyed implementations rather than by direct
construction.  Implementations are registered under a comparable key and
are themselves registered as Singleton or Instance dependencies, so each
is independently resolvable on its own.  At most one implementation may
be flagged as the default.

	dibs.MustRegisterAbstractBase[Storage](reg)
	dibs.MustRegisterImplementation[Storage, *DiskStorage](reg, "disk",
		dibs.SingletonLifecycle, true)
	dibs.MustRegisterImplementation[Storage, *MemStorage](reg, "mem",
		dibs.InstanceLifecycle, false)

Resolving the bare interface yields the default implementation:

	s := dibs.MustResolve[Storage](reg) // *DiskStorage

Resolving Keyed[Storage] yields the default implementation together with
the ability to pivot to any other keyed implementation of the same base:

	k := dibs.MustResolveKeyed[Storage](reg)
	_ = k.Value                  // *DiskStorage
	mem, err := k.FromKey("mem") // *MemStorage

When a base has no default implementation, Keyed[B] is resolvable anyway:
its Value is the zero value and FromKey is the only way to obtain a
concrete implementation.  In that form Keyed[B] plays the role of an
implementation factory.  Resolving the bare interface of a base with no
default is an error.

Injecting function parameters

Bind() wraps a target function so that some of its parameters come from
the caller and the rest come from the registry.  The invoke function's
parameters are matched positionally against the target's leading
parameters; every remaining parameter is resolved by its declared type
each time the bound function is called.

	handler := func(w http.ResponseWriter, r *http.Request, log *Logger) {
		...
	}
	var bound func(http.ResponseWriter, *http.Request)
	err := reg.Bind(&bound, handler)

Call() is the dynamic equivalent: the supplied arguments fill the leading
parameters and the rest are injected.

	outs, err := reg.Call(handler, w, r)

A parameter whose type carries no usable identity (the empty interface or
an anonymous function type) cannot be injected and Bind/Call fail
immediately for such signatures.

Errors

All failures are ordinary error values built on package-level sentinels
(ErrDuplicateRegistration, ErrUnresolvedDependency, ...) so callers can
test them with errors.Is.  No failure is silently swallowed or retried.
DetailedError() expands resolution failures with the table of registered
identities, which is usually enough to spot a typo or a missing
registration.

Concurrency

Registration is expected to happen during single-threaded program start.
Resolution may be called concurrently: the lazy construction of a
Singleton is serialized per identity so that at most one constructed
instance is ever observed.

*/
package dibs
