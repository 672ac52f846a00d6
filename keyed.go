package dibs

// KeyResolver is the untyped form of the resolution-extension capability:
// given an implementation key, hand back the implementation registered
// under it.  Keyed[B] provides the typed form.  The method name FromKey is
// reserved: a type that already has one cannot be registered as a default
// implementation.
type KeyResolver interface {
	FromKey(key any) (any, error)
}

// Keyed carries a resolved abstract-base value together with the ability
// to pivot to any other keyed implementation of the same base.  A Keyed
// value is obtained by resolving Keyed[B] (directly, with
// ResolveKeyed[B], or by declaring a Keyed[B] parameter on an injected
// function); it is never constructed by hand.
//
// When the base has a default implementation, Value holds it.  When it
// does not, Value is the zero value and FromKey is the only way to obtain
// an implementation; a Keyed in that form is the base's implementation
// factory.
type Keyed[B any] struct {
	// Value is the resolved default implementation of the base, or the
	// zero value if the base has no default.
	Value B

	registry *Registry
	rec      *record
	filled   bool
}

// HasDefault reports whether Value was filled from a default
// implementation.
func (k Keyed[B]) HasDefault() bool { return k.filled }

// FromKey resolves the implementation registered under key through the
// normal singleton/instance rules.  An unknown key fails with
// ErrUnresolvableKey, naming the key and the base.
func (k Keyed[B]) FromKey(key any) (B, error) {
	var zero B
	if k.registry == nil {
		return zero, registryFailure(ErrUnresolvedDependency, "Keyed value was not resolved from a registry")
	}
	v, err := k.registry.fromKey(k.rec, key)
	if err != nil {
		return zero, err
	}
	return v.Interface().(B), nil
}

// MustFromKey is FromKey except that it panics on error.
func (k Keyed[B]) MustFromKey(key any) B {
	v, err := k.FromKey(key)
	if err != nil {
		panic(DetailedError(err))
	}
	return v
}

// Keys lists the registered implementation keys of the base, in no
// particular order.  The reserved default slot is not included.
func (k Keyed[B]) Keys() []any {
	if k.registry == nil {
		return nil
	}
	k.registry.mu.RLock()
	defer k.registry.mu.RUnlock()
	keys := make([]any, 0, len(k.rec.impls))
	for key := range k.rec.impls {
		if _, reserved := key.(defaultSlot); reserved {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
