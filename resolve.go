package dibs

import (
	"reflect"
)

// Resolve resolves a dependency identity to a concrete value.  The token
// may be a reflect.Type, a string naming a registered type (either the
// qualified form or just the trailing name segment), or a sample value
// whose type is used as the identity.  The generic Resolve[T] is the
// type-safe form and should be preferred where the type is known at
// compile time.
func (r *Registry) Resolve(token any) (any, error) {
	t, err := r.lookupType(token)
	if err != nil {
		return nil, err
	}
	v, err := r.resolveType(t)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// lookupType turns a resolution token into a reflect.Type.  String tokens
// fall back to name matching against the registered identities: first the
// qualified name, then the simplified trailing segment.
func (r *Registry) lookupType(token any) (reflect.Type, error) {
	switch tok := token.(type) {
	case reflect.Type:
		return tok, nil
	case string:
		r.mu.RLock()
		defer r.mu.RUnlock()
		if tc, ok := r.byName[tok]; ok {
			return tc.Type(), nil
		}
		for name, tc := range r.byName {
			if simpleName(name) == tok {
				return tc.Type(), nil
			}
		}
		return nil, resolutionFailure(ErrUnresolvedDependency, r.registrationTable(), "%q", tok)
	case nil:
		return nil, registryFailure(ErrUnresolvedDependency, "nil has no identity")
	default:
		return reflect.TypeOf(token), nil
	}
}

// resolveType is the core dispatch: identity in, value out.
func (r *Registry) resolveType(t reflect.Type) (reflect.Value, error) {
	tc := getTypeCode(t)
	r.mu.RLock()
	rec, ok := r.records[tc]
	if !ok {
		base, isKeyed := r.keyed[tc]
		r.mu.RUnlock()
		if isKeyed {
			return r.resolveKeyed(base)
		}
		r.mu.RLock()
		err := resolutionFailure(ErrUnresolvedDependency, r.registrationTable(), "%s", tc)
		r.mu.RUnlock()
		return reflect.Value{}, err
	}
	r.mu.RUnlock()
	return r.resolveRecord(rec)
}

func (r *Registry) resolveRecord(rec *record) (reflect.Value, error) {
	switch rec.kind {
	case singletonRecord:
		return rec.sharedInstance()
	case instanceRecord:
		return rec.construct()
	case abstractRecord:
		return r.resolveAbstract(rec)
	}
	panic("dibs: unknown record kind")
}

// sharedInstance returns the singleton's cached value, constructing it on
// first use.  The check-then-set is serialized per identity so at most one
// constructed instance is ever observed, even under concurrent resolution.
func (rec *record) sharedInstance() (reflect.Value, error) {
	rec.buildLock.Lock()
	defer rec.buildLock.Unlock()
	if rec.cached == nil {
		v, err := rec.construct()
		if err != nil {
			return reflect.Value{}, err
		}
		rec.cached = &v
	}
	return *rec.cached, nil
}

// resolveAbstract resolves a bare abstract-base identity: the default
// implementation, or an error when there is nothing to hand back.
func (r *Registry) resolveAbstract(rec *record) (reflect.Value, error) {
	r.mu.RLock()
	count := rec.implementationCount()
	defTC, hasDefault := rec.impls[defaultKey]
	r.mu.RUnlock()
	if count == 0 {
		return reflect.Value{}, registryFailure(ErrNoImplementations, "%s", rec.tc)
	}
	if !hasDefault {
		return reflect.Value{}, registryFailure(ErrNoDefault, "%s; resolve Keyed[%s] to pick by key", rec.tc, rec.tc)
	}
	return r.resolveCode(defTC)
}

// resolveKeyed resolves the Keyed[B] identity of an abstract base: the
// default implementation wrapped with the FromKey pivot, or, when no
// default exists, an unfilled Keyed acting as the implementation factory.
func (r *Registry) resolveKeyed(rec *record) (reflect.Value, error) {
	r.mu.RLock()
	count := rec.implementationCount()
	defTC, hasDefault := rec.impls[defaultKey]
	makeKeyed := rec.makeKeyed
	r.mu.RUnlock()
	if count == 0 {
		return reflect.Value{}, registryFailure(ErrNoImplementations, "%s", rec.tc)
	}
	if !hasDefault {
		return makeKeyed(r, rec, reflect.Value{}, false), nil
	}
	v, err := r.resolveCode(defTC)
	if err != nil {
		return reflect.Value{}, err
	}
	return makeKeyed(r, rec, v, true), nil
}

// resolveCode resolves an identity that is known to have been registered
// (implementation table entries always are).
func (r *Registry) resolveCode(tc typeCode) (reflect.Value, error) {
	r.mu.RLock()
	rec, ok := r.records[tc]
	if !ok {
		err := resolutionFailure(ErrUnresolvedDependency, r.registrationTable(), "%s", tc)
		r.mu.RUnlock()
		return reflect.Value{}, err
	}
	r.mu.RUnlock()
	return r.resolveRecord(rec)
}

// fromKey is the resolution extension: pivot from an abstract base to the
// implementation registered under key.
func (r *Registry) fromKey(rec *record, key any) (reflect.Value, error) {
	r.mu.RLock()
	tc, ok := rec.impls[key]
	r.mu.RUnlock()
	if !ok {
		return reflect.Value{}, registryFailure(ErrUnresolvableKey, "key %v of %s", key, rec.tc)
	}
	return r.resolveCode(tc)
}
