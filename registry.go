package dibs

import (
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Lifecycle selects how often a registered dependency is constructed.
type Lifecycle int

const (
	// SingletonLifecycle shares one lazily constructed instance across
	// every resolution of the identity.
	SingletonLifecycle Lifecycle = iota
	// InstanceLifecycle constructs a fresh value for every resolution.
	InstanceLifecycle
)

func (l Lifecycle) String() string {
	switch l {
	case SingletonLifecycle:
		return "singleton"
	case InstanceLifecycle:
		return "instance"
	}
	return "unknown-lifecycle"
}

type recordKind int

const (
	singletonRecord recordKind = iota
	instanceRecord
	abstractRecord
)

func (k recordKind) String() string {
	switch k {
	case singletonRecord:
		return "singleton"
	case instanceRecord:
		return "instance"
	case abstractRecord:
		return "abstract base"
	}
	return "unknown"
}

// defaultSlot is the reserved implementation key meaning "the default".
// The type is unexported so user-supplied keys can never collide with it.
type defaultSlot struct{}

var defaultKey defaultSlot

// record is one registration.  Exactly one of the two field groups is in
// use, selected by kind.
type record struct {
	tc   typeCode
	kind recordKind

	// singleton and instance records
	construct func() (reflect.Value, error)
	buildLock sync.Mutex // serializes lazy singleton construction
	cached    *reflect.Value

	// abstract base records
	impls      map[any]typeCode
	hasDefault bool
	keyedTC    typeCode
	makeKeyed  func(r *Registry, rec *record, v reflect.Value, filled bool) reflect.Value
}

// Registry maps dependency identities to their registration records and
// answers resolution requests.  The zero value is not usable; call New.
//
// Registration is expected during single-threaded program start but is
// lock-guarded anyway.  Resolution is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	records map[typeCode]*record
	keyed   map[typeCode]*record // identity of Keyed[B] -> B's base record
	byName  map[string]typeCode  // qualified type name -> identity
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		records: make(map[typeCode]*record),
		keyed:   make(map[typeCode]*record),
		byName:  make(map[string]typeCode),
	}
}

// Default is the implicit registry for programs that only want one.
var Default = New()

// Reset empties the registry.  Meant for test isolation; production code
// registers once at startup and never tears down.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[typeCode]*record)
	r.keyed = make(map[typeCode]*record)
	r.byName = make(map[string]typeCode)
}

// registerValue adds a singleton or instance record.
func (r *Registry) registerValue(tc typeCode, kind recordKind, construct func() (reflect.Value, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addRecord(&record{tc: tc, kind: kind, construct: construct})
}

// registerAbstract adds an abstract base record and indexes the identity
// of its Keyed[B] companion type.
func (r *Registry) registerAbstract(tc, keyedTC typeCode, makeKeyed func(*Registry, *record, reflect.Value, bool) reflect.Value) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := &record{
		tc:        tc,
		kind:      abstractRecord,
		impls:     make(map[any]typeCode),
		keyedTC:   keyedTC,
		makeKeyed: makeKeyed,
	}
	if err := r.addRecord(rec); err != nil {
		return err
	}
	r.keyed[keyedTC] = rec
	return nil
}

// addRecord inserts a record, enforcing first-registration-wins.
// Callers hold r.mu.
func (r *Registry) addRecord(rec *record) error {
	if existing, ok := r.records[rec.tc]; ok {
		return registryFailure(ErrDuplicateRegistration, "%s is already registered as a %s", rec.tc, existing.kind)
	}
	r.records[rec.tc] = rec
	r.byName[rec.tc.String()] = rec.tc
	return nil
}

// registerImplementation validates an implementation registration and then
// applies it.  All checks happen before any mutation so a failed
// registration leaves the registry untouched.
func (r *Registry) registerImplementation(baseTC, implTC typeCode, key any, lc Lifecycle, isDefault bool, construct func() (reflect.Value, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	base, ok := r.records[baseTC]
	if !ok || base.kind != abstractRecord {
		return registryFailure(ErrUnregisteredBase, "cannot register %s for %s", implTC, baseTC)
	}
	if taken, ok := base.impls[key]; ok {
		return registryFailure(ErrDuplicateKey, "key %v of %s already maps to %s", key, baseTC, taken)
	}
	if isDefault {
		if base.hasDefault {
			return registryFailure(ErrDuplicateDefault, "%s already defaults to %s", baseTC, base.impls[defaultKey])
		}
		if hasFromKeyMethod(implTC.Type()) {
			return registryFailure(ErrReservedCapability, "%s cannot be the default for %s", implTC, baseTC)
		}
	}
	if existing, ok := r.records[implTC]; ok {
		return registryFailure(ErrDuplicateRegistration, "%s is already registered as a %s", implTC, existing.kind)
	}

	kind := singletonRecord
	if lc == InstanceLifecycle {
		kind = instanceRecord
	}
	// addRecord cannot fail: the duplicate check above already passed.
	_ = r.addRecord(&record{tc: implTC, kind: kind, construct: construct})
	base.impls[key] = implTC
	if isDefault {
		base.impls[defaultKey] = implTC
		base.hasDefault = true
	}
	return nil
}

// implementationCount reports the number of keyed implementations,
// excluding the reserved default slot.  Callers hold r.mu.
func (rec *record) implementationCount() int {
	n := len(rec.impls)
	if rec.hasDefault {
		n--
	}
	return n
}

// Registrations returns a sorted human-readable list of everything
// registered, one "name (kind)" line per identity.  It exists for
// diagnostics; DetailedError uses it to expand resolution failures.
func (r *Registry) Registrations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.registrationsLocked()
}

func (r *Registry) registrationsLocked() []string {
	out := make([]string, 0, len(r.records))
	for tc, rec := range r.records {
		out = append(out, tc.String()+" ("+rec.kind.String()+")")
	}
	sort.Strings(out)
	return out
}

func (r *Registry) registrationTable() string {
	lines := r.registrationsLocked()
	if len(lines) == 0 {
		return "no dependencies are registered"
	}
	return "registered dependencies:\n  " + strings.Join(lines, "\n  ")
}

// hasFromKeyMethod reports whether t (or *t) already exposes a FromKey
// method.  That name is reserved for the resolution extension carried by
// Keyed values; a default implementation exposing it would be ambiguous.
func hasFromKeyMethod(t reflect.Type) bool {
	if _, ok := t.MethodByName("FromKey"); ok {
		return true
	}
	if t.Kind() != reflect.Ptr {
		if _, ok := reflect.PtrTo(t).MethodByName("FromKey"); ok {
			return true
		}
	}
	return false
}
