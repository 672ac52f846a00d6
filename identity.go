package dibs

// Dependency identities are interned reflect.Types.  Interning gives every
// identity a small comparable token and a stable place to hang the string
// forms needed for name-based lookup.

import (
	"reflect"
	"strings"
	"sync"

	"github.com/muir/reflectutils"
)

type typeCode int

var (
	typeCounter = 0
	lock        sync.Mutex
	typeMap     = make(map[reflect.Type]typeCode)
	reverseMap  = make(map[typeCode]reflect.Type)
)

// getTypeCode maps reflect.Type to integers.
func getTypeCode(a any) typeCode {
	if a == nil {
		panic("dibs: nil has no type")
	}
	t, isType := a.(reflect.Type)
	if !isType {
		t = reflect.TypeOf(a)
	}
	lock.Lock()
	defer lock.Unlock()
	if tc, found := typeMap[t]; found {
		return tc
	}
	typeCounter++
	tc := typeCode(typeCounter)
	typeMap[t] = tc
	reverseMap[tc] = t
	return tc
}

// Type returns the reflect.Type for this typeCode.
func (tc typeCode) Type() reflect.Type {
	lock.Lock()
	defer lock.Unlock()
	return reverseMap[tc]
}

func (tc typeCode) String() string {
	return reflectutils.TypeName(tc.Type())
}

// simpleName reduces a qualified type name to its trailing segment so that
// "*pkg.Logger" and "Logger" compare equal during name-based lookup.  This
// is a best-effort match for callers that only have a string in hand; exact
// qualified names are always tried first.
func simpleName(name string) string {
	name = strings.TrimLeft(name, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
