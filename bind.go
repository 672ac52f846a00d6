package dibs

// The injection adapter: wraps a target function so that its trailing
// parameters are resolved from the registry instead of being supplied by
// the caller.  The adapter only decides which parameters need resolution;
// the registry decides what each identity resolves to.

import (
	"fmt"
	"reflect"
)

// Bind fills *invokePtr with a function that calls target.  The invoke
// function's parameters are matched positionally against target's leading
// parameters; every remaining target parameter is resolved from the
// registry, by its declared type, each time the bound function is called.
// Return values pass through unchanged, so the invoke function must have
// target's outputs.
//
// Bind fails immediately when the signatures cannot line up or when an
// injected parameter's type carries no usable identity
// (ErrMissingAnnotation).  Resolution itself happens per call: if the
// invoke function's last result is error, resolution failures are
// returned there; otherwise they panic.
//
// Bind pre-computes what it can so the returned function is cheap to
// call.
func (r *Registry) Bind(invokePtr any, target any) error {
	inv := reflect.ValueOf(invokePtr)
	if !inv.IsValid() || inv.Kind() != reflect.Ptr || inv.Type().Elem().Kind() != reflect.Func {
		return fmt.Errorf("dibs: Bind must be given a non-nil pointer to a function to fill")
	}
	if inv.IsNil() {
		return fmt.Errorf("dibs: Bind must be given a non-nil pointer to a function to fill")
	}
	tv := reflect.ValueOf(target)
	if !tv.IsValid() || tv.Kind() != reflect.Func {
		return fmt.Errorf("dibs: Bind target must be a function")
	}
	it := inv.Type().Elem()
	tt := tv.Type()
	if it.IsVariadic() {
		return fmt.Errorf("dibs: Bind invoke function may not be variadic")
	}
	supplied := it.NumIn()
	fixed := tt.NumIn()
	if tt.IsVariadic() {
		fixed--
	}
	if supplied > fixed {
		return fmt.Errorf("dibs: Bind invoke function takes %d parameters but target has only %d that can be supplied", supplied, fixed)
	}
	injected, err := injectableParams(tt, supplied)
	if err != nil {
		return err
	}
	for i := 0; i < supplied; i++ {
		if tt.In(i) != it.In(i) {
			return fmt.Errorf("dibs: Bind invoke parameter #%d is a %s but target takes %s", i+1, it.In(i), tt.In(i))
		}
	}
	if it.NumOut() != tt.NumOut() {
		return fmt.Errorf("dibs: Bind invoke function returns %d values but target returns %d", it.NumOut(), tt.NumOut())
	}
	for i := 0; i < it.NumOut(); i++ {
		if it.Out(i) != tt.Out(i) {
			return fmt.Errorf("dibs: Bind invoke return value #%d is a %s but target returns %s", i+1, it.Out(i), tt.Out(i))
		}
	}
	errorOut := it.NumOut() > 0 && it.Out(it.NumOut()-1) == errorType

	wrapper := reflect.MakeFunc(it, func(args []reflect.Value) []reflect.Value {
		in := make([]reflect.Value, 0, tt.NumIn())
		in = append(in, args...)
		for _, pt := range injected {
			v, err := r.resolveType(pt)
			if err != nil {
				if errorOut {
					return errorReturns(it, err)
				}
				panic(DetailedError(err))
			}
			in = append(in, v)
		}
		return tv.Call(in)
	})
	inv.Elem().Set(wrapper)
	return nil
}

// MustBind is Bind except that it panics on error.
func (r *Registry) MustBind(invokePtr any, target any) {
	if err := r.Bind(invokePtr, target); err != nil {
		panic(DetailedError(err))
	}
}

// Call invokes target immediately: the supplied args fill target's leading
// parameters and the remaining parameters are resolved from the registry.
// Target's return values come back as a slice.  The returned error covers
// adapter and resolution failures only; an error returned by target itself
// is simply one of the output values.
func (r *Registry) Call(target any, args ...any) ([]any, error) {
	tv := reflect.ValueOf(target)
	if !tv.IsValid() || tv.Kind() != reflect.Func {
		return nil, fmt.Errorf("dibs: Call target must be a function")
	}
	tt := tv.Type()
	if !tt.IsVariadic() && len(args) > tt.NumIn() {
		return nil, fmt.Errorf("dibs: Call given %d arguments but target takes %d", len(args), tt.NumIn())
	}
	injected, err := injectableParams(tt, len(args))
	if err != nil {
		return nil, err
	}
	in := make([]reflect.Value, 0, len(args)+len(injected))
	for i, a := range args {
		pt := paramType(tt, i)
		if a == nil {
			in = append(in, reflect.Zero(pt))
			continue
		}
		av := reflect.ValueOf(a)
		if !av.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("dibs: Call argument #%d is a %s but target takes %s", i+1, av.Type(), pt)
		}
		in = append(in, av)
	}
	for _, pt := range injected {
		v, err := r.resolveType(pt)
		if err != nil {
			return nil, err
		}
		in = append(in, v)
	}
	out := tv.Call(in)
	res := make([]any, len(out))
	for i, o := range out {
		res[i] = o.Interface()
	}
	return res, nil
}

// injectableParams yields the ordered subset of target's parameters that
// are eligible for injection: the trailing parameters not covered by the
// supplied count.  A variadic tail is never injected (it has an implicit
// default of no values).  Each eligible parameter must have a type that
// can serve as a dependency identity; the empty interface and anonymous
// function types cannot, and fail with ErrMissingAnnotation.
func injectableParams(tt reflect.Type, supplied int) ([]reflect.Type, error) {
	n := tt.NumIn()
	if tt.IsVariadic() {
		n--
	}
	if supplied > n {
		// every injectable position is already covered
		return nil, nil
	}
	injected := make([]reflect.Type, 0, n-supplied)
	for i := supplied; i < n; i++ {
		pt := tt.In(i)
		if pt == emptyInterfaceType || (pt.Kind() == reflect.Func && pt.Name() == "") {
			return nil, registryFailure(ErrMissingAnnotation, "parameter #%d (%s)", i+1, pt)
		}
		injected = append(injected, pt)
	}
	return injected, nil
}

// paramType returns the effective type of positional argument i, unrolling
// a variadic tail to its element type.
func paramType(tt reflect.Type, i int) reflect.Type {
	if tt.IsVariadic() && i >= tt.NumIn()-1 {
		return tt.In(tt.NumIn() - 1).Elem()
	}
	return tt.In(i)
}

// errorReturns builds a return slice that is zero except for the trailing
// error value.
func errorReturns(it reflect.Type, err error) []reflect.Value {
	out := make([]reflect.Value, it.NumOut())
	for i := 0; i < it.NumOut()-1; i++ {
		out[i] = reflect.Zero(it.Out(i))
	}
	ev := reflect.New(errorType).Elem()
	ev.Set(reflect.ValueOf(err))
	out[it.NumOut()-1] = ev
	return out
}

var (
	errorType          = reflect.TypeOf((*error)(nil)).Elem()
	emptyInterfaceType = reflect.TypeOf((*any)(nil)).Elem()
)
