package dibs

import (
	"errors"
	"fmt"
)

// Every failure in this package wraps one of these sentinels so that
// callers can classify errors with errors.Is without parsing messages.
var (
	// ErrDuplicateRegistration: the identity is already registered.
	// First registration wins; re-registration always fails.
	ErrDuplicateRegistration = errors.New("dependency identity already registered")

	// ErrUnregisteredBase: an implementation registration targeted an
	// identity that is not registered as an abstract base.
	ErrUnregisteredBase = errors.New("not registered as an abstract base")

	// ErrDuplicateDefault: a second default implementation was claimed
	// for a base that already has one.
	ErrDuplicateDefault = errors.New("default implementation already exists")

	// ErrDuplicateKey: a second implementation was claimed under a key
	// that is already taken.
	ErrDuplicateKey = errors.New("implementation key already taken")

	// ErrReservedCapability: a candidate default implementation already
	// has a FromKey method, which is reserved for the resolution
	// extension.
	ErrReservedCapability = errors.New("implementation already has a FromKey method")

	// ErrMissingAnnotation: a parameter selected for injection has a
	// type that carries no usable identity (the empty interface or an
	// anonymous function type).
	ErrMissingAnnotation = errors.New("parameter has no usable type identity")

	// ErrUnresolvedDependency: the requested identity matches no
	// registration.
	ErrUnresolvedDependency = errors.New("no dependency registered")

	// ErrNoImplementations: the abstract base has zero registered
	// implementations.
	ErrNoImplementations = errors.New("abstract base has no implementations")

	// ErrUnresolvableKey: the requested key is absent from the base's
	// implementation table.
	ErrUnresolvableKey = errors.New("no implementation for key")

	// ErrNoDefault: the bare interface of an abstract base was resolved
	// but no default implementation exists.  Declare Keyed[B] instead to
	// pick an implementation by key.
	ErrNoDefault = errors.New("abstract base has no default implementation")

	// ErrInvalidBase: only interface types can be abstract bases.
	ErrInvalidBase = errors.New("abstract base must be an interface type")

	// ErrInvalidImplementation: the implementation type does not satisfy
	// the base interface.
	ErrInvalidImplementation = errors.New("implementation does not satisfy its base")
)

type registryError struct {
	err     error
	details string
}

func (e *registryError) Error() string { return e.err.Error() }

func (e *registryError) Unwrap() error { return e.err }

// DetailedError transforms errors into strings.  If the error came out of
// a Registry and carries diagnostic details (such as the table of
// registered identities), those are appended to the message.
func DetailedError(err error) string {
	var re *registryError
	if errors.As(err, &re) && re.details != "" {
		return err.Error() + "\n\n" + re.details
	}
	return err.Error()
}

func registryFailure(sentinel error, format string, args ...any) error {
	return &registryError{
		err: fmt.Errorf("dibs: %w: "+format, append([]any{sentinel}, args...)...),
	}
}

func resolutionFailure(sentinel error, details string, format string, args ...any) error {
	return &registryError{
		err:     fmt.Errorf("dibs: %w: "+format, append([]any{sentinel}, args...)...),
		details: details,
	}
}
