package dpoint

import (
	"github.com/google/uuid"

	"github.com/dibs-go/dibs"
)

// RequestID identifies one resolution, which for handlers bound through
// this package means one HTTP request.
type RequestID string

// RegisterRequestID registers RequestID as an instance dependency so that
// every handler invocation receives a fresh identifier.
func RegisterRequestID(reg *dibs.Registry) error {
	return dibs.RegisterInstance[RequestID](reg, func() (RequestID, error) {
		return RequestID(uuid.NewString()), nil
	})
}

// MustRegisterRequestID is RegisterRequestID except that it panics on
// error.
func MustRegisterRequestID(reg *dibs.Registry) {
	if err := RegisterRequestID(reg); err != nil {
		panic(err)
	}
}
