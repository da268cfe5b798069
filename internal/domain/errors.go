package domain

import "errors"

// Auth-domain failures. User-visible, never retried.
var (
	ErrNotRegistered    = errors.New("email is not registered")
	ErrInactiveAccount  = errors.New("account is inactive")
	ErrUnauthenticated  = errors.New("authentication required")
	ErrInvalidChallenge = errors.New("invalid or expired code")
	ErrLocationNotFound = errors.New("location not found")
)

// ValidationError marks missing or malformed input the client can correct.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(msg string) error { return &ValidationError{Msg: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// DeliveryError means the email transport failed after the challenge was
// already stored; the challenge stays valid.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string { return "failed to send OTP: " + e.Err.Error() }
func (e *DeliveryError) Unwrap() error { return e.Err }

func IsDelivery(err error) bool {
	var de *DeliveryError
	return errors.As(err, &de)
}

// StoreError wraps a backing-store failure. The underlying driver message is
// surfaced to the client in the detail field; that leak is the legacy
// behavior and a known hardening candidate.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return "store error: " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

func AsStore(err error) (*StoreError, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
