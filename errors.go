package finance

import "fmt"

// Error types returned by the book reducers. A reducer that fails always
// leaves the book it was called on untouched.

// ValidationError is returned when a required field is missing or invalid.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InsufficientFundsError is returned when a buy costs more than the
// available balance.
type InsufficientFundsError struct {
	Ticker    string
	Cost      Money
	Available Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("cannot buy %s for %s, available balance is %s", e.Ticker, e.Cost, e.Available)
}

// InsufficientSharesError is returned when a sell exceeds the held shares.
type InsufficientSharesError struct {
	Ticker    string
	Requested Quantity
	Held      Quantity
}

func (e *InsufficientSharesError) Error() string {
	if e.Held.IsZero() {
		return fmt.Sprintf("cannot sell %s of %s, no shares held", e.Requested, e.Ticker)
	}
	return fmt.Sprintf("cannot sell %s of %s, position is only %s", e.Requested, e.Ticker, e.Held)
}

// MalformedDataError is returned when a snapshot cannot be parsed or does
// not describe a valid book.
type MalformedDataError struct {
	Err error
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed snapshot: %v", e.Err)
}

func (e *MalformedDataError) Unwrap() error { return e.Err }
