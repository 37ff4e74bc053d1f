package domain

import "errors"

// Validation errors: malformed or missing input, correctable by the caller.
var (
	ErrBorrowerRequired   = errors.New("borrower identity required")
	ErrBorrowerAmbiguous  = errors.New("borrower cannot be both user and guest")
	ErrGuestContactMissing = errors.New("guest borrower needs at least one contact field")
	ErrReturnDateNotFuture = errors.New("expected return date must be in the future")
	ErrNoFieldsToUpdate   = errors.New("no updatable fields provided")
	ErrEmailRequired      = errors.New("email required")
	ErrPasswordRequired   = errors.New("password required")
	ErrNameRequired       = errors.New("name required")
	ErrInvalidID          = errors.New("invalid id")
)

// Conflict errors: a concurrent transition got there first; refresh and retry.
var (
	ErrBookUnavailable = errors.New("book is not available")
	ErrEmailTaken      = errors.New("email already registered")
)

// ErrInvalidTransition: the operation is not legal from the loan's
// current status. Definite rejection, never retried.
var ErrInvalidTransition = errors.New("invalid loan status transition")

// Not-found errors.
var (
	ErrLoanNotFound    = errors.New("loan not found")
	ErrBookNotFound    = errors.New("book not found")
	ErrLibraryNotFound = errors.New("library not found")
	ErrUserNotFound    = errors.New("user not found")
)

// Authorization errors.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("actor not allowed to perform this operation")
	ErrBadCredentials  = errors.New("invalid email or password")
)
