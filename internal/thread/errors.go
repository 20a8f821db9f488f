package thread

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the thread service. Handlers map these to
// HTTP statuses; anything not matching one of them is a store failure and
// should be reported generically.
var (
	ErrValidation      = errors.New("invalid input")
	ErrNotFound        = errors.New("comment not found")
	ErrForbidden       = errors.New("not allowed")
	ErrUnauthenticated = errors.New("sign in required")

	// ErrAlreadyExists is returned by Store.InsertLike on a duplicate
	// (user, target) pair. The service translates it to a success; it
	// never escapes to callers.
	ErrAlreadyExists = errors.New("already exists")
)

var (
	errMaxDepth    = fmt.Errorf("%w: maximum nesting level reached", ErrValidation)
	errContentLen  = fmt.Errorf("%w: content must be between 1 and %d characters", ErrValidation, MaxContentLen)
	errRootChoice  = fmt.Errorf("%w: a comment belongs to exactly one question or one answer", ErrValidation)
	errRootMismatch = fmt.Errorf("%w: reply must stay in its parent's discussion", ErrValidation)
)
