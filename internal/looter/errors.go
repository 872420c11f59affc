package looter

import (
	"errors"
	"fmt"
)

// ErrLoginWall means the storefront rendered its signed-out state even
// though the cookies were injected.
var ErrLoginWall = errors.New("login wall detected on storefront page")

// AuthError is fatal to the current cycle: the exported cookies no longer
// yield a session that can claim loot.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("authentication: %v", e.Err) }

func (e *AuthError) Unwrap() error { return e.Err }

// ClaimError is offer-local. It is recorded on the offer's result and never
// aborts the rest of the batch.
type ClaimError struct {
	Title     string
	Publisher string
	Err       error
}

func (e *ClaimError) Error() string {
	return fmt.Sprintf("claim %q from %q: %v", e.Title, e.Publisher, e.Err)
}

func (e *ClaimError) Unwrap() error { return e.Err }
