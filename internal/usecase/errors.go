package usecase

import "fmt"

// SyncFailure reports that associating the guest cart with the logged-in
// user did not complete. It is non-fatal: the local cart is untouched, the
// login flow proceeds, and the sync can be retried.
type SyncFailure struct {
	Err error
}

func (e *SyncFailure) Error() string {
	return fmt.Sprintf("cart sync failed: %v", e.Err)
}

func (e *SyncFailure) Unwrap() error {
	return e.Err
}
