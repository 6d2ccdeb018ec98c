package stores

import "fmt"

// wrapUnavailable folds a backend fault into ErrStoreUnavailable. The cause
// lands in the message for diagnostics; only the sentinel stays matchable.
func wrapUnavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
