package store

import (
	"fmt"

	"github.com/unkn0wn-root/molstream/hash"
)

// DeleteError reports a Delete that removed the single entry, the bulk
// entries containing it, or neither.
type DeleteError struct {
	Hash      hash.Hash
	SingleErr error
	BulkErr   error
}

func (e *DeleteError) Error() string {
	switch {
	case e.SingleErr != nil && e.BulkErr != nil:
		return fmt.Sprintf("delete %s failed: single and bulk delete failed: single=%v; bulk=%v",
			e.Hash, e.SingleErr, e.BulkErr)
	case e.SingleErr != nil:
		return fmt.Sprintf("delete %s: single delete failed: %v", e.Hash, e.SingleErr)
	case e.BulkErr != nil:
		return fmt.Sprintf("delete %s: bulk delete failed: %v", e.Hash, e.BulkErr)
	default:
		return fmt.Sprintf("delete %s: unknown error", e.Hash)
	}
}

func (e *DeleteError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.SingleErr != nil {
		errs = append(errs, e.SingleErr)
	}
	if e.BulkErr != nil {
		errs = append(errs, e.BulkErr)
	}
	return errs
}
