package advisor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInsightNotFound means the id is not in the current batch,
	// usually because the batch regenerated under the caller.
	ErrInsightNotFound = errors.New("insight not found")

	// ErrTooFewBundleItems rejects bundle creation before any network
	// call is made.
	ErrTooFewBundleItems = errors.New("a bundle needs at least two available items")

	// ErrConflictDetected is the target for errors.Is on conflict
	// errors; the concrete error names the items.
	ErrConflictDetected = errors.New("items already belong to another bundle")
)

// ConflictError names the items that are already committed to an
// active bundle.
type ConflictError struct {
	ItemIDs []uint64
}

func (e *ConflictError) Error() string {
	ids := make([]string, 0, len(e.ItemIDs))
	for _, id := range e.ItemIDs {
		ids = append(ids, strconv.FormatUint(id, 10))
	}

	return fmt.Sprintf("items already belong to another bundle: %s", strings.Join(ids, ", "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflictDetected
}
