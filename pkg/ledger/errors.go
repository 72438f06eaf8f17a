package ledger

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrAlreadyInstalled reports an install for an ID that already has a
	// well-formed block in the document.
	ErrAlreadyInstalled = errors.New("snippet already installed")

	// ErrNotInstalled reports an uninstall for an ID with no block in the
	// document.
	ErrNotInstalled = errors.New("snippet not installed")
)

// CorruptMarkerError reports a marker occurrence whose pair cannot be
// established: a start marker without its end, or an end marker without its
// start. The document is never modified around an uncertain span.
type CorruptMarkerError struct {
	ID     string
	Line   int
	Reason string
}

func (e *CorruptMarkerError) Error() string {
	return fmt.Sprintf("corrupt marker for %q at line %d: %s", e.ID, e.Line, e.Reason)
}
