// Package ledger manages marker-delimited snippet blocks inside a text
// document. Blocks are delimited by HTML comment lines carrying the snippet
// identifier, which makes every installation identifiable, idempotent, and
// reversible. All operations are pure functions over in-memory documents;
// reading and writing the document is the caller's concern.
package ledger

import (
	"strings"

	"github.com/pkg/errors"
)

// Install returns doc with a block for id appended at the end. The block is
// preceded by a blank-line separator when the document is non-empty and does
// not already end in one. Installing an id that already has a block fails
// with ErrAlreadyInstalled and installing over corrupt markers fails with
// the CorruptMarkerError; the document is never modified on failure.
func Install(doc, id, body string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	if line, found := findMarkerLine(body); found {
		return "", errors.Errorf("snippet body contains a marker line at line %d", line)
	}

	_, found, err := FindBlock(doc, id)
	if err != nil {
		return "", err
	}
	if found {
		return "", errors.Wrapf(ErrAlreadyInstalled, "id %s", id)
	}

	block := renderBlock(id, body)
	switch {
	case doc == "":
		return block, nil
	case strings.HasSuffix(doc, "\n\n"):
		return doc + block, nil
	case strings.HasSuffix(doc, "\n"):
		return doc + "\n" + block, nil
	default:
		return doc + "\n\n" + block, nil
	}
}

// Uninstall returns doc with the block for id removed: both delimiter lines,
// the body, and at most one adjacent blank line so removal does not leave a
// widening gap. An absent block fails with ErrNotInstalled; corrupt markers
// fail with the CorruptMarkerError since the span to remove is uncertain.
func Uninstall(doc, id string) (string, error) {
	block, found, err := FindBlock(doc, id)
	if err != nil {
		return "", err
	}
	if !found {
		return "", errors.Wrapf(ErrNotInstalled, "id %s", id)
	}

	before := doc[:block.Start]
	after := doc[block.End:]
	switch {
	case strings.HasSuffix(before, "\n\n") && (after == "" || strings.HasPrefix(after, "\n")):
		before = before[:len(before)-1]
	case before == "" && strings.HasPrefix(after, "\n"):
		after = after[1:]
	}
	return before + after, nil
}

// ListInstalled returns the IDs of all well-formed blocks in document
// order. Corruption reporting follows FindAllBlocks: the returned IDs stay
// valid even when the error is non-nil.
func ListInstalled(doc string) ([]string, error) {
	blocks, err := FindAllBlocks(doc)
	ids := make([]string, 0, len(blocks))
	for _, b := range blocks {
		ids = append(ids, b.ID)
	}
	return ids, err
}

// renderBlock produces the installed form of a body. A trailing newline on
// the body is folded into the line break before the end marker so the block
// always renders as whole lines.
func renderBlock(id, body string) string {
	parts := make([]string, 0, 3)
	parts = append(parts, StartMarker(id))
	if body != "" {
		parts = append(parts, strings.TrimSuffix(body, "\n"))
	}
	parts = append(parts, EndMarker(id))
	return strings.Join(parts, "\n")
}

func validateID(id string) error {
	if id == "" {
		return errors.New("snippet id is empty")
	}
	if strings.ContainsAny(id, " \t\r\n") {
		return errors.Errorf("invalid snippet id %q", id)
	}
	return nil
}

// findMarkerLine reports the first line of s that parses as a marker line.
// Nested markers would make the surrounding block's boundaries ambiguous,
// so install rejects such bodies outright.
func findMarkerLine(s string) (int, bool) {
	for i, line := range strings.Split(s, "\n") {
		if _, _, ok := parseMarker(line); ok {
			return i + 1, true
		}
	}
	return 0, false
}
