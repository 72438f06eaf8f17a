package ledger

import (
	"strings"

	multierror "github.com/hashicorp/go-multierror"
)

const (
	startPrefix  = "<!-- SNIPPET_START:"
	endPrefix    = "<!-- SNIPPET_END:"
	markerSuffix = " -->"
)

// StartMarker renders the opening delimiter line for id.
func StartMarker(id string) string {
	return startPrefix + id + markerSuffix
}

// EndMarker renders the closing delimiter line for id.
func EndMarker(id string) string {
	return endPrefix + id + markerSuffix
}

// Block is a marker-delimited region of a document. Start and End are byte
// offsets covering the start-marker line through the end-marker line,
// including the end line's trailing newline when present.
type Block struct {
	ID    string
	Body  string
	Start int
	End   int
	Line  int
}

// parseMarker reports whether line is a marker line, returning its id and
// whether it opens a block. Trailing carriage returns are ignored so CRLF
// documents scan the same as LF ones.
func parseMarker(line string) (id string, start bool, ok bool) {
	line = strings.TrimSuffix(line, "\r")
	switch {
	case strings.HasPrefix(line, startPrefix) && strings.HasSuffix(line, markerSuffix):
		id = line[len(startPrefix) : len(line)-len(markerSuffix)]
		start = true
	case strings.HasPrefix(line, endPrefix) && strings.HasSuffix(line, markerSuffix):
		id = line[len(endPrefix) : len(line)-len(markerSuffix)]
	default:
		return "", false, false
	}
	if id == "" || strings.ContainsAny(id, " \t") {
		return "", false, false
	}
	return id, start, true
}

// scanLine is one document line with its byte span. end points just past
// the line's newline, or at end-of-document for the final line.
type scanLine struct {
	text  string
	start int
	end   int
}

func splitLines(doc string) []scanLine {
	if doc == "" {
		return nil
	}
	lines := make([]scanLine, 0, strings.Count(doc, "\n")+1)
	offset := 0
	for {
		nl := strings.IndexByte(doc[offset:], '\n')
		if nl < 0 {
			lines = append(lines, scanLine{text: doc[offset:], start: offset, end: len(doc)})
			break
		}
		lines = append(lines, scanLine{text: doc[offset : offset+nl], start: offset, end: offset + nl + 1})
		offset += nl + 1
		if offset == len(doc) {
			break
		}
	}
	return lines
}

// FindBlock locates the block for id. The first marker line after the start
// marker must be the matching end marker; anything else means the block's
// boundaries are uncertain and a CorruptMarkerError is returned. An absent
// start marker yields found == false with no error.
func FindBlock(doc, id string) (Block, bool, error) {
	lines := splitLines(doc)
	for i := range lines {
		mid, start, ok := parseMarker(lines[i].text)
		if !ok || mid != id {
			continue
		}
		if !start {
			return Block{}, false, &CorruptMarkerError{ID: id, Line: i + 1, Reason: "end marker without matching start"}
		}
		for j := i + 1; j < len(lines); j++ {
			nid, nstart, nok := parseMarker(lines[j].text)
			if !nok {
				continue
			}
			if !nstart && nid == id {
				return Block{
					ID:    id,
					Body:  bodyBetween(doc, lines[i], lines[j]),
					Start: lines[i].start,
					End:   lines[j].end,
					Line:  i + 1,
				}, true, nil
			}
			break
		}
		return Block{}, false, &CorruptMarkerError{ID: id, Line: i + 1, Reason: "start marker without matching end"}
	}
	return Block{}, false, nil
}

// FindAllBlocks scans the whole document and returns every well-formed
// block in document order. Corrupt occurrences are collected into the
// returned error, one entry per occurrence; they never hide well-formed
// blocks found elsewhere, so both return values can be non-empty.
func FindAllBlocks(doc string) ([]Block, error) {
	lines := splitLines(doc)
	var blocks []Block
	var merr *multierror.Error

	for i := 0; i < len(lines); {
		id, start, ok := parseMarker(lines[i].text)
		if !ok {
			i++
			continue
		}
		if !start {
			merr = multierror.Append(merr, &CorruptMarkerError{ID: id, Line: i + 1, Reason: "end marker without matching start"})
			i++
			continue
		}
		end := -1
		for j := i + 1; j < len(lines); j++ {
			nid, nstart, nok := parseMarker(lines[j].text)
			if !nok {
				continue
			}
			if !nstart && nid == id {
				end = j
			}
			break
		}
		if end < 0 {
			merr = multierror.Append(merr, &CorruptMarkerError{ID: id, Line: i + 1, Reason: "start marker without matching end"})
			i++
			continue
		}
		blocks = append(blocks, Block{
			ID:    id,
			Body:  bodyBetween(doc, lines[i], lines[end]),
			Start: lines[i].start,
			End:   lines[end].end,
			Line:  i + 1,
		})
		i = end + 1
	}

	return blocks, merr.ErrorOrNil()
}

func bodyBetween(doc string, start, end scanLine) string {
	return strings.TrimSuffix(doc[start.end:end.start], "\n")
}
