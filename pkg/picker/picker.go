// Package picker drives interactive snippet selection through the external
// fzf program. Each input line carries a visible label and a hidden preview
// column separated by a delimiter fzf is told about; the preview pane
// echoes the hidden column.
package picker

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Delimiter separates the label column from the preview column.
const Delimiter = "▪"

const previewChars = 50

// Item is one selectable row. Label is what the user filters on; Content
// feeds the preview pane.
type Item struct {
	ID      string
	Label   string
	Content string
}

// Picker runs fzf. The zero value uses the fzf on PATH.
type Picker struct {
	Bin string
}

func (p *Picker) bin() string {
	if p.Bin != "" {
		return p.Bin
	}
	return "fzf"
}

// Available reports whether fzf can be invoked.
func (p *Picker) Available() bool {
	return exec.Command(p.bin(), "--version").Run() == nil
}

// Pick presents items and returns the selection. ok is false when the user
// cancels or selects nothing; only failures to launch fzf are errors.
func (p *Picker) Pick(ctx context.Context, items []Item) (Item, bool, error) {
	if len(items) == 0 {
		return Item{}, false, nil
	}

	var input strings.Builder
	for _, item := range items {
		input.WriteString(Line(item))
		input.WriteByte('\n')
	}

	cmd := exec.CommandContext(ctx, p.bin(),
		"--delimiter="+Delimiter,
		"--with-nth=1",
		"--preview=echo {2}",
		"--preview-window=down:3:wrap",
		"--prompt=Select snippet: ",
		"--height=50%",
		"--border",
	)
	cmd.Stdin = strings.NewReader(input.String())
	cmd.Stderr = os.Stderr

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Cancelled (esc exits 130, no match exits 1).
			return Item{}, false, nil
		}
		return Item{}, false, errors.Wrap(err, "running fzf")
	}

	label := ParseSelection(out.String())
	if label == "" {
		return Item{}, false, nil
	}
	for _, item := range items {
		if strings.TrimSpace(item.Label) == label {
			return item, true, nil
		}
	}
	return Item{}, false, nil
}

// Line renders one fzf input row.
func Line(item Item) string {
	return item.Label + Delimiter + FormatPreview(item.Content)
}

// FormatPreview flattens content to a single line and truncates it to the
// preview column width.
func FormatPreview(content string) string {
	flat := strings.ReplaceAll(content, "\n", " ")
	runes := []rune(flat)
	if len(runes) > previewChars {
		return string(runes[:previewChars]) + "..."
	}
	return flat
}

// ParseSelection extracts the label column from a selected fzf line.
func ParseSelection(line string) string {
	return strings.TrimSpace(strings.SplitN(line, Delimiter, 2)[0])
}
