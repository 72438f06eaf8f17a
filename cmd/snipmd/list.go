package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/snipmd/snipmd/pkg/snippet"
	"github.com/spf13/cobra"
)

// SnippetListOutputFormat represents the output format for the snippet listing
type SnippetListOutputFormat int

const (
	// SnippetListTableFormat renders the listing as a table
	SnippetListTableFormat SnippetListOutputFormat = iota
	// SnippetListJSONFormat renders the listing as JSON
	SnippetListJSONFormat
)

type snippetListEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// SnippetListOutput holds the snippet listing and its output format
type SnippetListOutput struct {
	Snippets []snippetListEntry      `json:"snippets"`
	Format   SnippetListOutputFormat `json:"-"`
}

// NewSnippetListOutput creates a SnippetListOutput from store records.
func NewSnippetListOutput(snippets []*snippet.Snippet, format SnippetListOutputFormat) *SnippetListOutput {
	entries := make([]snippetListEntry, 0, len(snippets))
	for _, sn := range snippets {
		entries = append(entries, snippetListEntry{
			ID:          sn.ID,
			Name:        sn.Name,
			Description: sn.Description,
			CreatedAt:   sn.CreatedAt.Format("2006-01-02"),
		})
	}
	return &SnippetListOutput{Snippets: entries, Format: format}
}

// Render writes the listing to the writer in the configured format
func (o *SnippetListOutput) Render(w io.Writer) error {
	if o.Format == SnippetListJSONFormat {
		return o.renderJSON(w)
	}
	return o.renderTable(w)
}

func (o *SnippetListOutput) renderJSON(w io.Writer) error {
	jsonData, err := json.MarshalIndent(o.Snippets, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal snippets to JSON")
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func (o *SnippetListOutput) renderTable(w io.Writer) error {
	if len(o.Snippets) == 0 {
		_, err := fmt.Fprintln(w, "No snippets found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tCreated\tDescription")
	fmt.Fprintln(tw, "----\t----\t-------\t-----------")
	for _, entry := range o.Snippets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", entry.ID, entry.Name, entry.CreatedAt, entry.Description)
	}
	return tw.Flush()
}

// ListConfig holds configuration for the list command
type ListConfig struct {
	Pattern string
	JSON    bool
}

// NewListConfig creates a new ListConfig with default values
func NewListConfig() *ListConfig {
	return &ListConfig{}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List snippets in the repository",
	Long: `List the snippets published in the active repository, newest first.

A doublestar pattern filters by repository-relative path, so snippets in
subdirectories can be selected with patterns like "go/**".

Example:
  snipmd list
  snipmd list --pattern "go-*" --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		config := getListConfigFromFlags(cmd)

		cfg := loadConfig(ctx)
		store, repoName, err := openStore(ctx, &cfg)
		if err != nil {
			return err
		}

		var snippets []*snippet.Snippet
		if config.Pattern != "" {
			snippets, err = store.ListMatching(ctx, config.Pattern)
		} else {
			snippets, err = store.List(ctx)
		}
		if err != nil {
			return errors.Wrapf(err, "listing snippets in %q", repoName)
		}

		format := SnippetListTableFormat
		if config.JSON {
			format = SnippetListJSONFormat
		}
		output := NewSnippetListOutput(snippets, format)
		return output.Render(os.Stdout)
	},
}

func init() {
	listDefaults := NewListConfig()
	listCmd.Flags().StringP("pattern", "p", listDefaults.Pattern, "Filter by repository-relative path pattern")
	listCmd.Flags().Bool("json", listDefaults.JSON, "Output as JSON")
}

// getListConfigFromFlags extracts list configuration from command flags
func getListConfigFromFlags(cmd *cobra.Command) *ListConfig {
	config := NewListConfig()

	if pattern, err := cmd.Flags().GetString("pattern"); err == nil {
		config.Pattern = pattern
	}
	if jsonOut, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = jsonOut
	}

	return config
}
