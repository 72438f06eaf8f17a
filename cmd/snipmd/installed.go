package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/snipmd/snipmd/pkg/claudemd"
	"github.com/snipmd/snipmd/pkg/ledger"
	"github.com/snipmd/snipmd/pkg/presenter"
	"github.com/spf13/cobra"
)

// InstalledOutputFormat represents the output format for the installed listing
type InstalledOutputFormat int

const (
	// InstalledTableFormat renders the listing as a table
	InstalledTableFormat InstalledOutputFormat = iota
	// InstalledJSONFormat renders the listing as JSON
	InstalledJSONFormat
)

// InstalledEntry is one installed block, joined with the store name when
// the ID is still in the repository.
type InstalledEntry struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// InstalledOutput holds the installed listing and its output format
type InstalledOutput struct {
	Target  string                `json:"target"`
	Entries []InstalledEntry      `json:"snippets"`
	Format  InstalledOutputFormat `json:"-"`
}

// NewInstalledOutput creates an InstalledOutput, keeping document order.
func NewInstalledOutput(target string, ids []string, names map[string]string, format InstalledOutputFormat) *InstalledOutput {
	entries := make([]InstalledEntry, 0, len(ids))
	for _, id := range ids {
		entry := InstalledEntry{ID: id}
		if name, ok := names[id]; ok {
			entry.Name = name
		}
		entries = append(entries, entry)
	}
	return &InstalledOutput{Target: target, Entries: entries, Format: format}
}

// Render writes the listing to the writer in the configured format
func (o *InstalledOutput) Render(w io.Writer) error {
	if o.Format == InstalledJSONFormat {
		return o.renderJSON(w)
	}
	return o.renderTable(w)
}

func (o *InstalledOutput) renderJSON(w io.Writer) error {
	jsonData, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal installed snippets to JSON")
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func (o *InstalledOutput) renderTable(w io.Writer) error {
	if len(o.Entries) == 0 {
		_, err := fmt.Fprintf(w, "No snippets installed in %s\n", o.Target)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName")
	fmt.Fprintln(tw, "----\t----")
	for _, entry := range o.Entries {
		name := entry.Name
		if name == "" {
			name = "(not in repository)"
		}
		fmt.Fprintf(tw, "%s\t%s\n", entry.ID, name)
	}
	return tw.Flush()
}

// InstalledConfig holds configuration for the installed command
type InstalledConfig struct {
	Local bool
	User  bool
	JSON  bool
}

// NewInstalledConfig creates a new InstalledConfig with default values
func NewInstalledConfig() *InstalledConfig {
	return &InstalledConfig{}
}

var installedCmd = &cobra.Command{
	Use:   "installed",
	Short: "List snippets installed in CLAUDE.md",
	Long: `List the marker-delimited snippet blocks in the target document,
in document order, joined with the repository names where the IDs are
still published.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		config := getInstalledConfigFromFlags(cmd)

		cfg := loadConfig(ctx)
		scope, err := resolveScope(config.Local, config.User, cfg)
		if err != nil {
			return err
		}
		target, err := claudemd.Resolve(scope)
		if err != nil {
			return errors.Wrap(err, "locating the target document")
		}
		doc, err := target.Read()
		if err != nil {
			return errors.Wrap(err, "reading the target document")
		}

		ids, scanErr := ledger.ListInstalled(doc)
		if scanErr != nil {
			presenter.Warning(fmt.Sprintf("Corrupt markers in %s: %v", target.Path, scanErr))
		}

		names := make(map[string]string, len(ids))
		if store, _, err := openStore(ctx, &cfg); err == nil {
			for _, id := range ids {
				if sn, err := store.Get(ctx, id); err == nil {
					names[id] = sn.Name
				}
			}
		}

		format := InstalledTableFormat
		if config.JSON {
			format = InstalledJSONFormat
		}
		output := NewInstalledOutput(target.Path, ids, names, format)
		return output.Render(os.Stdout)
	},
}

func init() {
	installedDefaults := NewInstalledConfig()
	installedCmd.Flags().BoolP("local", "l", installedDefaults.Local, "Inspect ./CLAUDE.md")
	installedCmd.Flags().BoolP("user", "u", installedDefaults.User, "Inspect ~/.claude/CLAUDE.md")
	installedCmd.Flags().Bool("json", installedDefaults.JSON, "Output as JSON")
}

// getInstalledConfigFromFlags extracts installed configuration from command flags
func getInstalledConfigFromFlags(cmd *cobra.Command) *InstalledConfig {
	config := NewInstalledConfig()

	if local, err := cmd.Flags().GetBool("local"); err == nil {
		config.Local = local
	}
	if user, err := cmd.Flags().GetBool("user"); err == nil {
		config.User = user
	}
	if jsonOut, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = jsonOut
	}

	return config
}
