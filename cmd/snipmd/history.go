package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/snipmd/snipmd/pkg/appconf"
	"github.com/snipmd/snipmd/pkg/history"
	"github.com/snipmd/snipmd/pkg/presenter"
	"github.com/spf13/cobra"
)

// HistoryOutputFormat represents the output format for the history command
type HistoryOutputFormat int

const (
	// HistoryTableFormat renders events as a table
	HistoryTableFormat HistoryOutputFormat = iota
	// HistoryJSONFormat renders events as JSON
	HistoryJSONFormat
)

// HistoryOutput represents recorded events ready for rendering
type HistoryOutput struct {
	Events []history.Event
	Format HistoryOutputFormat
}

// NewHistoryOutput creates a HistoryOutput from events
func NewHistoryOutput(events []history.Event, format HistoryOutputFormat) *HistoryOutput {
	return &HistoryOutput{
		Events: events,
		Format: format,
	}
}

// Render writes the events to the writer in the configured format
func (o *HistoryOutput) Render(w io.Writer) error {
	switch o.Format {
	case HistoryJSONFormat:
		return o.renderJSON(w)
	case HistoryTableFormat:
		return o.renderTable(w)
	default:
		return errors.Errorf("unsupported output format: %d", o.Format)
	}
}

func (o *HistoryOutput) renderJSON(w io.Writer) error {
	data, err := json.MarshalIndent(o.Events, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling history to JSON")
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func (o *HistoryOutput) renderTable(w io.Writer) error {
	if len(o.Events) == 0 {
		fmt.Fprintln(w, "No history recorded yet")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Time\tAction\tID\tName\tTarget")
	fmt.Fprintln(tw, "----\t------\t--\t----\t------")

	for _, event := range o.Events {
		target := event.Target
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			event.CreatedAt.Local().Format("2006-01-02 15:04"),
			event.Action,
			event.SnippetID,
			event.Name,
			target,
		)
	}

	return tw.Flush()
}

// HistoryConfig holds configuration for the history command
type HistoryConfig struct {
	Limit int
	JSON  bool
}

// NewHistoryConfig creates a new HistoryConfig with default values
func NewHistoryConfig() *HistoryConfig {
	return &HistoryConfig{
		Limit: 20,
		JSON:  false,
	}
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent install, uninstall and publish events",
	Long: `Show the most recent snippet events recorded in the local history
database, newest first.

Recording can be turned off with history_enabled: false in the
configuration file, or SNIPMD_HISTORY_ENABLED=false.

Example:
  snipmd history
  snipmd history --limit 50 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		config := getHistoryConfigFromFlags(cmd)

		cfg := loadConfig(ctx)
		if !cfg.HistoryEnabled {
			presenter.Info("History is disabled (history_enabled: false)")
			return nil
		}

		dbPath, err := appconf.HistoryDBPath()
		if err != nil {
			return errors.Wrap(err, "locating the history database")
		}
		store, err := history.Open(ctx, dbPath)
		if err != nil {
			return errors.Wrap(err, "opening the history database")
		}
		defer store.Close()

		events, err := store.Recent(ctx, config.Limit)
		if err != nil {
			return err
		}

		format := HistoryTableFormat
		if config.JSON {
			format = HistoryJSONFormat
		}
		return NewHistoryOutput(events, format).Render(os.Stdout)
	},
}

func init() {
	historyDefaults := NewHistoryConfig()
	historyCmd.Flags().IntP("limit", "n", historyDefaults.Limit, "Maximum number of events to show")
	historyCmd.Flags().Bool("json", historyDefaults.JSON, "Output in JSON format")
}

// getHistoryConfigFromFlags extracts history configuration from command flags
func getHistoryConfigFromFlags(cmd *cobra.Command) *HistoryConfig {
	config := NewHistoryConfig()

	if limit, err := cmd.Flags().GetInt("limit"); err == nil {
		config.Limit = limit
	}
	if jsonOut, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = jsonOut
	}

	return config
}
