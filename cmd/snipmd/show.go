package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/snipmd/snipmd/pkg/presenter"
	"github.com/snipmd/snipmd/pkg/resolver"
	"github.com/snipmd/snipmd/pkg/snippet"
	"github.com/spf13/cobra"
)

// ShowConfig holds configuration for the show command
type ShowConfig struct {
	JSON bool
}

// NewShowConfig creates a new ShowConfig with default values
func NewShowConfig() *ShowConfig {
	return &ShowConfig{}
}

var showCmd = &cobra.Command{
	Use:   "show <id-or-query>",
	Short: "Show one snippet in full",
	Long: `Show a snippet's metadata and raw content.

The argument is tried as an exact ID first and resolved as a query when
no snippet carries that ID.

Example:
  snipmd show 3f2a9c1d
  snipmd show "gui applications" --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		config := getShowConfigFromFlags(cmd)

		cfg := loadConfig(ctx)
		store, _, err := openStore(ctx, &cfg)
		if err != nil {
			return err
		}

		// Exact ID beats query resolution.
		sn, err := store.Get(ctx, args[0])
		if err != nil {
			if !errors.Is(err, snippet.ErrNotFound) {
				return errors.Wrap(err, "loading the snippet")
			}
			snippets, err := store.List(ctx)
			if err != nil {
				return errors.Wrap(err, "listing snippets")
			}
			if len(snippets) == 0 {
				return errors.New("no snippets published yet")
			}
			id, ok, err := newResolver().Resolve(ctx, args[0], candidatesFromSnippets(snippets))
			if err != nil && !errors.Is(err, resolver.ErrNoMatch) {
				return errors.Wrap(err, "resolving the query")
			}
			if !ok {
				return errors.Errorf("no snippet matched %q", args[0])
			}
			if sn, err = store.Get(ctx, id); err != nil {
				return errors.Wrap(err, "loading the matched snippet")
			}
		}

		if config.JSON {
			data, err := json.MarshalIndent(sn, "", "  ")
			if err != nil {
				return errors.Wrap(err, "failed to marshal the snippet to JSON")
			}
			fmt.Println(string(data))
			return nil
		}

		presenter.Section(sn.Name)
		presenter.Info(fmt.Sprintf("ID: %s", sn.ID))
		if sn.Description != "" {
			presenter.Info(fmt.Sprintf("Description: %s", sn.Description))
		}
		if sn.Source != "" {
			presenter.Info(fmt.Sprintf("Source: %s", sn.Source))
		}
		presenter.Info(fmt.Sprintf("Created: %s", sn.CreatedAt.Format(time.RFC3339)))
		presenter.Info(fmt.Sprintf("Path: %s", sn.Path))
		presenter.Separator()
		fmt.Println(sn.Content)
		return nil
	},
}

func init() {
	showDefaults := NewShowConfig()
	showCmd.Flags().Bool("json", showDefaults.JSON, "Output as JSON")
}

// getShowConfigFromFlags extracts show configuration from command flags
func getShowConfigFromFlags(cmd *cobra.Command) *ShowConfig {
	config := NewShowConfig()

	if jsonOut, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = jsonOut
	}

	return config
}
