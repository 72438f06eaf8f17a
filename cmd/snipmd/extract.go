package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/snipmd/snipmd/pkg/appconf"
	"github.com/snipmd/snipmd/pkg/claudemd"
	"github.com/snipmd/snipmd/pkg/extractor"
	"github.com/snipmd/snipmd/pkg/history"
	"github.com/snipmd/snipmd/pkg/presenter"
	"github.com/snipmd/snipmd/pkg/snippet"
	"github.com/spf13/cobra"
)

// ExtractConfig holds configuration for the extract command
type ExtractConfig struct {
	Publish bool
}

// NewExtractConfig creates a new ExtractConfig with default values
func NewExtractConfig() *ExtractConfig {
	return &ExtractConfig{
		Publish: false,
	}
}

var extractCmd = &cobra.Command{
	Use:   "extract <query>",
	Short: "Extract a snippet from ~/.claude/CLAUDE.md",
	Long: `Extract the sections of ~/.claude/CLAUDE.md relevant to a query.

The claude CLI reads the file and composes a standalone Markdown snippet,
which is saved as a draft under ./.snipmd/drafts/. Pass --publish to push
the draft straight into the snippet repository.

Example:
  snipmd extract "running GUI applications"
  snipmd extract "docker compose" --publish`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getExtractConfigFromFlags(cmd)
		query := args[0]

		ext := extractor.New()
		if !ext.Available() {
			presenter.Error(errors.New("claude CLI not found"), "Extraction needs the claude CLI on PATH")
			os.Exit(1)
		}

		target, err := claudemd.Resolve(claudemd.ScopeUser)
		if err != nil {
			presenter.Error(err, "Failed to locate the user CLAUDE.md")
			os.Exit(1)
		}
		if !target.Exists() {
			presenter.Error(errors.Errorf("%s does not exist", target.Path), "Nothing to extract from")
			os.Exit(1)
		}

		presenter.Info(fmt.Sprintf("Extracting %q from %s...", query, target.Path))
		draft, err := ext.Extract(ctx, query, target.Path)
		if err != nil {
			presenter.Error(err, "Extraction failed")
			os.Exit(1)
		}

		path, err := extractor.SaveDraft(appconf.DraftsDir(), query, draft)
		if err != nil {
			presenter.Error(err, "Failed to save the draft")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Draft saved to %s", path))

		if !config.Publish {
			presenter.Info(fmt.Sprintf("Publish it with: snipmd publish %s", path))
			return
		}

		cfg := loadConfig(ctx)
		store, repoName, err := openStore(ctx, &cfg)
		if err != nil {
			presenter.Error(err, "Failed to open the snippet repository")
			os.Exit(1)
		}

		sn, err := store.Publish(ctx, snippet.PublishRequest{
			Name:    query,
			Source:  query,
			Content: draft,
		})
		if err != nil {
			presenter.Error(err, "Failed to publish the draft")
			os.Exit(1)
		}

		events := openHistory(ctx, cfg)
		defer events.Close()
		events.TryRecord(ctx, history.Event{
			Action:    history.ActionPublish,
			SnippetID: sn.ID,
			Name:      sn.Name,
			Repo:      repoName,
		})

		presenter.Success(fmt.Sprintf("Published snippet %q (ID: %s)", sn.Name, sn.ID))
	},
}

func init() {
	extractDefaults := NewExtractConfig()
	extractCmd.Flags().BoolP("publish", "p", extractDefaults.Publish, "Publish the extracted draft into the snippet repository")
}

// getExtractConfigFromFlags extracts extract configuration from command flags
func getExtractConfigFromFlags(cmd *cobra.Command) *ExtractConfig {
	config := NewExtractConfig()

	if publish, err := cmd.Flags().GetBool("publish"); err == nil {
		config.Publish = publish
	}

	return config
}
