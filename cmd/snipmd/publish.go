package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/snipmd/snipmd/pkg/history"
	"github.com/snipmd/snipmd/pkg/presenter"
	"github.com/snipmd/snipmd/pkg/snippet"
	"github.com/spf13/cobra"
)

// PublishConfig holds configuration for the publish command
type PublishConfig struct {
	Name        string
	Description string
}

// NewPublishConfig creates a new PublishConfig with default values
func NewPublishConfig() *PublishConfig {
	return &PublishConfig{}
}

var publishCmd = &cobra.Command{
	Use:   "publish [file]",
	Short: "Publish a snippet to the snippet repository",
	Long: `Publish a Markdown snippet into the active snippet repository.

The content is read from the given file, or from stdin when no file is
provided. A fresh 8-character ID is generated and the snippet is stored as
a Markdown file with YAML frontmatter. When --name is omitted the name is
derived from the content.

Example:
  snipmd publish notes/gui-apps.md --name "gui applications"
  cat tips.md | snipmd publish --description "Go testing tips"`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getPublishConfigFromFlags(cmd)

		content, err := readPublishInput(args, cmd.InOrStdin())
		if err != nil {
			presenter.Error(err, "Failed to read the snippet content")
			os.Exit(1)
		}
		if strings.TrimSpace(content) == "" {
			presenter.Error(errors.New("empty content"), "Refusing to publish an empty snippet")
			os.Exit(1)
		}

		cfg := loadConfig(ctx)
		store, repoName, err := openStore(ctx, &cfg)
		if err != nil {
			presenter.Error(err, "Failed to open the snippet repository")
			os.Exit(1)
		}

		sn, err := store.Publish(ctx, snippet.PublishRequest{
			Name:        config.Name,
			Description: config.Description,
			Content:     content,
		})
		if err != nil {
			presenter.Error(err, "Failed to publish the snippet")
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
		presenter.Info(fmt.Sprintf("Saved to %s", sn.Path))
	},
}

func init() {
	publishDefaults := NewPublishConfig()
	publishCmd.Flags().StringP("name", "n", publishDefaults.Name, "Name for the snippet (derived from the content when omitted)")
	publishCmd.Flags().StringP("description", "d", publishDefaults.Description, "Short description of the snippet")
}

// getPublishConfigFromFlags extracts publish configuration from command flags
func getPublishConfigFromFlags(cmd *cobra.Command) *PublishConfig {
	config := NewPublishConfig()

	if name, err := cmd.Flags().GetString("name"); err == nil {
		config.Name = name
	}
	if description, err := cmd.Flags().GetString("description"); err == nil {
		config.Description = description
	}

	return config
}

// readPublishInput reads the snippet content from the file argument, or
// from stdin when no argument is given.
func readPublishInput(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", errors.Wrapf(err, "reading %s", args[0])
		}
		return string(data), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", errors.Wrap(err, "reading stdin")
	}
	return string(data), nil
}
