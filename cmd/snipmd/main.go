package main

import (
	"context"
	"fmt"
	"os"

	"github.com/snipmd/snipmd/pkg/appconf"
	"github.com/snipmd/snipmd/pkg/logger"
	"github.com/snipmd/snipmd/pkg/presenter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SNIPMD")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.snipmd")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()

	appconf.SetViperDefaults()
}

var rootCmd = &cobra.Command{
	Use:   "snipmd",
	Short: "Manage and share CLAUDE.md snippets",
	Long: `snipmd publishes, discovers, installs, and synchronizes reusable
CLAUDE.md snippets stored in shared GitHub repositories.

Snippets live as Markdown files with YAML frontmatter under ~/.snipmd/repos.
Installation into CLAUDE.md is tracked with marker comments, so every
installed block can be listed and removed again by its ID.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if level, err := cmd.Flags().GetString("log-level"); err == nil && level != "" {
			if err := logger.SetLogLevel(level); err != nil {
				presenter.Warning(fmt.Sprintf("Invalid log level %q, keeping the default", level))
			}
		}
		if format, err := cmd.Flags().GetString("log-format"); err == nil && format != "" {
			logger.SetLogFormat(format)
		}

		shutdown, err := initTracing(cmd.Context())
		if err != nil {
			logger.G(cmd.Context()).WithError(err).Debug("Failed to initialize tracing")
			return
		}
		tracingShutdown = shutdown
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		flushTracing(cmd.Context())
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func main() {
	// Add global flags
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json, text)")
	rootCmd.PersistentFlags().String("repo", "", "Snippet repository to use (overrides the configured default)")

	// Bind flags to viper
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("repo", rootCmd.PersistentFlags().Lookup("repo"))

	// Add subcommands
	rootCmd.AddCommand(withTracing(publishCmd))
	rootCmd.AddCommand(withTracing(extractCmd))
	rootCmd.AddCommand(withTracing(installCmd))
	rootCmd.AddCommand(withTracing(uninstallCmd))
	rootCmd.AddCommand(withTracing(searchCmd))
	rootCmd.AddCommand(withTracing(syncCmd))
	rootCmd.AddCommand(withTracing(pullCmd))
	rootCmd.AddCommand(withTracing(setupCmd))
	rootCmd.AddCommand(withTracing(statusCmd))
	rootCmd.AddCommand(withTracing(watchCmd))
	rootCmd.AddCommand(installedCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Execute
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
