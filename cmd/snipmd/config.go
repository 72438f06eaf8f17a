package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/snipmd/snipmd/pkg/appconf"
	"github.com/snipmd/snipmd/pkg/claudemd"
	"github.com/snipmd/snipmd/pkg/presenter"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change snipmd settings",
	Long: `View and change the persisted snipmd settings in
~/.snipmd/config.yaml.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconf.Load()
		if err != nil {
			return errors.Wrap(err, "loading the configuration")
		}
		path, err := appconf.ConfigPath()
		if err != nil {
			return errors.Wrap(err, "locating the configuration file")
		}

		presenter.Section("Configuration")
		defaultRepo := cfg.DefaultRepo
		if defaultRepo == "" {
			defaultRepo = "(not set, auto-detected)"
		}
		presenter.Info(fmt.Sprintf("Default repository: %s", defaultRepo))
		presenter.Info(fmt.Sprintf("Install location: %s", cfg.InstallLocation))
		presenter.Info(fmt.Sprintf("History enabled: %t", cfg.HistoryEnabled))
		presenter.Info(fmt.Sprintf("Config file: %s", path))
		return nil
	},
}

var configSetDefaultCmd = &cobra.Command{
	Use:   "set-default <repo>",
	Short: "Set the default snippet repository",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		dir, err := appconf.RepoDir(name)
		if err != nil {
			presenter.Error(err, "Failed to locate the repositories directory")
			os.Exit(1)
		}
		if _, err := os.Stat(dir); err != nil {
			presenter.Error(errors.Errorf("repository %q not found", name), "Cannot set the default repository")
			listAvailableRepos()
			os.Exit(1)
		}

		cfg, err := appconf.Load()
		if err != nil {
			presenter.Error(err, "Failed to load the configuration")
			os.Exit(1)
		}
		cfg.DefaultRepo = name
		if err := appconf.Save(cfg); err != nil {
			presenter.Error(err, "Failed to save the configuration")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Set %q as the default repository", name))
	},
}

var configSetInstallLocationCmd = &cobra.Command{
	Use:   "set-install-location <local|user>",
	Short: "Set where snippets are installed by default",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		scope, err := claudemd.ParseScope(args[0])
		if err != nil {
			presenter.Error(err, "Invalid install location")
			os.Exit(1)
		}

		cfg, err := appconf.Load()
		if err != nil {
			presenter.Error(err, "Failed to load the configuration")
			os.Exit(1)
		}
		cfg.InstallLocation = string(scope)
		if err := appconf.Save(cfg); err != nil {
			presenter.Error(err, "Failed to save the configuration")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Snippets now install into the %s CLAUDE.md by default", scope))
	},
}

// listAvailableRepos prints the directories under ~/.snipmd/repos.
func listAvailableRepos() {
	reposDir, err := appconf.ReposDir()
	if err != nil {
		return
	}
	entries, err := os.ReadDir(reposDir)
	if err != nil || len(entries) == 0 {
		presenter.Info("No repositories found. Run 'snipmd setup <repo-name>' to create one")
		return
	}
	presenter.Info("Available repositories:")
	for _, entry := range entries {
		if entry.IsDir() {
			presenter.Info(fmt.Sprintf("  - %s", entry.Name()))
		}
	}
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetDefaultCmd)
	configCmd.AddCommand(configSetInstallLocationCmd)
}
