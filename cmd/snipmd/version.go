package main

import (
	"fmt"
	"os"

	"github.com/snipmd/snipmd/pkg/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the snipmd version, git commit, and build details.`,
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()

		if short, err := cmd.Flags().GetBool("short"); err == nil && short {
			fmt.Println(info.Version)
			return
		}

		if asJSON, err := cmd.Flags().GetBool("json"); err == nil && asJSON {
			json, err := info.JSON()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error formatting version info: %s\n", err)
				os.Exit(1)
			}
			fmt.Println(json)
			return
		}

		fmt.Printf("snipmd %s (commit %s, built %s, %s)\n", info.Version, info.GitCommit, info.BuildTime, info.GoVersion)
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print the bare version number")
	versionCmd.Flags().Bool("json", false, "Print the version information as JSON")
}
