package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/career-checker/internal/rules"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the built-in rule catalogue version",
	Run: func(_ *cobra.Command, _ []string) {
		catalogue := "invalid"
		if c, err := rules.Default(); err == nil {
			catalogue = c.Version
		}
		fmt.Printf("%s version: %s, rule catalogue: %s\n", app, version, catalogue)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
