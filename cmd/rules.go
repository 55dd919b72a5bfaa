package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/spigell/career-checker/internal/report"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rule catalogue grouped by category and group",
	Run: func(_ *cobra.Command, _ []string) {
		config, err := getConfig()
		if err != nil {
			log.Fatalf("getting a config: %s", err)
		}

		catalogue, err := loadCatalogue(config)
		if err != nil {
			log.Fatalf("loading the rule catalogue: %s", err)
		}

		if err := report.WriteCatalogue(os.Stdout, catalogue); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
