package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-checker/internal/logger"
	"github.com/spigell/career-checker/internal/pipeline"
	"github.com/spigell/career-checker/internal/report"
)

var extractCmd = &cobra.Command{
	Use:   "extract <document>",
	Short: "Extract one document and print its pages, entries and issues as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		extractDocument(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().Bool("no-filters", false, "keep every parsed entry")
}

func extractDocument(cmd *cobra.Command, path string) {
	logger, err := logger.New(logOptions())
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	noFilters, _ := cmd.Flags().GetBool("no-filters")
	if err := writeDocument(context.Background(), config, path, noFilters, logger, os.Stdout); err != nil {
		logger.Fatal("extracting document", zap.Error(err))
	}
}

// writeDocument processes one document and writes it as JSON. The page cache
// is closed before it returns.
func writeDocument(ctx context.Context, config *Config, path string, noFilters bool, log *zap.Logger, w io.Writer) error {
	ex, closer, err := newExtractor(config, log)
	defer closer()
	if err != nil {
		return fmt.Errorf("building extractor: %w", err)
	}

	filters := newFilters(config, log)
	if noFilters {
		for _, status := range filters.Describe() {
			filters.DisableByName(status.Name, "no-filters flag is set")
		}
	}

	doc, err := pipeline.NewLoader(ex, filters, config.Normalize, log).Load(ctx, path)
	if err != nil {
		return fmt.Errorf("processing document: %w", err)
	}

	return report.WriteJSON(w, doc)
}
