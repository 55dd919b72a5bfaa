package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/career-checker/internal/filtering"
	"github.com/spigell/career-checker/internal/logger"
	"github.com/spigell/career-checker/internal/pipeline"
	"github.com/spigell/career-checker/internal/report"
	"github.com/spigell/career-checker/internal/rules"
)

const (
	PromptReport              = "Show report"
	PromptMatchedRules        = "Show matched rules"
	PromptExportXLSX          = "Export to xlsx"
	PromptDumpJSON            = "Dump result to file"
	PromptAppendToExcludeFile = "Append other projects to exclude file"
	PromptExit                = "Exit"
	PromptBack                = "back"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Next?",
	Items: []string{PromptReport, PromptMatchedRules, PromptExportXLSX, PromptDumpJSON, PromptAppendToExcludeFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate the rules on the primary document and score the secondary one",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("primary", "p", "", "document the rules are evaluated on (pdf, image based pdf or json records)")
	runCmd.Flags().StringP("secondary", "s", "", "document whose entries are classified and scored. Default is the primary document.")
	runCmd.Flags().BoolP("yes", "y", false, "print the report and exit without the interactive menu")
	runCmd.Flags().StringP("exclude-file", "e", "", "file with project names to exclude, one per line. Default is unset.")
	runCmd.Flags().StringP("xlsx", "x", "", "also export the result to this xlsx file")

	runCmd.MarkFlagRequired("primary")

	viper.BindPFlag("exclude-file", runCmd.Flags().Lookup("exclude-file"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	logger, err := logger.New(logOptions())
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the career-checker", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if err := runPipeline(cmd, logger, config); err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}
}

// runPipeline owns the page cache. It is closed before any error is returned.
func runPipeline(cmd *cobra.Command, logger *zap.Logger, config *Config) error {
	ctx := context.Background()

	catalogue, err := loadCatalogue(config)
	if err != nil {
		return fmt.Errorf("loading the rule catalogue: %w", err)
	}
	logger.Info("rule catalogue loaded", zap.String("version", catalogue.Version), zap.Int("rules", catalogue.Len()))

	runner, closer, err := newRunner(ctx, config, catalogue, logger)
	defer closer()
	if err != nil {
		return fmt.Errorf("preparing the pipeline: %w", err)
	}

	primary, _ := cmd.Flags().GetString("primary")
	secondary, _ := cmd.Flags().GetString("secondary")

	result, err := runner.Run(ctx, primary, secondary)
	if err != nil {
		return fmt.Errorf("processing documents: %w", err)
	}

	if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
		if err := exportXLSX(logger, result, path); err != nil {
			return fmt.Errorf("exporting xlsx: %w", err)
		}
	}

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		if err := report.WriteText(os.Stdout, result); err != nil {
			return fmt.Errorf("writing the report: %w", err)
		}
		return nil
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		if err := handleAction(action, logger, config, catalogue, result); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, catalogue *rules.Catalogue, result *pipeline.Result) error {
	switch action {
	case PromptReport:
		return report.WriteText(os.Stdout, result)
	case PromptMatchedRules:
		return showMatchedRules(catalogue, result)
	case PromptExportXLSX:
		path, err := (&promptui.Prompt{Label: "xlsx file", Default: "career-checker_" + result.ID[:8] + ".xlsx"}).Run()
		if err != nil {
			return err
		}
		return exportXLSX(logger, result, path)
	case PromptDumpJSON:
		filename, err := report.DumpToTmpFile(result)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendOther(logger, config, result)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showMatchedRules(catalogue *rules.Catalogue, result *pipeline.Result) error {
	if len(result.Matched) == 0 {
		fmt.Println("(no projects in the primary document)")
		return nil
	}

	for {
		items := make([]string, 0, len(result.Matched)+1)
		for i, pm := range result.Matched {
			items = append(items, fmt.Sprintf("%d %s (%d rules)", i+1, pm.Project.Entry.ProjectName, pm.Matches.Len()))
		}

		projectPrompt := promptui.Select{
			Label: "Choose a project and press ENTER",
			Items: append(items, PromptBack),
			Size:  15,
		}

		i, _, err := projectPrompt.Run()
		if err != nil {
			return err
		}
		if i == len(items) {
			return nil
		}

		if err := report.WriteProjectSummary(os.Stdout, catalogue, result.Matched[i]); err != nil {
			return err
		}
		fmt.Println()
	}
}

func exportXLSX(logger *zap.Logger, result *pipeline.Result, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("xlsx path is empty")
	}
	if err := report.WriteXLSX(path, result); err != nil {
		return err
	}
	logger.Info("exported to xlsx", zap.String("filename", path))
	return nil
}

func appendOther(logger *zap.Logger, config *Config, result *pipeline.Result) error {
	excludeFile := strings.TrimSpace(config.ExcludeFile)
	if excludeFile == "" {
		logger.Warn("exclude file is not configured", zap.String("hint", "pass --exclude-file or set exclude-file"))
		return nil
	}

	var names []string
	for _, r := range result.Other() {
		names = append(names, r.Project.Entry.ProjectName)
	}

	added, err := filtering.AppendExcludeFile(excludeFile, names)
	if err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", excludeFile), zap.Int("count", added))
	return nil
}
