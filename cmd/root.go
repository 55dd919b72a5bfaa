package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/career-checker/internal/ai/openrouter"
	"github.com/spigell/career-checker/internal/classify"
	"github.com/spigell/career-checker/internal/extract"
	"github.com/spigell/career-checker/internal/logger"
	"github.com/spigell/career-checker/internal/normalize"
	"github.com/spigell/career-checker/internal/score"
)

const (
	app       = "career-checker"
	envPrefix = "CAREER_CHECKER"
)

type Config struct {
	RulesFile   string                  `mapstructure:"rules-file"`
	ExcludeFile string                  `mapstructure:"exclude-file"`
	Extract     extract.Config          `mapstructure:"extract"`
	Tesseract   extract.TesseractConfig `mapstructure:"tesseract"`
	Cache       CacheConfig             `mapstructure:"cache"`
	Normalize   normalize.Options       `mapstructure:"normalize"`
	Classify    classify.Config         `mapstructure:"classify"`
	AI          *AIConfig               `mapstructure:"ai"`
	Score       *score.Config           `mapstructure:"score"`
}

type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type AIConfig struct {
	Provider   string            `mapstructure:"provider" validate:"omitempty,oneof=gemini openrouter"`
	Gemini     *GeminiConfig     `mapstructure:"gemini"`
	OpenRouter *OpenRouterConfig `mapstructure:"openrouter"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type OpenRouterConfig struct {
	APIKey            string `mapstructure:"api-key"`
	APIKeyFile        string `mapstructure:"api-key-file"`
	openrouter.Config `mapstructure:",squash"`
}

var envKeys = []string{
	"rules-file",
	"exclude-file",
	"cache.enabled",
	"cache.path",
	"normalize.date-type",
	"classify.strategy",
	"ai.provider",
	"ai.gemini.model",
	"ai.gemini.api-key-file",
	"ai.openrouter.model",
	"ai.openrouter.api-key-file",
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "career-checker extracts career certificates and scores the experience relevant to a rule set",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is career-checker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("rules-file", "", "rule catalogue file (default is the built-in catalogue)")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this file")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("rules-file", rootCmd.PersistentFlags().Lookup("rules-file"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
	// Unmarshal only sees env values of known keys.
	for _, key := range envKeys {
		if err := viper.BindEnv(key); err != nil {
			log.Fatalf("binding %s environment variable: %v", key, err)
		}
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// A missing default config is fine, every setting has a default.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func logOptions() logger.Options {
	return logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
		File:  viper.GetString("log-file"),
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}
	if config == nil {
		config = &Config{}
	}

	if config.Score == nil {
		config.Score = &score.Config{}
	}
	*config.Score = config.Score.WithDefaults()
	if config.AI == nil {
		config.AI = &AIConfig{}
	}

	if err := validator.New().Struct(config); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	if err := config.Score.Validate(); err != nil {
		return config, fmt.Errorf("invalid score config: %w", err)
	}

	return config, nil
}
