package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/maty-millien/pushit/snapshot"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned by Validate when no API key is configured.
var ErrMissingAPIKey = errors.New("OPENROUTER_API_KEY environment variable is not set")

// Config represents the structure of the configuration file
type Config struct {
	ApiKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	ApiUrl              string        `mapstructure:"api_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxDiffChars        int           `mapstructure:"max_diff_chars"`
	MaxPromptChars      int           `mapstructure:"max_prompt_chars"`
	HistoryCount        int           `mapstructure:"history_count"`
	IncludeFileContents bool          `mapstructure:"include_file_contents"`
	MaxFileSize         int64         `mapstructure:"max_file_size"`
	MaxLinesPerFile     int           `mapstructure:"max_lines_per_file"`
	Temperature         *float32      `mapstructure:"temperature"`
	MaxTokens           int           `mapstructure:"max_tokens"`
	ProviderSort        string        `mapstructure:"provider_sort"`
	Theme               string        `mapstructure:"theme"`
	LogFile             string        `mapstructure:"log_file"`
	Debug               bool          `mapstructure:"debug"`
	DryRun              bool          `mapstructure:"dry_run"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Model:               "google/gemini-2.5-flash-preview-09-2025",
	ApiUrl:              "https://openrouter.ai/api/v1/chat/completions",
	Timeout:             60 * time.Second,
	MaxDiffChars:        snapshot.DefaultLimits.MaxDiffChars,
	MaxPromptChars:      60000,
	HistoryCount:        snapshot.DefaultLimits.HistoryCount,
	IncludeFileContents: snapshot.DefaultLimits.IncludeFileContents,
	MaxFileSize:         snapshot.DefaultLimits.MaxFileSize,
	MaxLinesPerFile:     snapshot.DefaultLimits.MaxLinesPerFile,
	ProviderSort:        "latency",
	Theme:               "dracula",
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// DefaultConfigDir returns ~/.config/pushit.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pushit")
}

// LoadConfigs resolves the configuration from defaults, the config file in
// configDir (or --config), configDir/.env, the environment and the flags of
// rootCmd, in increasing order of precedence.
func LoadConfigs(rootCmd *cobra.Command, configDir string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configDir != "" {
		// variables already present in the environment win over the file
		if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(err, "error reading .env file")
		}
	}

	v.SetEnvPrefix("PUSHIT")
	v.AutomaticEnv()
	bindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "error reading config file %s", cfgFile)
		}
	} else if configDir != "" {
		v.SetConfigName("pushit-config")
		v.AddConfigPath(configDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "error reading config file")
			}
		}
	}

	if err := bindFlags(v, rootCmd); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "unable to decode into struct")
	}
	return &config, nil
}

// Validate reports configuration that makes a generation request impossible.
func (c *Config) Validate() error {
	if c.ApiKey == "" {
		return ErrMissingAPIKey
	}
	if c.Timeout <= 0 {
		return errors.Newf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// Limits returns the snapshot budgets carried by the configuration.
func (c *Config) Limits() snapshot.Limits {
	return snapshot.Limits{
		MaxDiffChars:        c.MaxDiffChars,
		HistoryCount:        c.HistoryCount,
		IncludeFileContents: c.IncludeFileContents,
		MaxFileSize:         c.MaxFileSize,
		MaxLinesPerFile:     c.MaxLinesPerFile,
	}
}

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", DefaultConfig.ApiKey)
	v.SetDefault("model", DefaultConfig.Model)
	v.SetDefault("api_url", DefaultConfig.ApiUrl)
	v.SetDefault("timeout", DefaultConfig.Timeout)
	v.SetDefault("max_diff_chars", DefaultConfig.MaxDiffChars)
	v.SetDefault("max_prompt_chars", DefaultConfig.MaxPromptChars)
	v.SetDefault("history_count", DefaultConfig.HistoryCount)
	v.SetDefault("include_file_contents", DefaultConfig.IncludeFileContents)
	v.SetDefault("max_file_size", DefaultConfig.MaxFileSize)
	v.SetDefault("max_lines_per_file", DefaultConfig.MaxLinesPerFile)
	v.SetDefault("max_tokens", DefaultConfig.MaxTokens)
	v.SetDefault("provider_sort", DefaultConfig.ProviderSort)
	v.SetDefault("theme", DefaultConfig.Theme)
	v.SetDefault("log_file", DefaultConfig.LogFile)
	v.SetDefault("debug", DefaultConfig.Debug)
	v.SetDefault("dry_run", DefaultConfig.DryRun)
}

// bindEnv explicitly binds environment variables to configuration keys.
// Every other key is read from PUSHIT_<KEY> by AutomaticEnv.
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("api_key", "OPENROUTER_API_KEY", "PUSHIT_API_KEY")
	_ = v.BindEnv("model", "OPENROUTER_MODEL", "PUSHIT_MODEL")
	_ = v.BindEnv("api_url", "OPENROUTER_API_URL", "PUSHIT_API_URL")
	_ = v.BindEnv("temperature", "PUSHIT_TEMPERATURE")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(v *viper.Viper, rootCmd *cobra.Command) error {
	flags := map[string]string{
		"model":    "model",
		"api_url":  "api_url",
		"debug":    "debug",
		"dry_run":  "dry-run",
		"theme":    "theme",
		"log_file": "log_file",
	}
	for key, name := range flags {
		flag := rootCmd.PersistentFlags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return errors.Wrapf(err, "failed to bind flag --%s", name)
		}
	}
	return nil
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a configuration file (JSON or YAML). Defaults to ~/.config/pushit/pushit-config.{yaml,json}.")
	rootCmd.PersistentFlags().String("model", DefaultConfig.Model, "The OpenRouter model used to generate the commit message.")
	rootCmd.PersistentFlags().String("api_url", DefaultConfig.ApiUrl, "The chat completions endpoint.")
	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "The chroma theme used to highlight diffs (e.g., 'dracula', 'monokai').")
	rootCmd.PersistentFlags().String("log_file", DefaultConfig.LogFile, "Path of the log file. Defaults to ~/.cache/pushit/pushit.log.")
	rootCmd.PersistentFlags().Bool("debug", DefaultConfig.Debug, "Log debug details to stderr as well as the log file.")
	rootCmd.PersistentFlags().Bool("dry-run", DefaultConfig.DryRun, "Preview the message for all local changes without staging, committing or pushing.")
}
