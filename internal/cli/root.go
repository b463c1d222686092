package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/vitalstats/internal/logging"
	"github.com/ppiankov/vitalstats/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Version is overridden at build time with -ldflags
var Version = "v0.1.0"

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vitalstats",
	Short: "Monthly vital statistics of Japan as a tidy table",
	Long: `vitalstats downloads the prompt (速報) monthly vital statistics
published by the Ministry of Health, Labour and Welfare and turns the
spreadsheets into one long table: category, month, value.

Each spreadsheet holds three years of live births, deaths, foetal deaths,
marriages, divorces and natural change. Era dates (令和4年) are converted
to Gregorian years and labels can be output in English or Japanese.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vitalstats %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.vitalstats/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every download")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	// Built-in defaults are the base layer so every key is known to viper
	// and can be overridden from the environment
	viper.SetConfigType("yaml")
	defaults, err := yaml.Marshal(model.DefaultConfig())
	if err == nil {
		err = viper.ReadConfig(bytes.NewReader(defaults))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading defaults: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
		} else {
			// Search for config in home directory
			viper.AddConfigPath(filepath.Join(home, ".vitalstats"))
			viper.SetConfigName("config")
		}
	}

	// Read in environment variables that match VITALSTATS_*
	viper.SetEnvPrefix("VITALSTATS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	fileErr := viper.MergeInConfig()
	var notFound viper.ConfigFileNotFoundError
	if fileErr != nil && !errors.As(fileErr, &notFound) {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", fileErr)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding config: %v\n", err)
		cfg = model.DefaultConfig()
	}

	logger := logging.Init(cfg.Logging, cfg.Output.Verbose)
	if fileErr == nil {
		logger.Info("using config file", "path", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged viper settings
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
