// Package cmd provides the CLI commands for co2js.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"co2js-plugin/internal/config"
	"co2js-plugin/internal/logging"
	"co2js-plugin/internal/metrics"
	"co2js-plugin/models"
	"co2js-plugin/models/co2js"
)

const version = "0.1.0"

var (
	cfgFile string
	verbose bool

	// recorder collects metrics for every plugin built by the CLI
	recorder = metrics.NewRecorder()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "co2js",
	Short: "Estimate the operational carbon of data transfer",
	Long: `co2js estimates the carbon emitted by transferring bytes over the
internet, using the 1byte or Sustainable Web Design (swd) model.

Examples:
  co2js estimate --bytes 1000000 --model swd
  co2js estimate --bytes 1000000 --model 1byte --green
  co2js run ./website.yaml
  co2js run --format json --output out.json ./website.hcl`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.co2js.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	if err := models.RegisterPlugin(co2js.Name, co2js.Constructor(co2js.WithMetrics(recorder))); err != nil {
		panic(err)
	}

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "co2js version %s\n", version)
	},
}

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(config.Get())
	},
}

// modelsCmd lists the registered model plugins
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available model plugins",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range models.GetDefaultRegistry().Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}
