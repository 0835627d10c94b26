package cmd

import (
	"fmt"
	"os"

	"github.com/nikogura/portfolio/pkg/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Turn a structured portfolio document into a resume",
	Long: `portfolio loads a structured portfolio JSON document and renders it as a
plain-text resume, saved to disk or opened as a print-ready preview.

It also relays contact form submissions and can serve the whole portfolio
over HTTP.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.portfolio/config.json)")
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}

// loadConfig reads the config file and lets source replace data_source. A
// missing config file is tolerated when source or the environment supplies
// the data source; any other config error is returned.
func loadConfig(source string) (cfg config.Config, err error) {
	cfg, err = config.Read(getConfigFile())
	if err != nil {
		if !errors.Is(err, config.ErrNotFound) {
			err = errors.Wrap(err, "failed to load config")
			return cfg, err
		}

		notFound := err
		cfg = config.Config{}
		err = cfg.ApplyEnv()
		if err != nil {
			return cfg, err
		}

		if source == "" && cfg.DataSource == "" {
			err = errors.Wrap(notFound, "failed to load config")
			return cfg, err
		}

		if getVerbose() {
			fmt.Printf("Config not used (%v)\n", notFound)
		}
	}

	if source != "" {
		cfg.DataSource = source
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}
