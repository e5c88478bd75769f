/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tristendillon/headersync/core/config"
	"github.com/tristendillon/headersync/core/logger"
)

var rootCmd = &cobra.Command{
	Use:   "headersync",
	Short: "Keeps a tree of generated Rust bindings in sync with C headers.",
	Long: `headersync mirrors a directory of C header files as a Rust module tree.
Every header becomes one module produced by an external translator (bindgen
by default), every directory becomes a nested module, and the output root is
rebuilt from scratch on each run.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// translator settings such as LIBCLANG_PATH may live in .env
		_ = godotenv.Load()
		logger.SetVerbose(verbose)
	},
}

var logfile string
var verbose bool
var configPath string

var appFs = afero.NewOsFs()

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write the run log to (overrides log_file)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to "+config.FileName+" (default: ./"+config.FileName+")")
}

// loadConfig reads the config and applies the persistent flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(appFs, configPath)
	if err != nil {
		return nil, err
	}
	if logfile != "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg.LogFile = logfile
		cfg.Resolve(wd)
	}
	return cfg, nil
}
