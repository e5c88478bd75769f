/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tristendillon/headersync/core/config"
	"github.com/tristendillon/headersync/core/generator"
	"github.com/tristendillon/headersync/core/logger"
	"github.com/tristendillon/headersync/core/report"
)

var (
	format    string
	printTree bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Regenerates the binding module tree from the source headers",
	Long: `Wipes the output root (keeping lib.rs and preserved entries), walks the
source root and translates every header into its own module.

Translator failures leave an empty placeholder module and are listed in the
summary; filesystem errors abort the run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("generate called")
		if format != "text" && format != "json" {
			return fmt.Errorf("unknown --format %q (want text or json)", format)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rep, err := runGenerate(ctx, cfg, logger.Default())
		if rep != nil && err == nil {
			if werr := writeReport(cmd.OutOrStdout(), rep); werr != nil {
				return werr
			}
		}
		return err
	},
}

// runGenerate performs one complete run with a fresh run log.
func runGenerate(ctx context.Context, cfg *config.Config, log *logger.Logger) (*report.Report, error) {
	runLog, err := logger.OpenRunLog(appFs, cfg.LogFile, log)
	if err != nil {
		return nil, err
	}
	defer runLog.Close()

	tr, closeTranslator, err := generator.BuildTranslator(cfg, appFs, log)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := closeTranslator(); err != nil {
			log.Warn("Failed to close translation cache: %v", err)
		}
	}()

	log.Info("Generating bindings from %s into %s", cfg.SourceRoot, cfg.OutputRoot)
	rep, err := generator.NewBindingGenerator(cfg, appFs, tr, log).Generate(ctx)
	if err != nil {
		log.Error("%v", err)
		return rep, fmt.Errorf("generate failed: %w", err)
	}
	return rep, nil
}

func writeReport(w io.Writer, rep *report.Report) error {
	if printTree && format == "text" {
		if err := rep.Modules().Render(w); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	s := rep.Summarize()
	if format == "json" {
		return s.WriteJSON(w)
	}
	return s.WriteText(w)
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&format, "format", "text", "Summary format: text or json")
	generateCmd.Flags().BoolVar(&printTree, "print-tree", false, "Print the generated module tree before the summary")
}
