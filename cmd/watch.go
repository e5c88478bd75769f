/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tristendillon/headersync/core/logger"
	"github.com/tristendillon/headersync/core/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerates the bindings whenever the source headers change",
	Long: `Runs generate once, then watches the source root and runs it again after
each burst of changes settles. The output root and the run log are ignored.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("watch called")
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := logger.Default()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		exclude := []string{cfg.OutputRoot, cfg.LogFile}
		if cfg.Cache.Enabled {
			exclude = append(exclude, filepath.Dir(cfg.Cache.Path))
		}
		fw, err := watcher.NewFileWatcher(cfg.SourceRoot, exclude, log)
		if err != nil {
			return err
		}
		defer fw.Close()

		regenerate := func() error {
			rep, err := runGenerate(ctx, cfg, log)
			if err != nil {
				return err
			}
			return rep.Summarize().WriteText(cmd.OutOrStdout())
		}
		fw.OnStart = func() error {
			log.Info("Watching %s for header changes", cfg.SourceRoot)
			return regenerate()
		}
		fw.OnChange = regenerate
		fw.OnClose = func() error {
			log.Info("Stopped watching %s", cfg.SourceRoot)
			return nil
		}

		if err := fw.Watch(ctx); err != nil {
			return fmt.Errorf("watch failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
