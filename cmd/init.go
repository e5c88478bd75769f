/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tristendillon/headersync/core/config"
	"github.com/tristendillon/headersync/core/logger"
	"github.com/tristendillon/headersync/core/template_engine"
)

var (
	force       bool
	sourceRoot  string
	hiddenTypes []string
	withCache   bool
)

type initData struct {
	SourceRoot  string
	OutputRoot  string
	Command     string
	HiddenTypes []string
	Cache       bool
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a new headersync project",
	Long:  `Creates ` + config.FileName + `, an empty src/lib.rs and src/.gitkeep in dir (default: current directory).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("init called")
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		defaults := config.Default()
		data := initData{
			SourceRoot:  sourceRoot,
			OutputRoot:  "src",
			Command:     defaults.Translator.Command,
			HiddenTypes: hiddenTypes,
			Cache:       withCache,
		}

		engine := template_engine.NewTemplateEngine(appFs, logger.Default())
		engine.Overwrite = force
		written, err := engine.GenerateFolder(template_engine.TEMPLATES.INIT.Ref, dir, data)
		if err != nil {
			if !force {
				return fmt.Errorf("failed to initialize project: %w (use --force to overwrite)", err)
			}
			return fmt.Errorf("failed to initialize project: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, p := range written {
			fmt.Fprintf(out, "  created %s\n", p)
		}
		fmt.Fprintf(out, "Next Steps:\n")
		if dir != "." {
			fmt.Fprintf(out, "  - cd %s\n", dir)
		}
		fmt.Fprintf(out, "  - point source_root in %s at your headers\n", config.FileName)
		fmt.Fprintf(out, "  - headersync generate\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Force overwrite existing files")
	initCmd.Flags().StringVar(&sourceRoot, "source-root", config.Default().SourceRoot, "Header tree to mirror")
	initCmd.Flags().StringSliceVar(&hiddenTypes, "hide-type", nil, "Type names the translator should hide (repeatable)")
	initCmd.Flags().BoolVar(&withCache, "cache", false, "Enable the translation cache")
}
