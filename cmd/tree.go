/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tristendillon/headersync/core/generator"
	"github.com/tristendillon/headersync/core/logger"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Shows the module tree the next generate would produce",
	Long:  `Walks the source root and prints the derived module tree without running the translator or touching the output root.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("tree called")
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		tree, err := generator.NewBindingGenerator(cfg, appFs, nil, logger.Default()).Preview()
		if err != nil {
			return err
		}
		if err := tree.Render(cmd.OutOrStdout()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d modules\n", tree.CountModules())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
