package main

import (
	"github.com/spf13/cobra"
)

var (
	resetForce  bool
	resetConfig bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset staging markers",
	Long: `Clear all completion markers.

By default, this command will clear all completion markers but will NOT delete
your configuration file.

Use --config-file to also delete the configuration file and start completely fresh.`,
	RunE: resetState,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
	resetCmd.Flags().BoolVarP(&resetConfig, "config-file", "c", false, "Also delete configuration file")
	rootCmd.AddCommand(resetCmd)
}

func resetState(cmd *cobra.Command, args []string) error {
	ctx, err := newStageContext()
	if err != nil {
		return err
	}

	// Confirmation prompt
	if !resetForce {
		ctx.UI.Header("Reset Staging State")
		ctx.UI.Warning("This will clear all completion markers")
		if resetConfig {
			ctx.UI.Warning("Configuration file will also be DELETED")
			ctx.UI.Warningf("  %s", ctx.Config.FilePath())
		} else {
			ctx.UI.Info("Configuration file will NOT be deleted")
			ctx.UI.Info("Use --config-file flag to also delete configuration")
		}
		ctx.UI.Print("")

		confirm, err := ctx.UI.PromptYesNo("Are you sure you want to reset?", false)
		if err != nil {
			return err
		}

		if !confirm {
			ctx.UI.Info("Reset cancelled")
			return nil
		}
	}

	if err := ctx.Reset(resetConfig); err != nil {
		return err
	}

	ctx.UI.Print("")
	ctx.UI.Separator()
	ctx.UI.Success("Reset complete!")
	return nil
}
