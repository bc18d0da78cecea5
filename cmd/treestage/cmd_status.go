package main

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show staging status",
	Long:  `Display every configured profile and when it was last staged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newStageContext()
		if err != nil {
			return err
		}
		return ctx.PrintStatus()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
