package main

import (
	"github.com/spf13/cobra"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare PATH",
	Short: "Create the missing parent directories of PATH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newStageContext()
		if err != nil {
			return err
		}
		return ctx.Prepare(args[0])
	},
}

func init() {
	rootCmd.AddCommand(prepareCmd)
}
