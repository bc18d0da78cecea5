package main

import (
	"github.com/spf13/cobra"
)

var (
	eraseChildren bool
	eraseForce    bool
)

var eraseCmd = &cobra.Command{
	Use:   "erase PATH...",
	Short: "Delete files and directory trees",
	Long: `Delete each PATH and everything below it. Missing paths are ignored.

With --children, directories are emptied but kept.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newStageContext()
		if err != nil {
			return err
		}
		return ctx.Erase(args, eraseChildren, eraseForce)
	},
}

var eraseSiblingsCmd = &cobra.Command{
	Use:   "erase-siblings KEEP...",
	Short: "Delete everything next to the kept paths",
	Long: `Delete every entry in the parent directory of the first KEEP path,
except the KEEP paths themselves.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newStageContext()
		if err != nil {
			return err
		}
		return ctx.EraseSiblings(args, eraseForce)
	},
}

func init() {
	eraseCmd.Flags().BoolVar(&eraseChildren, "children", false, "Empty directories instead of removing them")
	eraseCmd.Flags().BoolVarP(&eraseForce, "force", "f", false, "Allow critical system paths")
	eraseSiblingsCmd.Flags().BoolVarP(&eraseForce, "force", "f", false, "Allow critical system paths")

	rootCmd.AddCommand(eraseCmd)
	rootCmd.AddCommand(eraseSiblingsCmd)
}
