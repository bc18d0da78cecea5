package main

import (
	"github.com/spf13/cobra"

	"github.com/zoro11031/treestage/internal/cli"
)

var (
	applyForce bool
	applyLock  bool
)

var applyCmd = &cobra.Command{
	Use:   "apply [PROFILE...]",
	Short: "Stage configured profiles",
	Long: `Stage the named profiles from the configuration file, or all of them
when none are named.

Profiles run concurrently up to the "parallelism" setting. Concurrent runs
require that no two profiles touch overlapping destinations. Each profile
that stages successfully gets a completion marker shown by "status".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newStageContext()
		if err != nil {
			return err
		}
		return ctx.Apply(cmd.Context(), args, cli.StageOptions{Force: applyForce, Lock: applyLock})
	},
}

func init() {
	applyCmd.Flags().BoolVarP(&applyForce, "force", "f", false, "Allow critical system paths and skip confirmation")
	applyCmd.Flags().BoolVar(&applyLock, "lock", false, "Hold an exclusive lock on each destination while staging")
	rootCmd.AddCommand(applyCmd)
}
