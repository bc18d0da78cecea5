package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zoro11031/treestage/internal/cli"
)

var (
	stageClearParent bool
	stageForce       bool
	stageLock        bool
)

var stageCmd = &cobra.Command{
	Use:   "stage SOURCE DEST",
	Short: "Replace DEST with a copy of SOURCE",
	Long: `Replace DEST with a copy of SOURCE.

SOURCE may be a file or a directory tree. Whatever DEST held before is
removed first, and missing parent directories of DEST are created. A
missing SOURCE is not an error and leaves DEST untouched.

Use "-" as SOURCE to stage standard input into the file DEST.`,
	Args: cobra.ExactArgs(2),
	RunE: runStage,
}

func init() {
	stageCmd.Flags().BoolVar(&stageClearParent, "clear-parent", false, "Remove everything in DEST's parent directory first")
	stageCmd.Flags().BoolVarP(&stageForce, "force", "f", false, "Allow critical system paths and skip confirmation")
	stageCmd.Flags().BoolVar(&stageLock, "lock", false, "Hold an exclusive lock on DEST while staging")
	rootCmd.AddCommand(stageCmd)
}

func runStage(cmd *cobra.Command, args []string) error {
	ctx, err := newStageContext()
	if err != nil {
		return err
	}

	src, dst := args[0], args[1]
	opts := cli.StageOptions{ClearParent: stageClearParent, Force: stageForce, Lock: stageLock}

	if src == "-" {
		if err := ctx.StageStream(cmd.Context(), io.NopCloser(os.Stdin), dst, opts); err != nil {
			return err
		}
		ctx.UI.Successf("Staged standard input to %s", dst)
		return nil
	}

	if !ctx.FS.Exists(src) {
		ctx.UI.Warningf("Source %s does not exist, nothing staged", src)
		return nil
	}

	if err := ctx.StagePaths(cmd.Context(), src, dst, opts); err != nil {
		return err
	}
	ctx.UI.Successf("Staged %s to %s", src, dst)
	return nil
}
