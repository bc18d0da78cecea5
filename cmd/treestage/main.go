package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zoro11031/treestage/internal/cli"
	"github.com/zoro11031/treestage/pkg/version"
)

var (
	configPath     string
	logLevel       string
	nonInteractive bool
)

var rootCmd = &cobra.Command{
	Use:   "treestage",
	Short: "Stage files and directory trees into place",
	Long: `treestage replaces a destination path with a fresh copy of a source file
or directory tree, creating missing parent directories and granting full
access on everything it creates.

Staging jobs can be given on the command line or stored as named profiles
in the configuration file and applied together.

Run without arguments to launch the interactive menu.`,
	SilenceUsage:  true, // We handle errors manually, but silence usage on error
	SilenceErrors: true, // We format errors ourselves for consistent output
	RunE:          runInteractiveMenu,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Launch interactive menu",
	Long:  `Launch the interactive menu to pick a profile to stage.`,
	RunE:  runInteractiveMenu,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/treestage/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Never prompt; destructive flags count as confirmation")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(menuCmd)
}

// newStageContext builds the command context from the global flags
func newStageContext() (*cli.StageContext, error) {
	ctx, err := cli.NewStageContext(cli.Options{
		ConfigPath:     configPath,
		LogLevel:       logLevel,
		NonInteractive: nonInteractive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize context: %w", err)
	}
	return ctx, nil
}

func runInteractiveMenu(cmd *cobra.Command, args []string) error {
	ctx, err := newStageContext()
	if err != nil {
		return err
	}

	menu := cli.NewMenu(ctx)
	return menu.Show(cmd.Context())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
