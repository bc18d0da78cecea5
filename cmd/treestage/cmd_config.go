package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zoro11031/treestage/internal/config"
	"github.com/zoro11031/treestage/internal/logging"
)

// settableKeys are the scalar settings "config set" accepts; profiles have
// their own command.
var settableKeys = []string{
	config.KeyLogLevel,
	config.KeyNonInteractive,
	config.KeyLock,
	config.KeyParallelism,
	config.KeyStateDir,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change settings",
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print a setting (falls back to its default)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newStageContext()
		if err != nil {
			return err
		}

		key := args[0]
		value, err := ctx.Config.Get(key)
		if err != nil {
			def, ok := config.Defaults[key]
			if !ok {
				return err
			}
			value = def
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Store a setting in the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := validateSetting(key, value); err != nil {
			return err
		}

		ctx, err := newStageContext()
		if err != nil {
			return err
		}
		if err := ctx.Config.Set(key, value); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
		ctx.UI.Successf("%s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset KEY",
	Short: "Remove a setting so its default applies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newStageContext()
		if err != nil {
			return err
		}

		key := args[0]
		if key == config.KeyProfiles {
			return fmt.Errorf("use 'treestage profile remove' to delete profiles")
		}
		if !ctx.Config.Exists(key) {
			return fmt.Errorf("%s is not set in %s", key, ctx.Config.FilePath())
		}
		if err := ctx.Config.Delete(key); err != nil {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
		ctx.UI.Successf("%s unset", key)
		return nil
	},
}

// validateSetting rejects unknown keys and malformed values before they reach the file
func validateSetting(key, value string) error {
	known := false
	for _, k := range settableKeys {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown setting %q (valid: %v)", key, settableKeys)
	}

	switch key {
	case config.KeyLogLevel:
		if _, err := logging.ParseLevel(value); err != nil {
			return err
		}
	case config.KeyNonInteractive, config.KeyLock:
		if value != "true" && value != "false" {
			return fmt.Errorf("%s must be true or false", key)
		}
	case config.KeyParallelism:
		if n, err := strconv.Atoi(value); err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer", key)
		}
	}
	return nil
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}
