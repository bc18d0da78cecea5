package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zoro11031/treestage/internal/config"
)

var profileClearParent bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage staging profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newStageContext()
		if err != nil {
			return err
		}

		profiles, err := ctx.Config.Profiles()
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			ctx.UI.Info("No profiles configured")
			return nil
		}
		for _, p := range profiles {
			suffix := ""
			if p.ClearParent {
				suffix = " [clear-parent]"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s -> %s%s\n", p.Name, p.Source, p.Destination, suffix)
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show one profile and when it was last staged",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newStageContext()
		if err != nil {
			return err
		}

		p, err := ctx.Config.Profile(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "name:         %s\n", p.Name)
		fmt.Fprintf(out, "source:       %s\n", p.Source)
		fmt.Fprintf(out, "destination:  %s\n", p.Destination)
		fmt.Fprintf(out, "clear_parent: %t\n", p.ClearParent)
		if at, err := ctx.Markers.StagedAt(p.Name); err == nil {
			fmt.Fprintf(out, "staged_at:    %s\n", at.Format(time.RFC3339))
		} else {
			fmt.Fprintln(out, "staged_at:    never")
		}
		return nil
	},
}

var profileAddCmd = &cobra.Command{
	Use:   "add NAME SOURCE DEST",
	Short: "Add or replace a profile",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newStageContext()
		if err != nil {
			return err
		}

		p := config.Profile{Name: args[0], Source: args[1], Destination: args[2], ClearParent: profileClearParent}
		if err := ctx.Config.SetProfile(p); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		ctx.UI.Successf("Profile %s saved to %s", p.Name, ctx.Config.FilePath())
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove a profile and its marker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newStageContext()
		if err != nil {
			return err
		}

		if err := ctx.Config.RemoveProfile(args[0]); err != nil {
			return err
		}
		if err := ctx.Markers.Remove(args[0]); err != nil {
			ctx.UI.Warningf("Failed to remove marker: %v", err)
		}
		ctx.UI.Successf("Profile %s removed", args[0])
		return nil
	},
}

func init() {
	profileAddCmd.Flags().BoolVar(&profileClearParent, "clear-parent", false, "Clear DEST's parent directory before staging")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileRemoveCmd)
	rootCmd.AddCommand(profileCmd)
}
