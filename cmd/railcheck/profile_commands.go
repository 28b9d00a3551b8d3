package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"railcheck/internal/api"
)

func newProfileCommand(ctx *commandContext) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or set the inspector name and train set",
	}
	profileCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the saved profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.RecordService) error {
				profile, err := svc.Profile(cmd.Context())
				if err != nil {
					return err
				}
				return printProfile(cmd, ctx, profile)
			})
		},
	})
	profileCmd.AddCommand(newProfileSetCommand(ctx))
	return profileCmd
}

func newProfileSetCommand(ctx *commandContext) *cobra.Command {
	var inspector, trainset string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save the inspector name and train set number",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.RecordService) error {
				current, err := svc.Profile(cmd.Context())
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("inspector") {
					current.Inspector = inspector
				}
				if cmd.Flags().Changed("trainset") {
					current.Trainset = trainset
				}
				saved, err := svc.SetProfile(cmd.Context(), current)
				if err != nil {
					return err
				}
				return printProfile(cmd, ctx, saved)
			})
		},
	}
	cmd.Flags().StringVar(&inspector, "inspector", "", "Inspector first name")
	cmd.Flags().StringVar(&trainset, "trainset", "", "Train set number")
	return cmd
}

func printProfile(cmd *cobra.Command, ctx *commandContext, profile api.Profile) error {
	if ctx.JSONMode() {
		return writeJSON(cmd, profile)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Inspector: %s\n", valueOrDash(profile.Inspector))
	fmt.Fprintf(out, "Train set: %s\n", valueOrDash(profile.Trainset))
	return nil
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
