package main

import (
	"github.com/spf13/cobra"
)

const (
	groupInspection = "inspection"
	groupPlans      = "plans"
	groupSystem     = "system"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var jsonFlag bool

	ctx := newCommandContext(&configFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:           "railcheck",
		Short:         "Train carriage inspection checklist",
		Long:          "railcheck records inspection remarks per carriage, level and zone of a train set,\nattaches photos to them and exports everything as a spreadsheet and photo archive.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	flags.BoolVar(&jsonFlag, "json", false, "Write machine-readable JSON output")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupInspection, Title: "Inspection:"},
		&cobra.Group{ID: groupPlans, Title: "Plans and overlays:"},
		&cobra.Group{ID: groupSystem, Title: "Daemon and configuration:"},
	)
	grouped := map[string][]*cobra.Command{
		groupInspection: {
			newProfileCommand(ctx),
			newRecordsCommand(ctx),
			newAttachCommand(ctx),
			newExportCommand(ctx),
		},
		groupPlans: {
			newPlansCommand(ctx),
			newOverlayCommand(ctx),
			newCatalogCommand(ctx),
		},
		groupSystem: {
			newServeCommand(ctx),
			newStatusCommand(ctx),
			newConfigCommand(ctx),
		},
	}
	for id, cmds := range grouped {
		for _, c := range cmds {
			c.GroupID = id
			rootCmd.AddCommand(c)
		}
	}
	return rootCmd
}
