package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"railcheck/internal/api"
	"railcheck/internal/config"
	"railcheck/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the spreadsheet and photos archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ctx.configValue().Paths.ExportDir
			if strings.TrimSpace(dir) != "" {
				expanded, err := config.ExpandPath(dir)
				if err != nil {
					return err
				}
				target = expanded
			}
			return ctx.withService(func(svc *api.RecordService) error {
				res, err := svc.ExportToDir(cmd.Context(), target)
				if errors.Is(err, export.ErrNothingToExport) {
					return errors.New("nothing to export: no remarks recorded")
				}
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, res)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d remarks and %d photos to %s\n", res.Records, res.Photos, res.Path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory for the archive (defaults to export_dir)")
	return cmd
}
