package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"railcheck/internal/api"
	"railcheck/internal/config"
)

func newAttachCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "attach <id> <photo...>",
		Short: "Attach photos to a remark",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.RecordService) error {
				id, err := resolveRecordID(cmd, svc, args[0])
				if err != nil {
					return err
				}
				attached := make([]api.Attachment, 0, len(args)-1)
				for _, arg := range args[1:] {
					path, err := config.ExpandPath(arg)
					if err != nil {
						return err
					}
					data, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("read photo: %w", err)
					}
					att, err := svc.Attach(cmd.Context(), id, filepath.Base(path), "", data)
					if err != nil {
						return fmt.Errorf("attach %s: %w", filepath.Base(path), err)
					}
					attached = append(attached, att)
					if !ctx.JSONMode() {
						fmt.Fprintf(cmd.OutOrStdout(), "Attached %s (%s)\n", att.Name, formatBytes(att.Size))
					}
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, api.AttachmentListResponse{Items: attached})
				}
				return nil
			})
		},
	}
}
