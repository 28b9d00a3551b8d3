package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"railcheck/internal/api"
)

const shortIDLength = 8

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	recordsCmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"record"},
		Short:   "List and manage inspection remarks",
	}

	recordsCmd.AddCommand(newRecordsListCommand(ctx))
	recordsCmd.AddCommand(newRecordsAddCommand(ctx))
	recordsCmd.AddCommand(newRecordsCommentCommand(ctx))
	recordsCmd.AddCommand(newRecordsDeleteCommand(ctx))
	recordsCmd.AddCommand(newRecordsClearCommand(ctx))

	return recordsCmd
}

func newRecordsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List remarks in the order they were filed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.RecordService) error {
				items, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, api.RecordListResponse{Items: items})
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No remarks recorded")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, rec := range items {
					rows = append(rows, []string{
						shortID(rec.ID),
						rec.Title,
						rec.Comment,
						strconv.Itoa(len(rec.Photos)),
						rec.Inspector,
					})
				}
				table := renderTable(
					[]column{col("ID"), col("Location"), wideCol("Comment", 48), numCol("Photos"), col("Inspector")},
					rows,
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newRecordsAddCommand(ctx *commandContext) *cobra.Command {
	var req api.NewRecordRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "File a remark for a carriage, level and zone",
		Example: `  railcheck records add --carriage R1 --level haut --zone "Rangée gauche" --comment "Accoudoir cassé"
  railcheck records add --carriage M1 --zone "Cabine de conduite" --comment "Pare-soleil bloqué"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.RecordService) error {
				rec, err := svc.Add(cmd.Context(), req)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, api.RecordResponse{Record: rec})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s (%s)\n", rec.Title, shortID(rec.ID))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Carriage, "carriage", "", "Carriage id (M1, R1-R8, M2)")
	cmd.Flags().StringVar(&req.Level, "level", "", "Level: haut, bas or exterieur")
	cmd.Flags().StringVar(&req.Zone, "zone", "", "Zone within the level")
	cmd.Flags().StringVar(&req.Comment, "comment", "", "Remark text")
	cmd.Flags().StringVar(&req.Inspector, "inspector", "", "Inspector name (defaults to the saved profile)")
	cmd.Flags().StringVar(&req.Trainset, "trainset", "", "Train set number (defaults to the saved profile)")
	_ = cmd.MarkFlagRequired("carriage")
	return cmd
}

func newRecordsCommentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <text...>",
		Short: "Replace the comment of a remark",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.RecordService) error {
				id, err := resolveRecordID(cmd, svc, args[0])
				if err != nil {
					return err
				}
				rec, err := svc.UpdateComment(cmd.Context(), id, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, api.RecordResponse{Record: rec})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", rec.Title)
				return nil
			})
		},
	}
}

func newRecordsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a remark and its photos",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.RecordService) error {
				id, err := resolveRecordID(cmd, svc, args[0])
				if err != nil {
					return err
				}
				if err := svc.Delete(cmd.Context(), id); err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"deleted": id})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
				return nil
			})
		},
	}
}

func newRecordsClearCommand(ctx *commandContext) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every remark, photo and the saved profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("refusing to clear the inspection without --yes")
			}
			return ctx.withService(func(svc *api.RecordService) error {
				res, err := svc.Clear(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, res)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d remarks and %d photos\n", res.Records, res.Attachments)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "Confirm clearing all data")
	return cmd
}

// resolveRecordID accepts a full id or a unique prefix of one.
func resolveRecordID(cmd *cobra.Command, svc *api.RecordService, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errors.New("record id is required")
	}
	items, err := svc.List(cmd.Context())
	if err != nil {
		return "", err
	}
	var matches []string
	for _, rec := range items {
		if rec.ID == arg {
			return rec.ID, nil
		}
		if strings.HasPrefix(rec.ID, arg) {
			matches = append(matches, rec.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no remark with id %q", arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q matches %d remarks", arg, len(matches))
	}
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}
