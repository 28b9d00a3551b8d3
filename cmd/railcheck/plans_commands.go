package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"railcheck/internal/api"
	"railcheck/internal/config"
)

func newPlansCommand(ctx *commandContext) *cobra.Command {
	plansCmd := &cobra.Command{
		Use:   "plans",
		Short: "Inspect the floor plan library",
	}
	plansCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List plans with their image size and region count",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := ctx.openPlans()
			if err != nil {
				return err
			}
			list := lib.List()
			if ctx.JSONMode() {
				return writeJSON(cmd, api.PlanListResponse{Items: api.FromPlans(list)})
			}
			rows := make([][]string, 0, len(list))
			for _, p := range list {
				size := "missing"
				if p.NaturalWidth > 0 && p.NaturalHeight > 0 {
					size = fmt.Sprintf("%dx%d", p.NaturalWidth, p.NaturalHeight)
				}
				rows = append(rows, []string{p.ID, p.Title, p.Image, size, strconv.Itoa(p.Regions)})
			}
			table := renderTable(
				[]column{col("ID"), col("Title"), col("Image"), numCol("Size"), numCol("Regions")},
				rows,
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	})
	return plansCmd
}

func newOverlayCommand(ctx *commandContext) *cobra.Command {
	overlayCmd := &cobra.Command{
		Use:   "overlay",
		Short: "Render plan region overlays",
	}

	var width, height float64
	var output string
	renderCmd := &cobra.Command{
		Use:   "render <plan>",
		Short: "Render a plan's regions as SVG at a display size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := ctx.openPlans()
			if err != nil {
				return err
			}
			plan, err := lib.Get(args[0])
			if err != nil {
				return err
			}
			if width <= 0 {
				width = float64(plan.NaturalWidth)
			}
			if height <= 0 {
				height = float64(plan.NaturalHeight)
			}
			canvas, err := lib.Overlay(plan.ID, width, height)
			if err != nil {
				return err
			}

			if strings.TrimSpace(output) == "" {
				_, err := canvas.WriteTo(cmd.OutOrStdout())
				if err == nil {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				return err
			}
			path, err := config.ExpandPath(output)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(canvas.String()), 0o644); err != nil {
				return fmt.Errorf("write overlay: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d regions to %s\n", len(canvas.Elements()), path)
			return nil
		},
	}
	renderCmd.Flags().Float64Var(&width, "width", 0, "Display width (defaults to the image's natural width)")
	renderCmd.Flags().Float64Var(&height, "height", 0, "Display height (defaults to the image's natural height)")
	renderCmd.Flags().StringVarP(&output, "output", "o", "", "Write the SVG to a file instead of stdout")
	overlayCmd.AddCommand(renderCmd)
	return overlayCmd
}

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "catalog",
		Short:       "Show carriages, levels and zones of the train set",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := api.BuildCatalog()
			if ctx.JSONMode() {
				return writeJSON(cmd, cat)
			}
			rows := make([][]string, 0, len(cat.Carriages)*3)
			for _, car := range cat.Carriages {
				for _, level := range car.Levels {
					plan := level.Plan
					if plan == "" {
						plan = "-"
					}
					rows = append(rows, []string{car.ID, level.Level, strings.Join(level.Zones, ", "), plan})
				}
			}
			table := renderTable([]column{col("Carriage"), col("Level"), wideCol("Zones", 60), col("Plan")}, rows)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
