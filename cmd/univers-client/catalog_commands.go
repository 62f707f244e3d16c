package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/oxygene76/univers-client/pkg/astronomy/catalog"
	"github.com/oxygene76/univers-client/pkg/compute"
)

func (c *cli) catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse and extend the catalogue of celestial bodies",
	}
	cmd.AddCommand(c.catalogListCmd(), c.catalogAddCmd(), c.catalogRemoveCmd(), c.catalogStatsCmd(), c.catalogSurveyCmd())
	return cmd
}

func (c *cli) catalogListCmd() *cobra.Command {
	var (
		kind       string
		customOnly bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogue bodies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := c.manager.Catalog()
			bodies := cat.All()
			if kind != "" {
				k, err := catalog.ParseKind(kind)
				if err != nil {
					return err
				}
				bodies = cat.ByKind(k)
			}
			if customOnly {
				kept := bodies[:0]
				for _, b := range bodies {
					if b.Custom {
						kept = append(kept, b)
					}
				}
				bodies = kept
			}
			if bodies == nil {
				bodies = []catalog.Body{}
			}

			p := c.printer(cmd.OutOrStdout())
			if p.json {
				return p.encode(bodies)
			}
			f := c.manager.Formatter()
			lines := make([][]string, len(bodies))
			for i, b := range bodies {
				name := b.Name
				if b.Custom {
					name += " *"
				}
				lines[i] = []string{name, b.Kind.Label(p.lang), f.Mass(b.Mass), f.Radius(b.Radius)}
			}
			p.table([]string{p.t("Nom", "Name"), p.t("Type", "Kind"), p.t("Masse", "Mass"), p.t("Rayon", "Radius")}, lines)
			fmt.Fprintf(p.w, "\n%s %s\n", humanize.Comma(int64(len(bodies))), p.t("corps", "bodies"))
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only list this kind")
	cmd.Flags().BoolVar(&customOnly, "custom", false, "only list custom bodies")
	return cmd
}

func (c *cli) catalogAddCmd() *cobra.Command {
	var (
		kind   string
		mass   float64
		radius float64
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom body to the catalogue",
		Example: `  univers-client catalog add "Kepler-452 b" --kind exoplanet --mass 2.99e25 --radius 10100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := catalog.ParseKind(kind)
			if err != nil {
				return err
			}
			body := catalog.Body{Name: args[0], Kind: k, Mass: mass, Radius: radius}
			if err := c.client.AddBody(body); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", c.printer(cmd.OutOrStdout()).t("Ajouté", "Added"), body.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "kind of body (planet, star, white-dwarf, ...)")
	cmd.Flags().Float64Var(&mass, "mass", 0, "mass in kg")
	cmd.Flags().Float64Var(&radius, "radius", 0, "radius in km")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("mass")
	_ = cmd.MarkFlagRequired("radius")
	return cmd
}

func (c *cli) catalogRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a custom body",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := c.client.RemoveBody(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", c.printer(cmd.OutOrStdout()).t("Supprimé", "Removed"), body.Name)
			return nil
		},
	}
}

func (c *cli) catalogStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Density statistics per kind of body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := c.manager.Catalog().Stats()
			p := c.printer(cmd.OutOrStdout())
			if p.json {
				return p.encode(stats)
			}
			f := c.manager.Formatter()
			lines := make([][]string, len(stats))
			for i, s := range stats {
				lines[i] = []string{
					s.Kind.Label(p.lang),
					strconv.Itoa(s.Count),
					fmt.Sprintf("%.2f ± %.2f", s.MeanLogDensity, s.StdLogDensity),
					f.Density(s.MinDensity),
					f.Density(s.MaxDensity),
					exp(s.MeanCompacity),
				}
			}
			p.table([]string{
				p.t("Type", "Kind"), "N", "log₁₀ ρ",
				p.t("ρ min", "Min ρ"), p.t("ρ max", "Max ρ"), p.t("Compacité", "Compacity"),
			}, lines)
			return nil
		},
	}
}

func (c *cli) catalogSurveyCmd() *cobra.Command {
	var (
		kind      string
		workers   int
		top       int
		reference float64
	)
	cmd := &cobra.Command{
		Use:   "survey",
		Short: "Rank catalogue bodies by surface time dilation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := c.manager.Catalog()
			bodies := cat.All()
			if kind != "" {
				k, err := catalog.ParseKind(kind)
				if err != nil {
					return err
				}
				bodies = cat.ByKind(k)
			}

			rows, stats := compute.NewSurveyor(c.manager, workers, c.logger).Run(cmd.Context(), bodies, reference)
			compute.SortByDilation(rows)
			if top > 0 && top < len(rows) {
				rows = rows[:top]
			}

			p := c.printer(cmd.OutOrStdout())
			if p.json {
				return p.encode(struct {
					Rows       []compute.SurveyRow      `json:"rows"`
					Statistics compute.SurveyStatistics `json:"statistics"`
				}{rows, stats})
			}

			lines := make([][]string, 0, len(rows))
			for _, row := range rows {
				if row.Report == nil {
					lines = append(lines, []string{row.Body.Name, string(row.Status), row.Error, ""})
					continue
				}
				lines = append(lines, []string{
					row.Body.Name,
					string(row.Report.Regime),
					factor(row.Report.SurfaceFactor),
					row.Report.Observers.InfinitySurfaceText,
				})
			}
			p.table([]string{p.t("Corps", "Body"), p.t("Régime", "Regime"), "dτ/dt", p.t("Retard", "Lag")}, lines)
			fmt.Fprintf(p.w, "\n%d/%d %s\n", stats.Completed, stats.Total, p.t("corps analysés", "bodies analysed"))
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only survey this kind")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent analyses (default: one per CPU)")
	cmd.Flags().IntVar(&top, "top", 0, "only show the first N bodies")
	cmd.Flags().Float64Var(&reference, "reference", 0, "reference duration in seconds (default from config)")
	return cmd
}
