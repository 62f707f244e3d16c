package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oxygene76/univers-client/internal/types"
	"github.com/oxygene76/univers-client/pkg/analysis"
	"github.com/oxygene76/univers-client/pkg/astronomy/catalog"
	"github.com/oxygene76/univers-client/pkg/export"
	"github.com/oxygene76/univers-client/pkg/physics"
)

// bodyFlags select a body by preset or by explicit mass and radius.
type bodyFlags struct {
	preset string
	mass   float64
	radius float64
}

func (f *bodyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.preset, "preset", "", "preset body: earth, jupiter, sun, white_dwarf, neutron_star")
	cmd.Flags().Float64Var(&f.mass, "mass", 0, "mass in kg")
	cmd.Flags().Float64Var(&f.radius, "radius", 0, "radius in km")
}

// resolveBody picks, in order, --preset, a catalogue (or preset) name given
// as argument, then --mass and --radius.
func (c *cli) resolveBody(args []string, f bodyFlags) (name string, mass, radius float64, err error) {
	lang := c.config.Lang()
	if f.preset != "" {
		p, err := catalog.PresetByName(f.preset)
		if err != nil {
			return "", 0, 0, err
		}
		return p.Name(lang), p.Mass, p.Radius, nil
	}

	if len(args) > 0 {
		b, err := c.manager.Catalog().Find(args[0])
		if err == nil {
			return b.Name, b.Mass, b.Radius, nil
		}
		if p, perr := catalog.PresetByName(args[0]); perr == nil {
			return p.Name(lang), p.Mass, p.Radius, nil
		}
		return "", 0, 0, err
	}

	if f.mass == 0 && f.radius == 0 {
		return "", 0, 0, errors.New("specify a body name, --preset, or --mass and --radius")
	}
	return "", f.mass, f.radius, nil
}

func parseFloatArg(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, raw)
	}
	return v, nil
}

func (c *cli) gammaCmd() *cobra.Command {
	var reference float64
	cmd := &cobra.Command{
		Use:   "gamma <velocity-km/s>",
		Short: "Lorentz factor and proper time for a velocity",
		Long: `Compute the Lorentz factor for a velocity in km/s and the proper time
elapsed aboard while the reference duration passes for a resting observer.
Velocities at or above c are capped at the maximum representable factor.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			v, err := parseFloatArg("velocity", args[0])
			if err != nil {
				return err
			}
			report, err := c.manager.AnalyzeVelocity(v, reference)
			if err != nil {
				return err
			}
			c.client.Record(types.AnalysisVelocity, map[string]interface{}{"velocity": v, "reference": reference}, report, start)
			return c.printRelativity(cmd, report)
		},
	}
	cmd.Flags().Float64Var(&reference, "reference", 0, "reference duration in seconds (default from config)")
	return cmd
}

func (c *cli) velocityCmd() *cobra.Command {
	var reference float64
	cmd := &cobra.Command{
		Use:   "velocity <gamma>",
		Short: "Velocity and proper time for a Lorentz factor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			g, err := parseFloatArg("gamma", args[0])
			if err != nil {
				return err
			}
			report, err := c.manager.AnalyzeGamma(g, reference)
			if err != nil {
				return err
			}
			c.client.Record(types.AnalysisGamma, map[string]interface{}{"gamma": g, "reference": reference}, report, start)
			return c.printRelativity(cmd, report)
		},
	}
	cmd.Flags().Float64Var(&reference, "reference", 0, "reference duration in seconds (default from config)")
	return cmd
}

func (c *cli) printRelativity(cmd *cobra.Command, r *types.RelativityReport) error {
	p := c.printer(cmd.OutOrStdout())
	if p.json {
		return p.encode(r)
	}

	p.title(p.t("Dilatation cinématique", "Kinematic time dilation"))
	p.rows(
		row{p.t("Vitesse", "Velocity"), r.VelocityText},
		row{p.t("Fraction de c", "Fraction of c"), r.FractionText},
		row{"γ", strconv.FormatFloat(r.Gamma, 'g', 10, 64)},
		row{p.t("Référence", "Reference"), r.ReferenceText},
		row{p.t("Temps propre", "Proper time"), r.ProperTimeText},
	)
	if r.Capped {
		p.warn(p.t("γ plafonné à ", "γ capped at ") + exp(physics.MaxGamma))
	}
	return nil
}

func (c *cli) seriesCmd() *cobra.Command {
	var (
		points int
		out    string
		format string
	)
	cmd := &cobra.Command{
		Use:   "series <gamma|velocity>",
		Short: "Sample the velocity/γ curve",
		Long: `Sample γ as a function of the velocity in km/s ("gamma"), or the velocity
as a function of γ ("velocity"), with points+1 samples. With --out the curve
is written as JSONL or CSV; the format is taken from --format or from the
file extension.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"gamma", "velocity"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if points < 1 {
				return fmt.Errorf("points must be positive")
			}

			var (
				data []physics.DataPoint
				meta = export.SeriesMeta{Name: args[0], Points: points}
			)
			switch args[0] {
			case "gamma":
				data = physics.VelocityToGammaSeries(points)
				meta.XLabel, meta.YLabel = "velocity_km_s", "gamma"
			case "velocity":
				data = physics.GammaToVelocitySeries(points)
				meta.XLabel, meta.YLabel = "gamma", "velocity_km_s"
			default:
				return fmt.Errorf("unknown series %q (use: gamma, velocity)", args[0])
			}
			meta.Points = len(data)

			if out != "" {
				return c.exportSeries(cmd, out, format, meta, data)
			}

			p := c.printer(cmd.OutOrStdout())
			if p.json {
				return p.encode(data)
			}
			lines := make([][]string, len(data))
			for i, d := range data {
				lines[i] = []string{strconv.FormatFloat(d.X, 'g', 8, 64), strconv.FormatFloat(d.Y, 'g', 8, 64)}
			}
			p.table([]string{meta.XLabel, meta.YLabel}, lines)
			return nil
		},
	}
	cmd.Flags().IntVar(&points, "points", physics.DefaultSeriesPoints, "number of samples")
	cmd.Flags().StringVar(&out, "out", "", "write the series to this file")
	cmd.Flags().StringVar(&format, "format", "", "export format: jsonl or csv (default from extension)")
	return cmd
}

func (c *cli) exportSeries(cmd *cobra.Command, path, format string, meta export.SeriesMeta, data []physics.DataPoint) error {
	if format == "" {
		format = path
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	sink, err := export.Create(path, f)
	if err != nil {
		return err
	}
	if err := export.Write(sink, meta, data); err != nil {
		return fmt.Errorf("failed to export %s: %w", meta.Name, err)
	}

	c.logger.Info("series exported",
		zap.String("series", meta.Name),
		zap.String("file", path),
		zap.String("format", string(f)),
		zap.Int("points", len(data)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d points → %s\n", meta.Name, len(data), path)
	return nil
}

func (c *cli) bodyCmd() *cobra.Command {
	var (
		flags     bodyFlags
		reference float64
	)
	cmd := &cobra.Command{
		Use:   "body [name]",
		Short: "Gravitational dilation of a body",
		Long: `Report the Schwarzschild radius, density, compacity and the time elapsed
at infinity, at the surface and at the centre of a body, plus the closest
catalogue body. The body is a catalogue name, a preset, or --mass/--radius.`,
		Example: `  univers-client body Terre
  univers-client body --preset neutron_star --reference 31557600
  univers-client body --mass 5.972e24 --radius 6371 --lang en`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			report, params, err := c.analyzeBody(args, flags, reference)
			if err != nil {
				return err
			}
			c.client.Record(types.AnalysisBody, params, report, start)

			p := c.printer(cmd.OutOrStdout())
			if p.json {
				return p.encode(report)
			}
			c.renderBody(p, report)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().Float64Var(&reference, "reference", 0, "reference duration in seconds (default from config)")
	return cmd
}

func (c *cli) analyzeBody(args []string, flags bodyFlags, reference float64) (*types.BodyReport, map[string]interface{}, error) {
	name, mass, radius, err := c.resolveBody(args, flags)
	if err != nil {
		return nil, nil, err
	}
	report, err := c.manager.AnalyzeBody(name, mass, radius, reference)
	if err != nil {
		return nil, nil, err
	}
	params := map[string]interface{}{
		"name":      name,
		"mass":      mass,
		"radius":    radius,
		"reference": reference,
	}
	return report, params, nil
}

func (c *cli) renderBody(p printer, r *types.BodyReport) {
	title := r.Name
	if title == "" {
		title = p.t("Corps", "Body")
	}
	p.title(title)
	p.rows(
		row{p.t("Masse", "Mass"), r.Formatted.Mass},
		row{p.t("Rayon", "Radius"), r.Formatted.Radius},
		row{p.t("Rayon de Schwarzschild", "Schwarzschild radius"), r.Formatted.SchwarzschildRadius},
		row{p.t("Densité", "Density"), r.Formatted.Density},
		row{p.t("Compacité", "Compacity"), exp(r.Compacity)},
		row{"R / Rs", c.manager.Formatter().Number(r.RadiusRatio, 2)},
		row{p.t("Régime", "Regime"), string(r.Regime)},
	)

	switch {
	case r.BlackHole:
		p.alert(p.t("Trou noir : le rayon est dans l'horizon, le temps s'y arrête.",
			"Black hole: the radius is inside the horizon, time stops there."))
	case r.NearBlackHole:
		p.warn(p.t("Proche d'un trou noir.", "Close to a black hole."))
	}
	if r.BeyondBuchdahl && !r.BlackHole {
		p.warn(p.t("Au-delà de la limite de Buchdahl : facteur central borné.",
			"Beyond the Buchdahl limit: centre factor clamped."))
	}

	if !r.BlackHole {
		fmt.Fprintln(p.w)
		c.renderObservers(p, r.Observers)
	}
	if r.Nearest != nil {
		fmt.Fprintln(p.w)
		p.rows(row{p.t("Catalogue", "Catalogue"), r.Nearest.Description})
	}
}

func (c *cli) renderObservers(p printer, o types.ObserverTimes) {
	p.title(p.t("Observateurs", "Observers"))
	if o.BlackHole {
		p.alert(p.t("Trou noir : aucune comparaison possible.", "Black hole: no comparison possible."))
		return
	}
	p.rows(
		row{p.t("dτ/dt surface", "dτ/dt surface"), factor(o.SurfaceFactor)},
		row{p.t("dτ/dt centre", "dτ/dt centre"), factor(o.CenterFactor)},
		row{p.t("À l'infini", "At infinity"), o.ReferenceText},
		row{p.t("À la surface", "At the surface"), o.AtSurfaceText},
		row{p.t("Au centre", "At the centre"), o.AtCenterText},
		row{p.t("Infini − surface", "Infinity − surface"), o.InfinitySurfaceText},
		row{p.t("Infini − centre", "Infinity − centre"), o.InfinityCenterText},
		row{p.t("Surface − centre", "Surface − centre"), o.SurfaceCenterText},
	)
	if o.Negligible {
		p.warn(p.t("Effet négligeable à cette échelle.", "Negligible effect at this scale."))
	}
}

func (c *cli) compareCmd() *cobra.Command {
	var (
		flags     bodyFlags
		reference float64
	)
	cmd := &cobra.Command{
		Use:   "compare [name]",
		Short: "Compare clocks at infinity, at the surface and at the centre",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, _, err := c.analyzeBody(args, flags, reference)
			if err != nil {
				return err
			}
			p := c.printer(cmd.OutOrStdout())
			if p.json {
				return p.encode(report.Observers)
			}
			c.renderObservers(p, report.Observers)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().Float64Var(&reference, "reference", 0, "reference duration in seconds (default from config)")
	return cmd
}

func (c *cli) profileCmd() *cobra.Command {
	var (
		flags  bodyFlags
		points int
		radii  float64
		out    string
		format string
	)
	cmd := &cobra.Command{
		Use:   "profile [name]",
		Short: "dτ/dt from the centre of a body outwards",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			name, mass, radius, err := c.resolveBody(args, flags)
			if err != nil {
				return err
			}
			report, err := c.manager.Profile(mass, radius, points, radii)
			if err != nil {
				return err
			}
			c.client.Record(types.AnalysisProfile, map[string]interface{}{
				"name": name, "mass": mass, "radius": radius, "points": points, "radii": radii,
			}, map[string]interface{}{
				"min_factor":     report.MinFactor,
				"surface_factor": report.SurfaceFactor,
				"points":         len(report.Points),
			}, start)

			if out != "" {
				meta := export.SeriesMeta{Name: "profile", XLabel: "r_over_radius", YLabel: "dtau_dt", Points: len(report.Points)}
				if name != "" {
					meta.Name = name
				}
				return c.exportSeries(cmd, out, format, meta, report.Points)
			}

			p := c.printer(cmd.OutOrStdout())
			if p.json {
				return p.encode(report)
			}
			c.renderProfile(p, name, report)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&points, "points", 0, "number of samples (default from config)")
	cmd.Flags().Float64Var(&radii, "radii", 0, "extent in body radii (default from config)")
	cmd.Flags().StringVar(&out, "out", "", "write the profile to this file")
	cmd.Flags().StringVar(&format, "format", "", "export format: jsonl or csv (default from extension)")
	return cmd
}

// profileRows is how many samples the text view shows.
const profileRows = 11

func (c *cli) renderProfile(p printer, name string, r *types.ProfileReport) {
	title := p.t("Profil de dilatation", "Dilation profile")
	if name != "" {
		title += " : " + name
	}
	p.title(title)
	if r.BlackHole {
		p.alert(p.t("Trou noir : dτ/dt = 0 sous l'horizon.", "Black hole: dτ/dt = 0 inside the horizon."))
	}
	p.rows(
		row{p.t("dτ/dt minimum", "Minimum dτ/dt"), factor(r.MinFactor)},
		row{p.t("dτ/dt surface", "Surface dτ/dt"), factor(r.SurfaceFactor)},
		row{p.t("Étendue", "Extent"), fmt.Sprintf("%g R", r.MaxRadii)},
		row{p.t("Points", "Points"), strconv.Itoa(len(r.Points))},
	)
	if len(r.Points) == 0 {
		return
	}

	fmt.Fprintln(p.w)
	step := max(1, (len(r.Points)-1)/(profileRows-1))
	var lines [][]string
	for i := 0; i < len(r.Points); i += step {
		pt := r.Points[i]
		lines = append(lines, []string{strconv.FormatFloat(pt.X, 'f', 3, 64), factor(pt.Y)})
	}
	if last := r.Points[len(r.Points)-1]; (len(r.Points)-1)%step != 0 {
		lines = append(lines, []string{strconv.FormatFloat(last.X, 'f', 3, 64), factor(last.Y)})
	}
	p.table([]string{"r / R", "dτ/dt"}, lines)
}

func (c *cli) matchCmd() *cobra.Command {
	var (
		flags bodyFlags
		n     int
		kinds []string
	)
	cmd := &cobra.Command{
		Use:   "match [name]",
		Short: "Closest catalogue bodies to a mass and radius",
		Long: `Rank catalogue bodies by distance in log-mass/log-radius space.
Restrict the search with --kind (repeatable).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			_, mass, radius, err := c.resolveBody(args, flags)
			if err != nil {
				return err
			}
			filter := make([]catalog.Kind, 0, len(kinds))
			for _, raw := range kinds {
				k, err := catalog.ParseKind(raw)
				if err != nil {
					return err
				}
				filter = append(filter, k)
			}

			matches, err := c.manager.Match(mass, radius, n, filter...)
			if err != nil {
				return err
			}
			c.client.Record(types.AnalysisMatch, map[string]interface{}{
				"mass": mass, "radius": radius, "n": n, "kinds": kinds,
			}, matches, start)

			p := c.printer(cmd.OutOrStdout())
			if p.json {
				return p.encode(matches)
			}
			lines := make([][]string, len(matches))
			for i, m := range matches {
				lines[i] = []string{
					strconv.Itoa(i + 1),
					m.Body.Name,
					m.Body.Kind.Label(p.lang),
					strconv.FormatFloat(m.Distance, 'f', 3, 64),
					"×" + c.manager.Formatter().Number(m.MassRatio, 2),
					"×" + c.manager.Formatter().Number(m.RadiusRatio, 2),
				}
			}
			p.table([]string{"#", p.t("Corps", "Body"), p.t("Type", "Kind"), p.t("Distance", "Distance"),
				p.t("Masse", "Mass"), p.t("Rayon", "Radius")}, lines)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&n, "count", "n", 5, "number of matches")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "restrict to these kinds (e.g. planet, neutron-star)")
	return cmd
}

func (c *cli) solveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find the mass or radius giving a target dilation",
		Long: `Invert the dilation formula with a bounded bisection. The target is
dτ/dt at the surface or at the centre, strictly between 0 and 1.`,
	}
	cmd.AddCommand(c.solveUnknownCmd(analysis.UnknownMass), c.solveUnknownCmd(analysis.UnknownRadius))
	return cmd
}

func (c *cli) solveUnknownCmd(unknown analysis.Unknown) *cobra.Command {
	var (
		fixed    float64
		target   float64
		position string
	)
	fixedFlag, fixedHelp, short := "radius", "fixed radius in km", "Mass (kg) giving a target dilation at a fixed radius"
	if unknown == analysis.UnknownRadius {
		fixedFlag, fixedHelp, short = "mass", "fixed mass in kg", "Radius (km) giving a target dilation for a fixed mass"
	}

	cmd := &cobra.Command{
		Use:   string(unknown),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			pos, err := physics.ParsePosition(position)
			if err != nil {
				return err
			}
			report, err := c.manager.Solve(unknown, fixed, target, pos)
			if err != nil {
				return err
			}
			c.client.Record(types.AnalysisSolve, map[string]interface{}{
				"unknown": string(unknown), fixedFlag: fixed, "target": target, "position": string(pos),
			}, report, start)

			p := c.printer(cmd.OutOrStdout())
			if p.json {
				return p.encode(report)
			}

			value := report.Body.Formatted.Mass
			if unknown == analysis.UnknownRadius {
				value = report.Body.Formatted.Radius
			}
			p.title(p.t("Inversion", "Inversion"))
			p.rows(
				row{p.t("Inconnue", "Unknown"), string(unknown)},
				row{p.t("Résultat", "Result"), fmt.Sprintf("%s (%s)", value, exp(report.Result.Value))},
				row{p.t("dτ/dt visé", "Target dτ/dt"), factor(report.Result.Target)},
				row{p.t("dτ/dt obtenu", "Achieved dτ/dt"), factor(report.Result.Factor)},
				row{p.t("Position", "Position"), string(report.Result.Position)},
				row{p.t("Itérations", "Iterations"), fmt.Sprintf("%d × %d", report.Result.OuterIterations, report.Result.InnerIterations)},
			)
			if report.Warning != "" {
				p.warn(report.Warning)
			}
			fmt.Fprintln(p.w)
			c.renderBody(p, &report.Body)
			return nil
		},
	}
	cmd.Flags().Float64Var(&fixed, fixedFlag, 0, fixedHelp)
	cmd.Flags().Float64Var(&target, "target", 0, "target dτ/dt in (0, 1)")
	cmd.Flags().StringVar(&position, "position", string(physics.PositionSurface), "surface or center")
	_ = cmd.MarkFlagRequired(fixedFlag)
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func (c *cli) presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the preset bodies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.printer(cmd.OutOrStdout())
			presets := catalog.Presets()
			if p.json {
				return p.encode(presets)
			}
			f := c.manager.Formatter()
			lines := make([][]string, len(presets))
			for i, ps := range presets {
				lines[i] = []string{string(ps.ID), ps.Name(p.lang), f.Mass(ps.Mass), f.Radius(ps.Radius)}
			}
			p.table([]string{"ID", p.t("Nom", "Name"), p.t("Masse", "Mass"), p.t("Rayon", "Radius")}, lines)
			return nil
		},
	}
}
