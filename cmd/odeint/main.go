package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	rand "math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/san-kum/odeint/internal/analysis"
	"github.com/san-kum/odeint/internal/config"
	"github.com/san-kum/odeint/internal/export"
	"github.com/san-kum/odeint/internal/live"
	"github.com/san-kum/odeint/internal/plot"
	"github.com/san-kum/odeint/internal/registry"
	"github.com/san-kum/odeint/ode"
	"github.com/san-kum/odeint/ode/adjoint"
	"github.com/san-kum/odeint/ode/solver"
	"github.com/san-kum/odeint/ode/step"
)

var log zerolog.Logger

var (
	methodName string
	t0         float64
	t1         float64
	points     int
	y0Flag     string
	paramFlags []string
	rtol       float64
	atol       float64
	stepSize   float64
	maxSteps   int
	configFile string
	presetName string

	outputFormat string
	outputPath   string
	archiveDir   string
	plotRunID    string

	plotWidth  int
	plotHeight int
	phaseFlag  bool
	xAxis      int
	yAxis      int
	svgPath    string

	frameRate int

	sweepRuns   int
	sweepSpread float64
	sweepSeed   uint64

	orderSteps string
	gradTol    float64

	verbose bool
	quiet   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "odeint",
		Short: "numerical integration of ordinary differential equations",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if quiet {
				level = zerolog.WarnLevel
			}
			if verbose {
				level = zerolog.DebugLevel
			}
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				Level(level).With().Timestamp().Logger()
		},
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "warnings only")

	runCmd := &cobra.Command{
		Use:   "run [field]",
		Short: "integrate a field and print or export the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runField,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&outputFormat, "output", "", "output format: csv or json (default summary only)")
	runCmd.Flags().StringVar(&outputPath, "out", "", "write output to file instead of stdout")
	runCmd.Flags().StringVar(&archiveDir, "save", "", "archive the run under this directory")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list archived runs, or re-plot one",
		RunE:  listRuns,
	}
	runsCmd.Flags().StringVar(&archiveDir, "dir", "runs", "archive directory")
	runsCmd.Flags().StringVar(&plotRunID, "plot", "", "re-plot the archived run with this ID")
	runsCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	runsCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	methodsCmd := &cobra.Command{
		Use:   "methods",
		Short: "list integration methods",
		RunE:  listMethods,
	}

	fieldsCmd := &cobra.Command{
		Use:   "fields",
		Short: "list built-in fields",
		RunE:  listFields,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list run presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				run := config.Preset(name)
				fmt.Printf("  %-22s %s via %s, t in [%g, %g]\n",
					name, run.Field, run.Method, run.T0, run.T1)
			}
			return nil
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [field]",
		Short: "integrate and draw terminal plots",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotField,
	}
	addRunFlags(plotCmd)
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")
	plotCmd.Flags().BoolVar(&phaseFlag, "phase", false, "phase portrait instead of time series")
	plotCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for the phase x-axis")
	plotCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for the phase y-axis")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG image here instead of drawing in the terminal")

	liveCmd := &cobra.Command{
		Use:   "live [field]",
		Short: "watch an integration evolve in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  liveField,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	sweepCmd := &cobra.Command{
		Use:   "sweep [field]",
		Short: "integrate an ensemble of perturbed initial states",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepField,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepRuns, "runs", 16, "ensemble size")
	sweepCmd.Flags().Float64Var(&sweepSpread, "spread", 0.05, "standard deviation of the initial perturbation")
	sweepCmd.Flags().Uint64Var(&sweepSeed, "seed", 42, "random seed")
	sweepCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	sweepCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	orderCmd := &cobra.Command{
		Use:   "order [field]",
		Short: "measure the observed convergence order of a fixed-step method",
		Args:  cobra.MaximumNArgs(1),
		RunE:  orderField,
	}
	orderCmd.Flags().StringVar(&methodName, "method", "rk4", "fixed-step method to study")
	orderCmd.Flags().Float64Var(&t0, "t0", 0, "start time")
	orderCmd.Flags().Float64Var(&t1, "t1", 1, "end time")
	orderCmd.Flags().StringVar(&y0Flag, "y0", "", "initial state, comma separated")
	orderCmd.Flags().StringArrayVar(&paramFlags, "param", nil, "field parameter name=value (repeatable)")
	orderCmd.Flags().StringVar(&orderSteps, "steps", "0.2,0.1,0.05,0.025", "step sizes, comma separated")
	orderCmd.Flags().IntVar(&plotWidth, "width", 60, "plot width")
	orderCmd.Flags().IntVar(&plotHeight, "height", 8, "plot height")

	gradcheckCmd := &cobra.Command{
		Use:   "gradcheck [field]",
		Short: "compare adjoint gradients against finite differences",
		Args:  cobra.MaximumNArgs(1),
		RunE:  gradCheck,
	}
	gradcheckCmd.Flags().StringVar(&methodName, "method", "dopri5", "integration method")
	gradcheckCmd.Flags().Float64Var(&t0, "t0", 0, "start time")
	gradcheckCmd.Flags().Float64Var(&t1, "t1", 1, "end time")
	gradcheckCmd.Flags().StringVar(&y0Flag, "y0", "", "initial state, comma separated")
	gradcheckCmd.Flags().StringArrayVar(&paramFlags, "param", nil, "field parameter name=value (repeatable)")
	gradcheckCmd.Flags().Float64Var(&rtol, "rtol", 0, "relative tolerance")
	gradcheckCmd.Flags().Float64Var(&atol, "atol", 0, "absolute tolerance")
	gradcheckCmd.Flags().Float64Var(&stepSize, "step", config.DefaultStep, "step size for fixed-step methods")
	gradcheckCmd.Flags().Float64Var(&gradTol, "tol", 1e-4, "largest acceptable gradient difference")

	rootCmd.AddCommand(runCmd, runsCmd, methodsCmd, fieldsCmd, presetsCmd, plotCmd, liveCmd, sweepCmd, orderCmd, gradcheckCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&methodName, "method", config.DefaultMethod, "integration method (see: odeint methods)")
	cmd.Flags().Float64Var(&t0, "t0", 0, "start time")
	cmd.Flags().Float64Var(&t1, "t1", config.DefaultT1, "end time")
	cmd.Flags().IntVar(&points, "points", config.DefaultPoints, "number of output times")
	cmd.Flags().StringVar(&y0Flag, "y0", "", "initial state, comma separated (default per field)")
	cmd.Flags().StringArrayVar(&paramFlags, "param", nil, "field parameter name=value (repeatable)")
	cmd.Flags().Float64Var(&rtol, "rtol", 0, "relative tolerance for adaptive methods")
	cmd.Flags().Float64Var(&atol, "atol", 0, "absolute tolerance for adaptive methods")
	cmd.Flags().Float64Var(&stepSize, "step", config.DefaultStep, "step size for fixed-step methods")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "cap on accepted steps")
	cmd.Flags().StringVar(&configFile, "config", "", "run file (.yaml/.json/.toml), overrides preset")
	cmd.Flags().StringVar(&presetName, "preset", "", "named preset (see: odeint presets)")
}

// buildRun layers preset, config file and explicit flags over the
// defaults, in that order.
func buildRun(cmd *cobra.Command, args []string) (*config.Run, error) {
	run := config.DefaultRun()
	if presetName != "" {
		p := config.Preset(presetName)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)",
				presetName, strings.Join(config.ListPresets(), ", "))
		}
		run = p.Clone()
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		run = loaded
	}
	if len(args) > 0 {
		run.Field = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		run.Method = methodName
	}
	if flags.Changed("t0") {
		run.T0 = t0
	}
	if flags.Changed("t1") {
		run.T1 = t1
	}
	if flags.Changed("points") {
		run.Points = points
	}
	if flags.Changed("rtol") {
		run.Rtol = rtol
	}
	if flags.Changed("atol") {
		run.Atol = atol
	}
	if flags.Changed("step") {
		run.Step = stepSize
	}
	if flags.Changed("max-steps") {
		run.MaxSteps = maxSteps
	}
	if flags.Changed("y0") {
		y0, err := parseFloats(y0Flag)
		if err != nil {
			return nil, fmt.Errorf("parse y0: %w", err)
		}
		run.Y0 = y0
	}
	if len(paramFlags) > 0 {
		if run.Params == nil {
			run.Params = make(map[string]float64)
		}
		for _, kv := range paramFlags {
			name, val, err := parseParam(kv)
			if err != nil {
				return nil, err
			}
			run.Params[name] = val
		}
	}

	if err := run.Validate(); err != nil {
		return nil, err
	}
	return run, nil
}

func setup(run *config.Run) (registry.Model, solver.Method, ode.State, error) {
	reg := registry.New()
	f, err := reg.Field(run.Field, run.Params)
	if err != nil {
		return nil, nil, nil, err
	}
	m, err := reg.Method(run.Method)
	if err != nil {
		return nil, nil, nil, err
	}
	y0 := ode.State(run.Y0)
	if len(y0) == 0 {
		y0 = f.DefaultState()
	}
	return f, m, y0, nil
}

func runField(cmd *cobra.Command, args []string) error {
	run, err := buildRun(cmd, args)
	if err != nil {
		return err
	}
	f, m, y0, err := setup(run)
	if err != nil {
		return err
	}
	opts := run.Options()

	log.Info().Str("field", run.Field).Str("method", run.Method).
		Floats64("y0", y0).Float64("t0", run.T0).Float64("t1", run.T1).
		Msg("integrating")

	start := time.Now()
	sol, err := solver.Solve(f, y0, run.Times(), m, opts)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	log.Info().Int("steps", sol.Stats.Steps).Int("rejects", sol.Stats.Rejects).
		Int("evals", sol.Stats.Evals).Dur("elapsed", elapsed).
		Msg("completed")

	meta := export.Meta{Field: run.Field, Method: run.Method, Rtol: opts.Rtol, Atol: opts.Atol}
	if archiveDir != "" {
		id, err := export.NewArchive(archiveDir).Save(meta, sol)
		if err != nil {
			return fmt.Errorf("archive: %w", err)
		}
		log.Info().Str("run", id).Msg("archived")
	}

	format := outputFormat
	if format == "" && outputPath != "" {
		switch filepath.Ext(outputPath) {
		case ".csv":
			format = "csv"
		case ".json":
			format = "json"
		default:
			return fmt.Errorf("cannot infer format from %q; pass --output", outputPath)
		}
	}

	switch format {
	case "csv":
		if outputPath != "" {
			return export.CSVFile(outputPath, sol)
		}
		return export.CSV(os.Stdout, sol)
	case "json":
		if outputPath != "" {
			return export.JSONFile(outputPath, meta, sol)
		}
		return export.JSON(os.Stdout, meta, sol)
	case "":
		fmt.Printf("y(%g) = %.10g\n", sol.T[len(sol.T)-1], sol.Last())
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	arch := export.NewArchive(archiveDir)

	if plotRunID != "" {
		rm, err := arch.Load(plotRunID)
		if err != nil {
			return err
		}
		sol, err := arch.LoadTrajectory(plotRunID)
		if err != nil {
			return err
		}
		fmt.Println(plot.Title(fmt.Sprintf("%s via %s (archived)", rm.Field, rm.Method)))
		fmt.Println(plot.Trajectory(sol, nil, plotWidth, plotHeight))
		return nil
	}

	runs, err := arch.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Printf("no runs under %s\n", archiveDir)
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFIELD\tMETHOD\tWHEN\tSTEPS\tEVALS")
	for _, rm := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			rm.ID, rm.Field, rm.Method, rm.Timestamp.Format(time.DateTime), rm.Steps, rm.Evals)
	}
	return w.Flush()
}

func listMethods(cmd *cobra.Command, args []string) error {
	reg := registry.New()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tORDER\tKIND\tADAPTIVE\tDENSE")
	for _, info := range reg.Methods() {
		fmt.Fprintf(w, "%s\t%d\t%s\t%v\t%v\n",
			info.Name, info.Order, info.Kind, info.Adaptive, info.Dense)
	}
	return w.Flush()
}

func listFields(cmd *cobra.Command, args []string) error {
	reg := registry.New()
	for _, name := range reg.Fields() {
		f, err := reg.Field(name, nil)
		if err != nil {
			return err
		}
		fmt.Printf("  %-12s dim %d\n", name, f.Dim())
	}
	return nil
}

func plotField(cmd *cobra.Command, args []string) error {
	run, err := buildRun(cmd, args)
	if err != nil {
		return err
	}
	f, m, y0, err := setup(run)
	if err != nil {
		return err
	}

	sol, err := solver.Solve(f, y0, run.Times(), m, run.Options())
	if err != nil {
		return err
	}
	log.Info().Int("steps", sol.Stats.Steps).Int("evals", sol.Stats.Evals).Msg("integrated")

	if svgPath != "" {
		file, err := os.Create(svgPath)
		if err != nil {
			return err
		}
		defer file.Close()
		if phaseFlag {
			return export.SVGPhase(file, sol, xAxis, yAxis, 800, 500)
		}
		return export.SVG(file, sol, 800, 500)
	}

	if phaseFlag {
		out, err := plot.Phase(sol, xAxis, yAxis, plotWidth, plotHeight)
		if err != nil {
			return err
		}
		fmt.Println(plot.Title(fmt.Sprintf("%s phase portrait", run.Field)))
		fmt.Println(out)
		return nil
	}

	fmt.Println(plot.Title(fmt.Sprintf("%s via %s", run.Field, run.Method)))
	fmt.Println(plot.Trajectory(sol, nil, plotWidth, plotHeight))
	return nil
}

func liveField(cmd *cobra.Command, args []string) error {
	run, err := buildRun(cmd, args)
	if err != nil {
		return err
	}
	f, m, y0, err := setup(run)
	if err != nil {
		return err
	}
	st, ok := m.(ode.Stepper)
	if !ok {
		return fmt.Errorf("method %s cannot step a frame at a time; pick a Runge-Kutta or Adams method", run.Method)
	}
	if run.Step <= 0 {
		return fmt.Errorf("step must be positive, got %g", run.Step)
	}
	return live.Run(run.Field, f, st, y0, run.T0, run.Step, frameRate)
}

func sweepField(cmd *cobra.Command, args []string) error {
	run, err := buildRun(cmd, args)
	if err != nil {
		return err
	}
	f, _, y0, err := setup(run)
	if err != nil {
		return err
	}
	if sweepSpread <= 0 {
		return fmt.Errorf("spread must be positive, got %g", sweepSpread)
	}
	if sweepRuns < 1 {
		return fmt.Errorf("runs must be positive, got %d", sweepRuns)
	}

	cov := mat.NewSymDense(len(y0), nil)
	for i := 0; i < len(y0); i++ {
		cov.SetSym(i, i, sweepSpread*sweepSpread)
	}
	normal, ok := distmv.NewNormal(y0, cov, rand.NewPCG(sweepSeed, 1))
	if !ok {
		return fmt.Errorf("degenerate covariance")
	}
	inits := make([]ode.State, sweepRuns)
	for i := range inits {
		inits[i] = normal.Rand(nil)
	}

	reg := registry.New()
	ens := solver.NewEnsemble(f, func() solver.Method {
		m, _ := reg.Method(run.Method)
		return m
	})

	log.Info().Str("field", run.Field).Str("method", run.Method).
		Int("runs", sweepRuns).Float64("spread", sweepSpread).
		Msg("sweeping initial states")

	start := time.Now()
	sols, err := ens.Run(context.Background(), inits, run.Times(), run.Options())
	if err != nil {
		return err
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("sweep complete")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tINITIAL\tFINAL")
	finals := make([]float64, len(sols))
	for i, sol := range sols {
		finals[i] = sol.Last()[0]
		fmt.Fprintf(w, "%d\t%.4g\t%.4g\n", i, inits[i], sol.Last())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	mean, std := stat.MeanStdDev(finals, nil)
	fmt.Printf("\nfinal x0: mean %.6g, std %.6g over %d runs\n\n", mean, std, len(sols))
	fmt.Println(plot.Spread(sols, 0, plotWidth, plotHeight))
	return nil
}

func orderField(cmd *cobra.Command, args []string) error {
	run, err := buildRun(cmd, args)
	if err != nil {
		return err
	}
	// These commands carry their own defaults, not the run defaults.
	run.Method = methodName
	run.T0 = t0
	run.T1 = t1
	if err := run.Validate(); err != nil {
		return err
	}
	hs, err := parseFloats(orderSteps)
	if err != nil {
		return fmt.Errorf("parse steps: %w", err)
	}
	if len(hs) < 2 {
		return fmt.Errorf("need at least two step sizes, got %d", len(hs))
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(hs)))

	f, m, y0, err := setup(run)
	if err != nil {
		return err
	}
	if _, ok := m.(ode.Stepper); !ok {
		return fmt.Errorf("order study needs a fixed-step method, got %s", run.Method)
	}
	if a, ok := m.(interface{ Adaptive() bool }); ok && a.Adaptive() {
		return fmt.Errorf("order study needs a fixed-step method, got adaptive %s", run.Method)
	}

	ref, err := analysis.Reference(f, y0, run.T0, run.T1)
	if err != nil {
		return fmt.Errorf("reference solution: %w", err)
	}

	reg := registry.New()
	study, err := analysis.Convergence(f, y0, run.T0, run.T1, ref, func() solver.Method {
		mm, _ := reg.Method(run.Method)
		return mm
	}, hs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "H\tERROR")
	for i := range study.Hs {
		fmt.Fprintf(w, "%g\t%.3e\n", study.Hs[i], study.Errors[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(plot.Convergence(study.Hs, study.Errors, plotWidth, plotHeight))

	if math.IsNaN(study.Order) {
		fmt.Printf("\nobserved order: n/a (errors at rounding level)\n")
	} else {
		fmt.Printf("\nobserved order: %.2f (method order %d)\n", study.Order, m.Order())
	}
	return nil
}

func gradCheck(cmd *cobra.Command, args []string) error {
	run, err := buildRun(cmd, args)
	if err != nil {
		return err
	}
	run.Method = methodName
	run.T0 = t0
	run.T1 = t1
	if err := run.Validate(); err != nil {
		return err
	}
	f, m, y0, err := setup(run)
	if err != nil {
		return err
	}
	vf, ok := f.(ode.VJPField)
	if !ok {
		return fmt.Errorf("field %s carries no vector-Jacobian product", run.Field)
	}
	opts := run.Options()
	times := []float64{run.T0, run.T1}

	// Quadratic loss |y(t1)|^2; its gradient seeds the adjoint.
	forward, err := solver.Solve(vf, y0, times, m, opts)
	if err != nil {
		return err
	}
	yT := forward.Last()
	gradY := []ode.State{make(ode.State, len(y0)), make(ode.State, len(y0))}
	for i, v := range yT {
		gradY[1][i] = 2 * v
	}

	// Fixed Runge-Kutta methods get the exact discrete adjoint; dopri5
	// gets the continuous one.
	var grads *adjoint.Gradients
	if rk, ok := m.(*step.RK); ok && !rk.Adaptive() {
		_, grads, err = adjoint.BackwardSteps(vf, y0, times, gradY, rk, opts)
	} else {
		_, grads, err = adjoint.Gradient(vf, y0, times, gradY, m, opts)
	}
	if errors.Is(err, ode.ErrAdjointUnsupported) {
		return fmt.Errorf("method %s has no adjoint; use dopri5 or a fixed-step Runge-Kutta method", run.Method)
	}
	if err != nil {
		return err
	}

	reg := registry.New()
	loss := func(sol *solver.Solution) float64 {
		sum := 0.0
		for _, v := range sol.Last() {
			sum += v * v
		}
		return sum
	}
	fdY0, fdParams, err := adjoint.FiniteDiffGradients(vf, y0, times, loss, func() solver.Method {
		mm, _ := reg.Method(run.Method)
		return mm
	}, opts)
	if err != nil {
		return err
	}

	maxDiff := 0.0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GRADIENT\tADJOINT\tFINITE-DIFF\tDIFF")
	for i := range grads.Y0 {
		d := math.Abs(grads.Y0[i] - fdY0[i])
		if d > maxDiff {
			maxDiff = d
		}
		fmt.Fprintf(w, "dL/dy0[%d]\t%.8g\t%.8g\t%.2e\n", i, grads.Y0[i], fdY0[i], d)
	}
	for i := range grads.Params {
		d := math.Abs(grads.Params[i] - fdParams[i])
		if d > maxDiff {
			maxDiff = d
		}
		fmt.Fprintf(w, "dL/dp[%d]\t%.8g\t%.8g\t%.2e\n", i, grads.Params[i], fdParams[i], d)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if maxDiff > gradTol {
		return fmt.Errorf("gradient check failed: largest difference %.3e exceeds %.1e", maxDiff, gradTol)
	}
	log.Info().Float64("max_diff", maxDiff).Msg("gradients agree")
	return nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", p)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}

func parseParam(kv string) (string, float64, error) {
	name, value, found := strings.Cut(kv, "=")
	if !found || name == "" {
		return "", 0, fmt.Errorf("bad parameter %q, want name=value", kv)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return "", 0, fmt.Errorf("bad parameter value %q", kv)
	}
	return strings.TrimSpace(name), v, nil
}
