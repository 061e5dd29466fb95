package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/avelarde/growthsim/internal/child"
	"github.com/avelarde/growthsim/internal/cohort"
	"github.com/avelarde/growthsim/internal/config"
	"github.com/avelarde/growthsim/internal/curves"
	"github.com/avelarde/growthsim/internal/experiment"
	"github.com/avelarde/growthsim/internal/export"
	"github.com/avelarde/growthsim/internal/params"
	"github.com/avelarde/growthsim/internal/storage"
	"github.com/avelarde/growthsim/internal/viz"
)

var (
	dataDir    string
	preset     string
	configFile string
	dt         float64
	days       float64
	integrator string
	workers    int
	checkVals  bool
	individual int
	outFile    string
	// sample flags
	sampleN      int
	sampleAge    float64
	femaleShare  float64
	ffmSpread    float64
	fmSpread     float64
	categoryFlag int
	seed         uint64
	// reference flags
	refSex float64
	// live flags
	frameRate int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "growthsim",
		Short: "pediatric growth and energy balance simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".growthsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a growth simulation",
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&individual, "individual", -1, "plot a single child instead of cohort means")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write run trajectory as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export full run data as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSONRun,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "render a stored run as a PNG chart",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVar(&outFile, "out", "weight.png", "output file")
	exportPNGCmd.Flags().IntVar(&individual, "individual", -1, "render one child's body composition instead of cohort weights")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addScenarioFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE:  listScenarioPresets,
	}

	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "draw a synthetic cohort and write it as a scenario file",
		RunE:  sampleCohort,
	}
	sampleCmd.Flags().IntVar(&sampleN, "n", 20, "cohort size")
	sampleCmd.Flags().Float64Var(&sampleAge, "age", 8.0, "common starting age, years")
	sampleCmd.Flags().Float64Var(&femaleShare, "female-share", 0.5, "probability each child is female")
	sampleCmd.Flags().Float64Var(&ffmSpread, "ffm-spread", 1.5, "fat-free mass std dev, kg")
	sampleCmd.Flags().Float64Var(&fmSpread, "fm-spread", 1.0, "fat mass std dev, kg")
	sampleCmd.Flags().IntVar(&categoryFlag, "category", int(curves.Normal), "BMI category (1-4)")
	sampleCmd.Flags().Uint64Var(&seed, "seed", 42, "random seed")
	sampleCmd.Flags().Float64Var(&days, "days", config.DefaultDays, "scenario horizon, days")
	sampleCmd.Flags().StringVar(&outFile, "out", "cohort.yaml", "output scenario file")

	referenceCmd := &cobra.Command{
		Use:   "reference",
		Short: "plot the reference growth curves and baseline intake",
		RunE:  plotReference,
	}
	referenceCmd.Flags().Float64Var(&refSex, "sex", 0, "sex blend: 0 male, 1 female")
	referenceCmd.Flags().IntVar(&categoryFlag, "category", int(curves.Normal), "BMI category (1-4)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark a scenario across step sizes and horizons",
		RunE:  benchScenario,
	}
	benchCmd.Flags().StringVar(&preset, "preset", "boy-logistic", "scenario preset")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd,
		exportJSONCmd, exportPNGCmd, liveCmd, compareCmd, presetsCmd,
		sampleCmd, referenceCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use a built-in scenario")
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep, days")
	cmd.Flags().Float64Var(&days, "days", config.DefaultDays, "horizon, days")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = serial)")
	cmd.Flags().BoolVar(&checkVals, "check", false, "scan trajectory for non-finite values")
}

// resolveScenario layers preset, config file and explicitly set flags, in
// that order of increasing precedence.
func resolveScenario(cmd *cobra.Command) (*config.Scenario, error) {
	s := config.DefaultScenario()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cp := *p
		s = &cp
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario: %w", err)
		}
		s = loaded
	}

	if cmd.Flags().Changed("dt") {
		s.Dt = dt
	}
	if cmd.Flags().Changed("days") {
		s.Days = days
	}
	if cmd.Flags().Changed("integrator") {
		s.Integrator = integrator
	}
	if cmd.Flags().Changed("workers") {
		s.Workers = workers
	}
	if cmd.Flags().Changed("check") {
		s.CheckValues = checkVals
	}
	return s, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	s, err := resolveScenario(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()

	fmt.Printf("running scenario %s (%d children, %.0f days)...\n",
		s.Name, len(s.Cohort.Age), s.Days)
	start := time.Now()

	tr, err := experiment.Run(context.Background(), s, registry)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(s.Name, s.Dt, s.Days, s.Integrator, tr)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", tr.Steps())
	fmt.Printf("valid: %v\n", tr.Valid)
	if len(tr.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		names := make([]string, 0, len(tr.Metrics))
		for name := range tr.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s: %.6f\n", name, tr.Metrics[name])
		}
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDAYS\tDT\tINTEG\tCHILDREN\tVALID")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%.2f\t%s\t%d\t%v\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Days,
			run.Dt,
			run.Integrator,
			run.Individuals,
			run.Valid,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d, children: %d\n\n", tr.Steps(), tr.Individuals())

	if individual >= 0 {
		plot, err := viz.PlotIndividual(tr, individual)
		if err != nil {
			return err
		}
		fmt.Println(plot)
		return nil
	}

	fmt.Println(viz.PlotTrajectory(tr))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for i := 0; i < tr.Individuals(); i++ {
		header = append(header,
			fmt.Sprintf("age%d", i),
			fmt.Sprintf("ffm%d", i),
			fmt.Sprintf("fm%d", i),
			fmt.Sprintf("bw%d", i),
		)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for k := range tr.Time {
		row := []string{strconv.FormatFloat(tr.Time[k], 'f', 6, 64)}
		for i := 0; i < tr.Individuals(); i++ {
			row = append(row,
				strconv.FormatFloat(tr.Age[i][k], 'f', 6, 64),
				strconv.FormatFloat(tr.FFM[i][k], 'f', 6, 64),
				strconv.FormatFloat(tr.FM[i][k], 'f', 6, 64),
				strconv.FormatFloat(tr.BodyWeight[i][k], 'f', 6, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSONRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	if outFile != "" {
		return storage.ExportJSON(outFile, meta, tr)
	}
	return storage.ExportJSONStdout(meta, tr)
}

func exportPNG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	var graph = export.WeightChart(tr, meta.Scenario)
	if individual >= 0 {
		title := fmt.Sprintf("%s, child %d", meta.Scenario, individual)
		graph, err = export.CompositionChart(tr, individual, title)
		if err != nil {
			return err
		}
	}
	if err := export.WritePNG(graph, outFile); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := resolveScenario(cmd)
	if err != nil {
		return err
	}

	m, err := experiment.Build(s)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	integ, err := registry.GetIntegrator(s.Integrator)
	if err != nil {
		return err
	}

	view := viz.NewLive(m, integ, s.Days, s.Name, frameRate)
	p := tea.NewProgram(view)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	s, err := resolveScenario(cmd)
	if err != nil {
		return err
	}
	s.Workers = 0 // serial keeps the comparison apples to apples

	registry := experiment.NewRegistry()

	fmt.Printf("comparing integrators on %s (dt=%.2f, days=%.0f)\n\n", s.Name, s.Dt, s.Days)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL MEAN BW\tVALID\tTIME")

	for _, name := range args {
		integ, err := registry.GetIntegrator(name)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\n", name, err)
			continue
		}

		m, err := experiment.Build(s)
		if err != nil {
			return err
		}

		start := time.Now()
		tr, err := m.Simulate(context.Background(), s.Days, integ)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\n", name, err)
			continue
		}

		mean := viz.MeanSeries(tr.BodyWeight)
		fmt.Fprintf(w, "%s\t%.4f kg\t%v\t%v\n", name, mean[len(mean)-1], tr.Valid, elapsed)
	}
	return w.Flush()
}

func listScenarioPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCHILDREN\tDAYS\tDT\tINTAKE\tWORKERS")
	for _, name := range names {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%.0f\t%.2f\t%s\t%d\n",
			name, len(p.Cohort.Age), p.Days, p.Dt, p.Intake.Mode, p.Workers)
	}
	return w.Flush()
}

func sampleCohort(cmd *cobra.Command, args []string) error {
	c, err := cohort.Sample(cohort.SampleConfig{
		N:           sampleN,
		Age:         sampleAge,
		FemaleShare: femaleShare,
		FFMSpread:   ffmSpread,
		FMSpread:    fmSpread,
		Category:    curves.BMICategory(categoryFlag),
		Seed:        seed,
	})
	if err != nil {
		return err
	}

	s := config.DefaultScenario()
	s.Name = fmt.Sprintf("sampled-%d", sampleN)
	s.Days = days
	s.Cohort = config.CohortConfig{
		Age: c.Age,
		Sex: c.Sex,
		FFM: c.FFM,
		FM:  c.FM,
	}
	s.Cohort.Category = make([]int, c.Len())
	for i, cat := range c.Category {
		s.Cohort.Category[i] = int(cat)
	}
	s.Intake = config.IntakeConfig{Mode: "reference"}

	if err := config.Save(outFile, s); err != nil {
		return err
	}

	females := 0.0
	for _, sx := range c.Sex {
		females += sx
	}
	fmt.Printf("sampled %d children (%.0f girls) at age %.1f\n", c.Len(), females, sampleAge)
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func plotReference(cmd *cobra.Command, args []string) error {
	cat := curves.BMICategory(categoryFlag)
	if !cat.Valid() {
		return fmt.Errorf("invalid BMI category: %d", categoryFlag)
	}
	if refSex < 0 || refSex > 1 {
		return fmt.Errorf("sex must lie in [0, 1], got %f", refSex)
	}

	ref := curves.NewReference([]float64{refSex}, []curves.BMICategory{cat})
	tab := params.New([]float64{refSex})

	const samples = 160 // ages 2..18 at 0.1y
	ffm := make([]float64, samples+1)
	fm := make([]float64, samples+1)
	growth := make([]float64, samples+1)
	impact := make([]float64, samples+1)
	for k := 0; k <= samples; k++ {
		age := 2.0 + 0.1*float64(k)
		ffm[k] = ref.FFM(0, age)
		fm[k] = ref.FM(0, age)
		growth[k] = tab.Growth.Eval(0, age)
		impact[k] = tab.GrowthImpact.Eval(0, age)
	}

	c, err := cohort.New([]float64{2}, []float64{refSex}, []float64{ffm[0]}, []float64{fm[0]},
		[]curves.BMICategory{cat})
	if err != nil {
		return err
	}
	intakeTab, err := child.ReferenceIntake(c, 16*365, 36.5)
	if err != nil {
		return err
	}
	intakeCurve := make([]float64, samples+1)
	for k := 0; k <= samples; k++ {
		intakeCurve[k] = intakeTab.At(k, 0)
	}

	fmt.Printf("reference curves, sex=%.1f, category=%s (ages 2-18)\n\n", refSex, cat)
	fmt.Println(viz.PlotSeries(ffm, "reference fat-free mass (kg)"))
	fmt.Println()
	fmt.Println(viz.PlotSeries(fm, "reference fat mass (kg)"))
	fmt.Println()
	fmt.Println(viz.PlotSeries(growth, "growth energy (kcal/day)"))
	fmt.Println()
	fmt.Println(viz.PlotSeries(impact, "growth impact (kg/year)"))
	fmt.Println()
	fmt.Println(viz.PlotSeries(intakeCurve, "baseline intake (kcal/day)"))
	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	base := config.GetPreset(preset)
	if base == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	registry := experiment.NewRegistry()

	horizons := []float64{365, 730}
	steps := []float64{0.25, 0.5, 1.0}

	fmt.Printf("benchmarking %s\n\n", base.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAYS\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, horizon := range horizons {
		for _, step := range steps {
			s := *base
			s.Days = horizon
			s.Dt = step
			s.Workers = 0

			start := time.Now()
			tr, err := experiment.Run(context.Background(), &s, registry)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			n := tr.Steps() - 1
			fmt.Fprintf(w, "%.0f\t%.2f\t%d\t%v\t%.0f\n",
				horizon, step, n, elapsed, float64(n)/elapsed.Seconds())
		}
	}
	return w.Flush()
}
