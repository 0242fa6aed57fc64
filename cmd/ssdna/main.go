package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sjfleming/ssDNA-MCMC/internal/analysis"
	"github.com/sjfleming/ssDNA-MCMC/internal/config"
	"github.com/sjfleming/ssDNA-MCMC/internal/mcmc"
	"github.com/sjfleming/ssDNA-MCMC/internal/potentials"
	"github.com/sjfleming/ssDNA-MCMC/internal/storage"
	"github.com/sjfleming/ssDNA-MCMC/internal/tune"
	"github.com/sjfleming/ssDNA-MCMC/internal/viz"
)

var (
	dataDir    string
	configFile string

	bases       int
	steps       int
	seed        int64
	stepSize    float64
	temperature float64
	kuhn        float64
	bend        float64
	stretch     float64
	baseLen     float64
	fixedMode   string

	boundaryName    string
	boundaryRadius  float64
	forceName       string
	forceX          float64
	forceY          float64
	forceZ          float64
	interactionName string

	observable string
	plotWidth  int
	plotHeight int
	thinStride int

	chains       int
	stepsPerTick int

	tuneTarget float64
	tunePilot  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ssdna",
		Short: "MCMC sampling of single-stranded DNA conformations",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ssdna", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "sample a chain and save the trace",
		RunE:  runChain,
	}
	addChainFlags(runCmd)
	runCmd.Flags().IntVar(&thinStride, "thin", 0, "thin the trace by this stride before saving")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot an observable over a saved trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&observable, "observable", "end-to-end", "end-to-end | rg")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 16, "plot height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	ratiosCmd := &cobra.Command{
		Use:   "ratios [run_id]",
		Short: "show acceptance ratios of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRatios,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "sample with a live terminal view",
		RunE:  runLive,
	}
	addChainFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerTick, "batch", 25, "sampler steps per frame")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run independent chains concurrently",
		RunE:  runEnsemble,
	}
	addChainFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&chains, "chains", 4, "number of independent chains")

	tuneCmd := &cobra.Command{
		Use:   "tune [step]...",
		Short: "pick a step size by pilot-run acceptance",
		RunE:  tuneStep,
	}
	addChainFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&tuneTarget, "target", 50, "target overall acceptance percent")
	tuneCmd.Flags().IntVar(&tunePilot, "pilot", 500, "pilot run length per candidate")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, ratiosCmd, liveCmd, ensembleCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addChainFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().IntVar(&bases, "bases", config.DefaultBases, "number of bases")
	cmd.Flags().IntVar(&steps, "steps", 10000, "sampling steps")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().Float64Var(&stepSize, "step", config.DefaultStep, "proposal step size")
	cmd.Flags().Float64Var(&temperature, "temperature", config.DefaultTemperature, "temperature (K)")
	cmd.Flags().Float64Var(&kuhn, "l-k", config.DefaultKuhnLength, "Kuhn length (nm)")
	cmd.Flags().Float64Var(&bend, "k-b", config.DefaultBendStiffness, "bending stiffness (pN·nm)")
	cmd.Flags().Float64Var(&stretch, "k-s", config.DefaultStretchModulus, "stretch modulus (pN/nm)")
	cmd.Flags().Float64Var(&baseLen, "l-b", config.DefaultBaseLength, "length per base (nm)")
	cmd.Flags().StringVar(&fixedMode, "fixed-mode", "overwrite", "fixed-point handling: overwrite | reject")
	cmd.Flags().StringVar(&boundaryName, "boundary", "", "boundary: "+strings.Join(potentials.NewRegistry().ListBoundaries(), " | "))
	cmd.Flags().Float64Var(&boundaryRadius, "radius", 10, "boundary radius (sphere)")
	cmd.Flags().StringVar(&forceName, "force", "", "force field: "+strings.Join(potentials.NewRegistry().ListForces(), " | "))
	cmd.Flags().Float64Var(&forceX, "fx", 0, "force x component (pN)")
	cmd.Flags().Float64Var(&forceY, "fy", 0, "force y component (pN)")
	cmd.Flags().Float64Var(&forceZ, "fz", 0, "force z component (pN)")
	cmd.Flags().StringVar(&interactionName, "interaction", "", "interaction: "+strings.Join(potentials.NewRegistry().ListInteractions(), " | "))
}

func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override config file values.
	if cmd.Flags().Changed("bases") || configFile == "" {
		cfg.Bases = bases
	}
	if cmd.Flags().Changed("step") || configFile == "" {
		cfg.Step = stepSize
	}
	if cmd.Flags().Changed("temperature") || configFile == "" {
		cfg.Temperature = temperature
	}
	if cmd.Flags().Changed("l-k") || configFile == "" {
		cfg.KuhnLength = kuhn
	}
	if cmd.Flags().Changed("k-b") || configFile == "" {
		cfg.BendStiffness = bend
	}
	if cmd.Flags().Changed("k-s") || configFile == "" {
		cfg.StretchModulus = stretch
	}
	if cmd.Flags().Changed("l-b") || configFile == "" {
		cfg.BaseLength = baseLen
	}
	if cmd.Flags().Changed("fixed-mode") || configFile == "" {
		cfg.FixedPointMode = fixedMode
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	registry := potentials.NewRegistry()
	if boundaryName != "" {
		b, err := registry.GetBoundary(boundaryName, map[string]float64{"radius": boundaryRadius})
		if err != nil {
			return nil, err
		}
		cfg.Boundary = b
	}
	if forceName != "" {
		f, err := registry.GetForce(forceName, map[string]float64{"fx": forceX, "fy": forceY, "fz": forceZ})
		if err != nil {
			return nil, err
		}
		cfg.ForceFunction = f
	}
	if interactionName != "" {
		i, err := registry.GetInteraction(interactionName, nil)
		if err != nil {
			return nil, err
		}
		cfg.InteractionFunction = i
	}
	return cfg, nil
}

func buildSampler(cmd *cobra.Command) (*mcmc.Sampler, *config.Config, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	sampler, warnings, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return sampler, cfg, nil
}

func fixedModeOf(cfg *config.Config) mcmc.FixedPointMode {
	if cfg.FixedPointMode == "reject" {
		return mcmc.FixedReject
	}
	return mcmc.FixedOverwrite
}

func runChain(cmd *cobra.Command, args []string) error {
	sampler, cfg, err := buildSampler(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	sampler.Run(steps)
	elapsed := time.Since(start)

	if thinStride > 1 {
		sampler.Thin(thinStride)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(sampler, fixedModeOf(cfg))
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d steps in %s (%d beads)\n", runID, steps, elapsed.Round(time.Millisecond), sampler.Beads())
	fmt.Printf("acceptance: %s\n", sampler.AcceptanceRatios())
	fmt.Printf("final energy: %.4f pN·nm\n", sampler.CurrentEnergy())
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

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tBEADS\tSTEPS\tSEED\tACCEPT")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.1f%%\n",
			r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), r.Beads, r.Steps, r.Seed, r.OverallRatio)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	trace, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	var series []float64
	switch observable {
	case "end-to-end":
		series = analysis.Series(trace, analysis.EndToEnd)
	case "rg":
		series = analysis.Series(trace, analysis.RadiusOfGyration)
	default:
		return fmt.Errorf("unknown observable: %s", observable)
	}

	fmt.Print(viz.PlotSeries(series, fmt.Sprintf("%s (%s)", observable, args[0]), plotWidth, plotHeight))
	fmt.Printf("integrated autocorrelation time: %.1f steps\n", analysis.IntegratedAutocorrelationTime(series))
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

func showRatios(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tPROPOSED\tACCEPTED\tRATIO")
	for kind, c := range meta.Counts {
		ratio := "n/a"
		if c.Proposed > 0 {
			ratio = fmt.Sprintf("%.1f%%", 100*float64(c.Accepted)/float64(c.Proposed))
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", kind, c.Proposed, c.Accepted, ratio)
	}
	fmt.Fprintf(w, "overall\t\t\t%.1f%%\n", meta.OverallRatio)
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	sampler, _, err := buildSampler(cmd)
	if err != nil {
		return err
	}
	return viz.RunLive(sampler, stepsPerTick, steps)
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	_, cfg, err := buildSampler(cmd)
	if err != nil {
		return err
	}

	build := func(s int64) (*mcmc.Sampler, error) {
		c := *cfg
		c.Seed = s
		sampler, _, err := c.Build()
		return sampler, err
	}

	start := time.Now()
	samplers, err := mcmc.NewEnsemble(build, chains, cfg.Seed).Run(steps)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHAIN\tSEED\tENERGY\tEND-TO-END\tACCEPT")
	for i, s := range samplers {
		fmt.Fprintf(w, "%d\t%d\t%.3f\t%.3f\t%.1f%%\n",
			i, s.Seed(), s.CurrentEnergy(), analysis.EndToEnd(s.Current()), s.AcceptanceRatios().Overall)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d chains × %d steps in %s\n", chains, steps, elapsed.Round(time.Millisecond))
	return nil
}

func tuneStep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	candidates := []float64{0.1, 0.25, 0.5, 1.0, 2.0, 4.0}
	if len(args) > 0 {
		candidates = candidates[:0]
		for _, a := range args {
			var v float64
			if _, err := fmt.Sscanf(a, "%g", &v); err != nil {
				return fmt.Errorf("bad step candidate %q", a)
			}
			candidates = append(candidates, v)
		}
	}

	search := tune.NewStepSearch(candidates, tunePilot, tuneTarget)
	best, ratio, err := search.Search(func(step float64) (*mcmc.Sampler, error) {
		c := *cfg
		c.Step = step
		sampler, _, err := c.Build()
		return sampler, err
	})
	if err != nil {
		return err
	}

	fmt.Printf("best step %.3g with %.1f%% acceptance (target %.1f%%)\n", best, ratio, tuneTarget)
	return nil
}
