package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/experiment"
	"github.com/san-kum/mdsim/internal/export"
	"github.com/san-kum/mdsim/internal/logger"
	"github.com/san-kum/mdsim/internal/storage"
	"github.com/san-kum/mdsim/internal/traj"
	"github.com/san-kum/mdsim/internal/viz"
)

var (
	dataDir string
	debug   bool
	verbose bool
	noSave  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mdsim",
		Short:         "constant-energy molecular dynamics of fcc crystals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(debug, verbose)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mdsim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable info logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and print energies",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not archive the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation in the terminal live view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().Int("refresh", 10, "steps between view updates")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energies of an archived run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportPlotCmd := &cobra.Command{
		Use:   "export-plot [run_id] [file]",
		Short: "render energies of an archived run to an image (png, svg, pdf)",
		Args:  cobra.ExactArgs(2),
		RunE:  exportPlot,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		RunE:  listPresets,
	}

	trajCmd := &cobra.Command{
		Use:   "traj-info [file]",
		Short: "summarise a trajectory file",
		Args:  cobra.ExactArgs(1),
		RunE:  trajInfo,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportPlotCmd, presetsCmd, trajCmd,
		newScenarioCmd(), newSweepCmd())

	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("mdsim failed")
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	exp := experiment.New(cfg, nil, cmd.OutOrStdout())
	if err := exp.Setup(); err != nil {
		return err
	}

	res, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	if noSave {
		return nil
	}
	return archive(cfg, exp, res)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	refresh, _ := cmd.Flags().GetInt("refresh")

	// The view owns the terminal; energy lines and logs would tear it.
	logger.SetOutput(io.Discard)

	exp := experiment.New(cfg, nil, io.Discard)
	if err := exp.Setup(); err != nil {
		return err
	}

	title := fmt.Sprintf("%s %s x%d (%d atoms)", cfg.Element, cfg.Potential, cfg.Size, exp.Atoms().Len())
	res, err := viz.Run(context.Background(), exp, title, refresh)
	if err != nil {
		return err
	}
	return archive(cfg, exp, res)
}

func archive(cfg *config.Config, exp *experiment.Experiment, res *experiment.Result) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, exp.Atoms().Len(), res)
	if err != nil {
		return err
	}
	logger.Info().Str("run", runID).Str("dir", dataDir).Msg("run archived")
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tELEMENT\tPOTENTIAL\tATOMS\tSTEPS\tDT\tBACKEND\tTIME\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2ffs\t%s\t%s\t%.2e\n",
			run.ID,
			run.Element,
			run.Potential,
			run.Atoms,
			run.Steps,
			run.TimestepFs,
			run.Backend,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Drift.MaxDrift,
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
	records, err := st.LoadEnergies(runID)
	if err != nil {
		return err
	}
	if len(records) < 2 {
		return fmt.Errorf("run %s has %d samples, need at least 2 to plot", runID, len(records))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "system: %d %s atoms, %s\n", meta.Atoms, meta.Element, meta.Potential)
	fmt.Fprintf(out, "samples: %d\n\n", len(records))

	series := []struct {
		caption string
		value   func(i int) float64
	}{
		{"Epot (eV/atom)", func(i int) float64 { return records[i].PotentialPerAtom }},
		{"Ekin (eV/atom)", func(i int) float64 { return records[i].KineticPerAtom }},
		{"Etot (eV/atom)", func(i int) float64 { return records[i].TotalPerAtom }},
		{"T (K)", func(i int) float64 { return records[i].Temperature }},
	}
	for _, s := range series {
		data := make([]float64, len(records))
		for i := range records {
			data[i] = s.value(i)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	return nil
}

func exportPlot(cmd *cobra.Command, args []string) error {
	runID, path := args[0], args[1]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	records, err := st.LoadEnergies(runID)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%d %s atoms, %s, %.1f fs", meta.Atoms, meta.Element, meta.Potential, meta.TimestepFs)
	if err := export.EnergyPlot(path, title, records); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tELEMENT\tSIZE\tPOTENTIAL\tT\tDT\tSTEPS\tBACKEND")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.0fK\t%gfs\t%d\t%s\n",
			name, p.Element, p.Size, p.Potential, p.Temperature, p.TimestepFs, p.Steps, p.Backend)
	}
	return w.Flush()
}

func trajInfo(cmd *cobra.Command, args []string) error {
	r, err := traj.Open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	frames, first, last := 0, -1, -1
	for {
		f, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if frames == 0 {
			first = f.Step
		}
		last = f.Step
		frames++
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "atoms:  %d\n", r.Len())
	fmt.Fprintf(out, "frames: %d (steps %d..%d)\n", frames, first, last)
	for _, k := range sortedKeys(r.Header()) {
		fmt.Fprintf(out, "%s: %s\n", k, r.Header()[k])
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
