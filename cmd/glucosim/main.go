package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/glucosim/internal/config"
	"github.com/san-kum/glucosim/internal/controllers"
	"github.com/san-kum/glucosim/internal/env"
	"github.com/san-kum/glucosim/internal/logging"
	"github.com/san-kum/glucosim/internal/loop"
	"github.com/san-kum/glucosim/internal/report"
	"github.com/san-kum/glucosim/internal/storage"
	"github.com/san-kum/glucosim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	subject    string
	steps      int
	seed       int64
	outPath    string
	controller string
	logLevel   string
	frameRate  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "glucosim",
		Short: "closed-loop glucose control simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".glucosim", "run store directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "loglevel", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
	runCmd.Flags().StringVar(&subject, "subject", config.DefaultSubject, "simulated subject name")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "step budget")
	runCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed consumed by the environment")
	runCmd.Flags().StringVar(&outPath, "out", config.DefaultOutput, "output CSV path")
	runCmd.Flags().StringVar(&controller, "controller", "safety", "controller (safety, pid, none)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
	liveCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "step budget")
	liveCmd.Flags().StringVar(&controller, "controller", "safety", "controller (safety, pid, none)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	plotCmd := &cobra.Command{
		Use:   "plot [csv]",
		Short: "chart the glucose column of a results file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotResults,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, plotCmd, listCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges preset, config file and CLI flags, flags winning.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if f := cmd.Flags().Lookup("subject"); f != nil && f.Changed {
		cfg.Subject = subject
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if f := cmd.Flags().Lookup("seed"); f != nil && f.Changed {
		cfg.Seed = seed
	}
	if f := cmd.Flags().Lookup("out"); f != nil && f.Changed {
		cfg.Output = outPath
	}
	if cmd.Flags().Changed("controller") {
		cfg.Controller = controller
	}
	return cfg, nil
}

func buildEnvironment(cfg *config.Config) (loop.Environment, error) {
	opts := []env.ScriptedOption{}
	if cfg.Scenario.HoldLast {
		opts = append(opts, env.WithHoldLast())
	}
	if cfg.Scenario.Jitter > 0 {
		opts = append(opts, env.WithJitter(cfg.Scenario.Jitter, cfg.Seed))
	}
	return env.NewScripted(cfg.Scenario.Samples, opts...)
}

func buildController(cfg *config.Config, log *logrus.Logger) (loop.Controller, loop.State, error) {
	switch cfg.Controller {
	case "", "safety":
		c := controllers.NewSafety(log)
		c.BasalRate = cfg.Policy.BasalRate
		c.MealBolus = cfg.Policy.MealBolus
		c.LowThreshold = cfg.Policy.LowThreshold
		return c, nil, nil
	case "pid":
		c := controllers.NewPID(cfg.Policy.Kp, cfg.Policy.Ki, cfg.Policy.Kd, cfg.Policy.Target)
		c.Nominal = cfg.Policy.BasalRate
		c.MealBolus = cfg.Policy.MealBolus
		c.LowThreshold = cfg.Policy.LowThreshold
		return c, controllers.PIDState{}, nil
	case "none":
		return controllers.NewNone(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown controller: %s", cfg.Controller)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(os.Stderr, logLevel)
	if err != nil {
		return err
	}

	environment, err := buildEnvironment(cfg)
	if err != nil {
		return err
	}
	ctrl, st, err := buildController(cfg, log)
	if err != nil {
		return err
	}

	report.PrintBanner(os.Stdout, cfg.Subject, cfg.Steps)

	driver := loop.NewDriver(environment, ctrl,
		loop.WithLogger(log),
		loop.WithWriter(report.NewCSVFile(cfg.Output)),
	)
	result, err := driver.Run(cfg.Steps, st)
	if err != nil {
		return err
	}

	report.PrintSummary(os.Stdout, result.Summary, cfg.Output)

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(cfg.Subject, cfg.Controller, cfg.Seed, result)
	if err != nil {
		return err
	}
	log.WithField("run_id", runID).Info("run stored")
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	environment, err := buildEnvironment(cfg)
	if err != nil {
		return err
	}
	// step notifications would corrupt the TUI frame
	ctrl, st, err := buildController(cfg, logging.Silent())
	if err != nil {
		return err
	}

	m := viz.NewModel(environment, ctrl, st, cfg.Subject, cfg.Steps, frameRate)
	_, err = tea.NewProgram(m).Run()
	return err
}

func plotResults(cmd *cobra.Command, args []string) error {
	path := config.DefaultOutput
	if len(args) > 0 {
		path = args[0]
	}

	recs, err := report.ReadCSV(path)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return fmt.Errorf("no records in %s", path)
	}

	cgm := make([]float64, len(recs))
	for i, r := range recs {
		cgm[i] = r.CGM
	}

	fmt.Println(asciigraph.Plot(cgm,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("CGM (mg/dL) — %s", path)),
	))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSUBJECT\tCONTROLLER\tSTEPS\tMEAN\tMIN\tMAX\tWHEN")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%.1f\t%.1f\t%s\n",
			r.ID, r.Subject, r.Controller, r.Steps,
			r.MeanCGM, r.MinCGM, r.MaxCGM,
			r.Timestamp.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
