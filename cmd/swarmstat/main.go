package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/swarmstat/internal/config"
	"github.com/san-kum/swarmstat/internal/experiment"
	"github.com/san-kum/swarmstat/internal/storage"
	"github.com/san-kum/swarmstat/internal/swarm"
	"github.com/san-kum/swarmstat/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	themeName  string
	configFile string
	// Sampling and decoding
	robots    int
	threshold float64
	stride    int
	count     int
	preset    string
	header    bool
	// Batch
	policy    string
	workers   int
	pattern   string
	configs   []string
	seeds     int
	seedStart int
	// Zone
	halfWidth float64
	steps     int
	// Output
	overlay  bool
	live     bool
	withZone bool
	save     bool
	jsonOut  bool
	csvPath  string
	jsonPath string
	svgPath  string
	width    int
	height   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "swarmstat",
		Short:         "cohesion metrics for kilobot swarm logs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			viz.SetTheme(themeName)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", viz.ThemeCyberpunk.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	cohesionCmd := &cobra.Command{
		Use:   "cohesion [log]",
		Short: "sample the cohesion series of one run",
		Args:  cobra.ExactArgs(1),
		RunE:  runCohesion,
	}
	addSamplingFlags(cohesionCmd)
	cohesionCmd.Flags().BoolVar(&live, "live", false, "show progress while sampling")
	cohesionCmd.Flags().BoolVar(&withZone, "zone", false, "also count robots inside the zone at every sample")
	cohesionCmd.Flags().Float64Var(&halfWidth, "half-width", 0, "zone half width for --zone (default arena/3)")
	cohesionCmd.Flags().BoolVar(&save, "save", false, "store the run as a batch of one")
	cohesionCmd.Flags().BoolVar(&jsonOut, "json", false, "print the series as JSON")

	objectiveCmd := &cobra.Command{
		Use:   "objective [log]",
		Short: "print the negated final cohesion of one run",
		Args:  cobra.ExactArgs(1),
		RunE:  runObjective,
	}
	addSamplingFlags(objectiveCmd)

	envelopeCmd := &cobra.Command{
		Use:   "envelope [log...]",
		Short: "median and interquartile envelope across runs",
		RunE:  runEnvelope,
	}
	addSamplingFlags(envelopeCmd)
	addBatchFlags(envelopeCmd)
	envelopeCmd.Flags().BoolVar(&overlay, "overlay", false, "draw every run under the envelope")
	envelopeCmd.Flags().StringVar(&csvPath, "csv", "", "write the envelope as CSV")
	envelopeCmd.Flags().StringVar(&jsonPath, "json", "", "write the envelope as JSON")
	envelopeCmd.Flags().StringVar(&svgPath, "svg", "", "write the envelope as SVG")

	boxplotCmd := &cobra.Command{
		Use:   "boxplot [log...]",
		Short: "final cohesion per configuration",
		RunE:  runBoxplot,
	}
	addSamplingFlags(boxplotCmd)
	addBatchFlags(boxplotCmd)
	boxplotCmd.Flags().StringVar(&csvPath, "csv", "", "write the distribution table as CSV")

	zoneCmd := &cobra.Command{
		Use:   "zone [log...]",
		Short: "robots inside the central zone per timestep",
		RunE:  runZone,
	}
	addSamplingFlags(zoneCmd)
	addBatchFlags(zoneCmd)
	zoneCmd.Flags().Float64Var(&halfWidth, "half-width", 0, "zone half width (default arena/3)")
	zoneCmd.Flags().IntVar(&steps, "steps", 0, "rows to scan (0 = all)")
	zoneCmd.Flags().BoolVar(&jsonOut, "json", false, "print occupancy as JSON")
	zoneCmd.Flags().StringVar(&svgPath, "svg", "", "write end positions as SVG, one file per run with this prefix")

	batchCmd := &cobra.Command{
		Use:   "batch [log...]",
		Short: "run a batch and store its results",
		RunE:  runBatch,
	}
	addSamplingFlags(batchCmd)
	addBatchFlags(batchCmd)

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored batches",
		RunE:  listBatches,
	}

	showCmd := &cobra.Command{
		Use:   "show [batch_id]",
		Short: "render a stored batch",
		Args:  cobra.ExactArgs(1),
		RunE:  showBatch,
	}
	showCmd.Flags().BoolVar(&overlay, "overlay", false, "draw every run under the envelope")
	showCmd.Flags().IntVar(&width, "width", 60, "plot width")
	showCmd.Flags().IntVar(&height, "height", 12, "plot height")

	browseCmd := &cobra.Command{
		Use:   "browse [batch_id]",
		Short: "browse a stored batch interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  browseBatch,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [batch_id]",
		Short: "delete a stored batch",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteBatch,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list sampling presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				s, _ := config.GetPreset(name)
				fmt.Printf("  %-6s stride %-4d count %d\n", name, s.Stride, s.Count)
			}
			return nil
		},
	}

	rootCmd.AddCommand(cohesionCmd, objectiveCmd, envelopeCmd, boxplotCmd, zoneCmd, batchCmd, runsCmd, showCmd, browseCmd, deleteCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, viz.ErrorText.Render("error: ")+err.Error())
		stop()
		os.Exit(1)
	}
}

func addSamplingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "batch config file (yaml)")
	cmd.Flags().IntVarP(&robots, "robots", "n", config.DefaultPopulation, "robots per log")
	cmd.Flags().Float64Var(&threshold, "threshold", config.DefaultThreshold, "proximity threshold")
	cmd.Flags().IntVar(&stride, "stride", 0, "rows between samples (overrides preset)")
	cmd.Flags().IntVar(&count, "count", 0, "number of samples (overrides preset)")
	cmd.Flags().StringVar(&preset, "preset", config.DefaultPreset, "sampling preset ("+strings.Join(config.ListPresets(), ", ")+")")
	cmd.Flags().BoolVar(&header, "header", false, "logs start with a header line")
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&policy, "on-failure", string(experiment.FailFast), "failed run policy (fail-fast, skip)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "log path pattern with {config} and {seed}")
	cmd.Flags().StringSliceVar(&configs, "configs", nil, "configuration names for --pattern")
	cmd.Flags().IntVar(&seeds, "seeds", 30, "seeds per configuration for --pattern")
	cmd.Flags().IntVar(&seedStart, "seed-start", 1, "first seed for --pattern")
}

// loadConfig reads --config when given and applies every flag the user set
// explicitly on top of it.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("robots") {
		cfg.Population = robots
	}
	if flags.Changed("threshold") {
		cfg.Threshold = threshold
	}
	if flags.Changed("preset") {
		cfg.Preset = preset
		cfg.Sampling = swarm.Sampling{}
	}
	if flags.Changed("stride") || flags.Changed("count") {
		s, err := cfg.ResolveSampling()
		if err != nil {
			return nil, err
		}
		if flags.Changed("stride") {
			s.Stride = stride
		}
		if flags.Changed("count") {
			s.Count = count
		}
		cfg.Sampling = s
	}
	if flags.Changed("header") {
		cfg.Header = header
	}
	if flags.Changed("on-failure") {
		cfg.OnFailure = policy
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("half-width") {
		cfg.Zone.HalfWidth = halfWidth
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if pattern != "" {
		cfg.Pattern = config.PatternConfig{Path: pattern, Configs: configs, SeedStart: seedStart, SeedCount: seeds}
	}
	for i, path := range args {
		cfg.Runs = append(cfg.Runs, runFromPath(i, path))
	}
	return cfg, nil
}

var seedPattern = regexp.MustCompile(`seed#?_?(\d+)`)

// runFromPath names a log given on the command line. The seed comes from a
// "seed#N" file name and the configuration from the parent directory,
// falling back to the argument position.
func runFromPath(i int, path string) config.RunConfig {
	run := config.RunConfig{Seed: i + 1, Path: path}
	if m := seedPattern.FindStringSubmatch(filepath.Base(path)); m != nil {
		if seed, err := strconv.Atoi(m[1]); err == nil {
			run.Seed = seed
		}
	}
	if dir := filepath.Base(filepath.Dir(path)); dir != "." && dir != string(filepath.Separator) {
		run.Config = dir
	}
	return run
}

func newExperiment(cfg *config.Config) (*experiment.Experiment, error) {
	ec, err := cfg.Experiment()
	if err != nil {
		return nil, err
	}
	return experiment.New(ec)
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	dir := dataDir
	if cfg != nil && cfg.DataDir != "" {
		dir = cfg.DataDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return storage.NewStore(filepath.Join(dir, "swarmstat.db"))
}
