package main

import (
	"fmt"
	"log/slog"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/swarmstat/internal/config"
	"github.com/san-kum/swarmstat/internal/experiment"
	"github.com/san-kum/swarmstat/internal/metrics"
	"github.com/san-kum/swarmstat/internal/sim"
	"github.com/san-kum/swarmstat/internal/store"
	"github.com/san-kum/swarmstat/internal/swarm"
	"github.com/san-kum/swarmstat/internal/tui"
	"github.com/san-kum/swarmstat/internal/viz"
	"github.com/san-kum/swarmstat/internal/zone"
)

func singleRun(cmd *cobra.Command, args []string) (*experiment.Experiment, experiment.Run, error) {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return nil, experiment.Run{}, err
	}
	exp, err := newExperiment(cfg)
	if err != nil {
		return nil, experiment.Run{}, err
	}
	rc := runFromPath(0, args[0])
	run := experiment.Run{ID: swarm.RunID{Config: rc.Config, Seed: rc.Seed}, Path: rc.Path}
	return exp, run, nil
}

func runCohesion(cmd *cobra.Command, args []string) error {
	exp, run, err := singleRun(cmd, args)
	if err != nil {
		return err
	}

	var observer sim.Observer
	if live {
		observer = tui.NewLiveRenderer(os.Stderr, exp.Config().Sampling.Count, 30)
	}

	var extra []metrics.Metric
	var occ *metrics.Occupancy
	if withZone {
		occ = metrics.NewOccupancy(exp.Config().Zone)
		extra = append(extra, occ)
	}

	res, err := exp.Observe(cmd.Context(), run, observer, extra...)
	if err != nil {
		return err
	}

	if jsonOut {
		return store.WriteSeriesJSON(os.Stdout, run.ID, res.Series, res.Metrics)
	}

	headers, rows := sampleTable(res)
	fmt.Println(viz.Table(headers, rows))
	fmt.Println(viz.PlotSeries(res.Series, viz.PlotOptions{}))
	if occ != nil {
		fmt.Printf("%s %s\n", viz.MetricLabel.Render("peak in zone"), viz.MetricValue.Render(strconv.Itoa(occ.Peak())))
	}

	if save {
		st, err := openStore(nil)
		if err != nil {
			return err
		}
		defer st.Close()

		coll := &experiment.RunCollection{Outcomes: []experiment.Outcome{{Run: run, Result: res}}}
		b, err := st.SaveBatch(run.ID.String(), exp.Config(), coll)
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", b.ID)
	}
	return nil
}

// sampleTable lays out one row per sample, with a column for every extra
// metric in name order.
func sampleTable(res *sim.Result) ([]string, [][]string) {
	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := append([]string{"sample", "row", "cohesion", "groups"}, names...)
	rows := make([][]string, res.Series.Len())
	for k, v := range res.Series.Values {
		row := []string{
			strconv.Itoa(k),
			strconv.Itoa(res.Rows[k]),
			fmt.Sprintf("%.4f", v),
			strconv.Itoa(res.NonSingleton[k]),
		}
		for _, name := range names {
			row = append(row, strconv.FormatFloat(res.Metrics[name][k], 'g', -1, 64))
		}
		rows[k] = row
	}
	return headers, rows
}

// runObjective prints the objective alone on the last line of stdout so an
// external tuner can read it.
func runObjective(cmd *cobra.Command, args []string) error {
	exp, run, err := singleRun(cmd, args)
	if err != nil {
		return err
	}
	obj, err := exp.Objective(cmd.Context(), run)
	if err != nil {
		return err
	}
	fmt.Println(strconv.FormatFloat(obj, 'g', -1, 64))
	return nil
}

func runBatchCollection(cmd *cobra.Command, args []string) (*experiment.Experiment, *experiment.RunCollection, error) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	return collect(cmd, cfg)
}

func collect(cmd *cobra.Command, cfg *config.Config) (*experiment.Experiment, *experiment.RunCollection, error) {
	exp, err := newExperiment(cfg)
	if err != nil {
		return nil, nil, err
	}
	runs, err := cfg.ExpandRuns()
	if err != nil {
		return nil, nil, err
	}
	coll, err := exp.RunAll(cmd.Context(), runs)
	if err != nil {
		return nil, nil, err
	}
	return exp, coll, nil
}

// printFailures lists the runs a skip policy excluded from aggregation.
func printFailures(w io.Writer, failures []experiment.Failure) {
	for _, f := range failures {
		fmt.Fprintln(w, viz.ErrorText.Render("failed ")+f.Run.ID.String()+": "+f.Err.Error())
	}
}

func runEnvelope(cmd *cobra.Command, args []string) error {
	_, coll, err := runBatchCollection(cmd, args)
	if err != nil {
		return err
	}
	printFailures(os.Stdout, coll.Failures)
	env, err := coll.Envelope()
	if err != nil {
		return err
	}

	fmt.Println(viz.PlotEnvelope(env, overlay, viz.PlotOptions{}))
	final := env.Len() - 1
	fmt.Printf("%s %s  %s %s  %s %s\n",
		viz.MetricLabel.Render("final median"), viz.MetricValue.Render(fmt.Sprintf("%.3f", env.Median[final])),
		viz.MetricLabel.Render("q25"), viz.MetricValue.Render(fmt.Sprintf("%.3f", env.Q25[final])),
		viz.MetricLabel.Render("q75"), viz.MetricValue.Render(fmt.Sprintf("%.3f", env.Q75[final])))

	if csvPath != "" {
		if err := store.ExportEnvelopeCSV(csvPath, env); err != nil {
			return err
		}
		fmt.Printf("exported: %s\n", csvPath)
	}
	if jsonPath != "" {
		if err := store.ExportEnvelopeJSON(jsonPath, env); err != nil {
			return err
		}
		fmt.Printf("exported: %s\n", jsonPath)
	}
	if svgPath != "" {
		if err := store.ExportSVG(svgPath, store.EnvelopeSVG(env, 800, 400)); err != nil {
			return err
		}
		fmt.Printf("exported: %s\n", svgPath)
	}
	return nil
}

func runBoxplot(cmd *cobra.Command, args []string) error {
	_, coll, err := runBatchCollection(cmd, args)
	if err != nil {
		return err
	}
	printFailures(os.Stdout, coll.Failures)
	table, err := coll.Distribution()
	if err != nil {
		return err
	}

	summaries := table.Summaries()
	fmt.Println(viz.DistributionTable(table))
	fmt.Println(viz.SummaryTable(summaries))
	fmt.Print(viz.Boxplot(summaries, 50))

	if csvPath != "" {
		if err := store.ExportTableCSV(csvPath, table); err != nil {
			return err
		}
		fmt.Printf("exported: %s\n", csvPath)
	}
	return nil
}

func runZone(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := newExperiment(cfg)
	if err != nil {
		return err
	}
	runs, err := cfg.ExpandRuns()
	if err != nil {
		return err
	}

	outcomes, failures, err := exp.OccupancyAll(cmd.Context(), runs)
	if err != nil {
		return err
	}
	if jsonOut {
		printFailures(os.Stderr, failures)
	} else {
		printFailures(os.Stdout, failures)
	}

	zones := []zone.Zone{exp.Config().Zone, {HalfWidth: zone.OuterHalfWidth}}
	for i, o := range outcomes {
		if svgPath != "" {
			path := fmt.Sprintf("%s%d.svg", svgPath, i)
			if err := store.ExportSVG(path, store.ArenaSVG(o.Occupancy.Final, zones, 600)); err != nil {
				return err
			}
			slog.Info("exported", slog.String("run", o.Run.ID.String()), slog.String("path", path))
		}
		if jsonOut {
			if err := store.WriteOccupancyJSON(os.Stdout, o.Occupancy); err != nil {
				return err
			}
			continue
		}

		peak, at := o.Occupancy.Max()
		fmt.Println(viz.Title.Render(o.Run.ID.String()) + "  " +
			viz.Subtle.Render(fmt.Sprintf("peak %d robots at step %d", peak, at)))
		fmt.Println(viz.PlotOccupancy(o.Occupancy, viz.PlotOptions{}))
		fmt.Print(viz.Arena(o.Occupancy.Final, zones, 30, 15))
		fmt.Println()
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, coll, err := collect(cmd, cfg)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	b, err := st.SaveBatch(cfg.Name, exp.Config(), coll)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s (%d runs, %d failed)\n", b.ID, b.Runs, b.Failures)
	printFailures(os.Stdout, coll.Failures)
	return renderCollection(coll, viz.PlotOptions{})
}

func renderCollection(coll *experiment.RunCollection, opts viz.PlotOptions) error {
	if coll.Len() == 0 {
		fmt.Println("no completed runs")
		return nil
	}
	env, err := coll.Envelope()
	if err != nil {
		return err
	}
	table, err := coll.Distribution()
	if err != nil {
		return err
	}
	fmt.Println(viz.PlotEnvelope(env, overlay, opts))
	summaries := table.Summaries()
	fmt.Println(viz.SummaryTable(summaries))
	fmt.Print(viz.Boxplot(summaries, max(opts.Width, 50)))
	return nil
}

func listBatches(cmd *cobra.Command, args []string) error {
	st, err := openStore(nil)
	if err != nil {
		return err
	}
	defer st.Close()

	batches, err := st.ListBatches()
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		fmt.Println("no batches found")
		return nil
	}

	rows := make([][]string, len(batches))
	for i, b := range batches {
		rows[i] = []string{
			b.ID[:8],
			b.Name,
			b.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(b.Runs),
			strconv.Itoa(b.Failures),
			b.Sampling.String(),
			strconv.Itoa(b.Population),
		}
	}
	fmt.Println(viz.Table([]string{"id", "name", "time", "runs", "failed", "sampling", "robots"}, rows))
	return nil
}

func showBatch(cmd *cobra.Command, args []string) error {
	st, err := openStore(nil)
	if err != nil {
		return err
	}
	defer st.Close()

	b, coll, err := st.LoadCollection(args[0])
	if err != nil {
		return err
	}
	fmt.Println(viz.Title.Render(b.Name) + "  " + viz.Subtle.Render(b.ID))
	printFailures(os.Stdout, coll.Failures)
	return renderCollection(coll, viz.PlotOptions{Width: width, Height: height})
}

func browseBatch(cmd *cobra.Command, args []string) error {
	st, err := openStore(nil)
	if err != nil {
		return err
	}
	defer st.Close()

	b, coll, err := st.LoadCollection(args[0])
	if err != nil {
		return err
	}
	return tui.Browse(b.Name, coll)
}

func deleteBatch(cmd *cobra.Command, args []string) error {
	st, err := openStore(nil)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteBatch(args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted: %s\n", args[0])
	return nil
}
