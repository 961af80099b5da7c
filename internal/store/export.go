package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/swarmstat/internal/aggregate"
	"github.com/san-kum/swarmstat/internal/swarm"
	"github.com/san-kum/swarmstat/internal/zone"
)

// EnvelopeData is the JSON form of an envelope together with its raw runs.
type EnvelopeData struct {
	Sampling swarm.Sampling `json:"sampling"`
	Rows     []int          `json:"rows"`
	Median   []float64      `json:"median"`
	Q25      []float64      `json:"q25"`
	Q75      []float64      `json:"q75"`
	Runs     [][]float64    `json:"runs"`
}

// SeriesData is the JSON form of one run's series.
type SeriesData struct {
	Run       string         `json:"run"`
	Sampling  swarm.Sampling `json:"sampling"`
	Values    []float64      `json:"values"`
	Objective float64        `json:"objective"`
	// Metrics holds extra per-sample metrics by name.
	Metrics map[string][]float64 `json:"metrics,omitempty"`
}

func envelopeData(env *aggregate.Envelope) EnvelopeData {
	data := EnvelopeData{
		Sampling: env.Sampling,
		Rows:     make([]int, env.Len()),
		Median:   env.Median,
		Q25:      env.Q25,
		Q75:      env.Q75,
		Runs:     make([][]float64, len(env.Runs)),
	}
	for k := range data.Rows {
		data.Rows[k] = env.Sampling.Row(k)
	}
	for i, s := range env.Runs {
		data.Runs[i] = s.Values
	}
	return data
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func createAnd(path string, fn func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func WriteEnvelopeJSON(w io.Writer, env *aggregate.Envelope) error {
	return writeJSON(w, envelopeData(env))
}

func ExportEnvelopeJSON(path string, env *aggregate.Envelope) error {
	return createAnd(path, func(w io.Writer) error { return WriteEnvelopeJSON(w, env) })
}

func WriteSeriesJSON(w io.Writer, id swarm.RunID, s swarm.Series, extra map[string][]float64) error {
	data := SeriesData{Run: id.String(), Sampling: s.Sampling, Values: s.Values}
	if len(extra) > 0 {
		data.Metrics = extra
	}
	if v, ok := s.Final(); ok {
		data.Objective = -v
	}
	return writeJSON(w, data)
}

func WriteOccupancyJSON(w io.Writer, occ *zone.Occupancy) error {
	return writeJSON(w, occ)
}

// WriteTableCSV writes the distribution table with one column per
// configuration and one row per seed. Short columns leave empty cells.
func WriteTableCSV(w io.Writer, t *aggregate.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Configs); err != nil {
		return err
	}
	for i := 0; i < t.Rows(); i++ {
		row := make([]string, len(t.Configs))
		for j, cfg := range t.Configs {
			values := t.Values[cfg]
			if i < len(values) {
				row[j] = strconv.FormatFloat(values[i], 'f', -1, 64)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ExportTableCSV(path string, t *aggregate.Table) error {
	return createAnd(path, func(w io.Writer) error { return WriteTableCSV(w, t) })
}

// WriteEnvelopeCSV writes one row per sample: row index, median, quartiles
// and every raw run.
func WriteEnvelopeCSV(w io.Writer, env *aggregate.Envelope) error {
	cw := csv.NewWriter(w)

	header := []string{"row", "median", "q25", "q75"}
	for i := range env.Runs {
		header = append(header, fmt.Sprintf("run%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for k := 0; k < env.Len(); k++ {
		row := []string{
			strconv.Itoa(env.Sampling.Row(k)),
			format(env.Median[k]),
			format(env.Q25[k]),
			format(env.Q75[k]),
		}
		for _, s := range env.Runs {
			row = append(row, format(s.Values[k]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ExportEnvelopeCSV(path string, env *aggregate.Envelope) error {
	return createAnd(path, func(w io.Writer) error { return WriteEnvelopeCSV(w, env) })
}

func WriteTableJSON(w io.Writer, t *aggregate.Table) error {
	return writeJSON(w, t)
}
