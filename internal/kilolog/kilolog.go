// Package kilolog decodes tab-delimited kilobot trajectory logs.
//
// A log holds one row per timestep. Each row carries a fixed prefix, one block
// per robot and a trailing summary field (see [Layout]). Only the two position
// fields of every block are ever interpreted; auxiliary fields are kept as raw
// text and never parsed.
package kilolog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/swarmstat/internal/swarm"
)

// Log is an immutable, fully read trajectory log.
type Log struct {
	population int
	layout     Layout
	rows       [][]string
}

type options struct {
	layout Layout
	header bool
}

type Option func(*options)

func WithLayout(l Layout) Option {
	return func(o *options) { o.layout = l }
}

// WithHeader skips the first line of the input.
func WithHeader() Option {
	return func(o *options) { o.header = true }
}

// Open reads the log at path completely and closes it.
func Open(path string, n int, opts ...Option) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lg, err := Read(f, n, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lg, nil
}

// Read consumes r and validates that every row has exactly the layout's
// width for n robots. Width violations are reported before any position is
// decoded.
func Read(r io.Reader, n int, opts ...Option) (*Log, error) {
	o := options{layout: DefaultLayout()}
	for _, opt := range opts {
		opt(&o)
	}
	if n < 1 {
		return nil, fmt.Errorf("kilolog: population must be positive, got %d", n)
	}
	if err := o.layout.Validate(); err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	width := o.layout.Width(n)
	rows := make([][]string, 0, 1024)
	skip := o.header

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &swarm.DataFormatError{Row: len(rows), Robot: -1, Column: -1, Reason: err.Error()}
		}
		if skip {
			skip = false
			continue
		}
		if len(rec) != width {
			return nil, &swarm.DataFormatError{
				Row:    len(rows),
				Robot:  -1,
				Column: -1,
				Reason: fmt.Sprintf("got %d fields, want %d for %d robots", len(rec), width, n),
			}
		}
		rows = append(rows, rec)
	}

	if len(rows) == 0 {
		return nil, &swarm.DataFormatError{Row: -1, Robot: -1, Column: -1, Reason: "log has no rows"}
	}

	return &Log{population: n, layout: o.layout, rows: rows}, nil
}

func (l *Log) Population() int { return l.population }
func (l *Log) Rows() int       { return len(l.rows) }
func (l *Log) Layout() Layout  { return l.layout }

// Positions decodes the position of every robot at row.
func (l *Log) Positions(row int) ([]swarm.Position, error) {
	if row < 0 || row >= len(l.rows) {
		return nil, &swarm.OutOfRangeError{What: "row", Index: row, Limit: len(l.rows)}
	}

	rec := l.rows[row]
	out := make([]swarm.Position, l.population)
	for id := 0; id < l.population; id++ {
		x, err := l.field(rec, row, id, l.layout.XColumn(id))
		if err != nil {
			return nil, err
		}
		y, err := l.field(rec, row, id, l.layout.YColumn(id))
		if err != nil {
			return nil, err
		}
		out[id] = swarm.Position{X: x, Y: y}
	}
	return out, nil
}

// Position decodes a single robot at row.
func (l *Log) Position(row, id int) (swarm.Position, error) {
	if row < 0 || row >= len(l.rows) {
		return swarm.Position{}, &swarm.OutOfRangeError{What: "row", Index: row, Limit: len(l.rows)}
	}
	if id < 0 || id >= l.population {
		return swarm.Position{}, &swarm.OutOfRangeError{What: "robot", Index: id, Limit: l.population}
	}
	rec := l.rows[row]
	x, err := l.field(rec, row, id, l.layout.XColumn(id))
	if err != nil {
		return swarm.Position{}, err
	}
	y, err := l.field(rec, row, id, l.layout.YColumn(id))
	if err != nil {
		return swarm.Position{}, err
	}
	return swarm.Position{X: x, Y: y}, nil
}

func (l *Log) field(rec []string, row, id, col int) (float64, error) {
	raw := rec[col]
	v, err := ParseField(raw)
	if err != nil {
		return 0, &swarm.DataFormatError{Row: row, Robot: id, Column: col, Field: raw, Reason: err.Error()}
	}
	return v, nil
}

// ParseField converts a textual log value to a finite float. Padded values
// such as "+000.1234" are accepted; NaN and infinities are not.
func ParseField(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty field")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	return v, nil
}
