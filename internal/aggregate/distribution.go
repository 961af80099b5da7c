// Package aggregate reduces completed per-run metric series into summary
// statistics: the per-configuration distribution of final values and the
// median/quartile envelope over time. All functions are pure.
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"unicode"

	"github.com/san-kum/swarmstat/internal/swarm"
)

// Table maps each configuration to its final values in seed order.
type Table struct {
	Configs []string             `json:"configs"`
	Values  map[string][]float64 `json:"values"`
}

// Distribution takes the final value of every series. The slice order of each
// configuration is preserved, so callers pass series in seed order.
func Distribution(runs map[string][]swarm.Series) (*Table, error) {
	t := &Table{
		Configs: make([]string, 0, len(runs)),
		Values:  make(map[string][]float64, len(runs)),
	}
	for cfg := range runs {
		t.Configs = append(t.Configs, cfg)
	}
	SortConfigs(t.Configs)

	for _, cfg := range t.Configs {
		series := runs[cfg]
		vals := make([]float64, len(series))
		for i, s := range series {
			v, ok := s.Final()
			if !ok {
				return nil, &swarm.ShapeMismatchError{Run: i, Reason: fmt.Sprintf("config %s: empty series", cfg)}
			}
			vals[i] = v
		}
		t.Values[cfg] = vals
	}
	return t, nil
}

// Rows is the longest column length.
func (t *Table) Rows() int {
	n := 0
	for _, v := range t.Values {
		if len(v) > n {
			n = len(v)
		}
	}
	return n
}

// Row returns the i-th value of every configuration in Configs order, NaN
// where a column is shorter.
func (t *Table) Row(i int) []float64 {
	out := make([]float64, len(t.Configs))
	for c, cfg := range t.Configs {
		vals := t.Values[cfg]
		if i < len(vals) {
			out[c] = vals[i]
		} else {
			out[c] = math.NaN()
		}
	}
	return out
}

// Summary is the five-number summary of one configuration's column.
type Summary struct {
	Config string  `json:"config"`
	N      int     `json:"n"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

func (t *Table) Summaries() []Summary {
	out := make([]Summary, 0, len(t.Configs))
	for _, cfg := range t.Configs {
		vals := t.Values[cfg]
		s := Summary{Config: cfg, N: len(vals)}
		if len(vals) > 0 {
			s.Min = Quantile(vals, 0)
			s.Q25 = Quantile(vals, 0.25)
			s.Median = Quantile(vals, 0.5)
			s.Q75 = Quantile(vals, 0.75)
			s.Max = Quantile(vals, 1)
		}
		out = append(out, s)
	}
	return out
}

// SortConfigs orders names so that embedded numbers compare numerically
// ("config_2" before "config_10").
func SortConfigs(names []string) {
	sort.SliceStable(names, func(i, j int) bool { return naturalLess(names[i], names[j]) })
}

func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, cb := rune(a[0]), rune(b[0])
		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			na, ra := leadingNumber(a)
			nb, rb := leadingNumber(b)
			if na != nb {
				return na < nb
			}
			a, b = ra, rb
			continue
		}
		if ca != cb {
			return ca < cb
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func leadingNumber(s string) (int, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, s[i:]
	}
	return n, s[i:]
}
