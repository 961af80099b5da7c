package swarm

import (
	"fmt"
	"math"
)

// Position is a robot location in arena units.
type Position struct {
	X, Y float64
}

// Distance returns the Euclidean distance between p and q.
func (p Position) Distance(q Position) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Position) IsValid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Sampling selects rows 0, Stride, 2*Stride, ... (Count of them).
type Sampling struct {
	Stride int `yaml:"stride" json:"stride"`
	Count  int `yaml:"count" json:"count"`
}

func (s Sampling) Validate() error {
	if s.Stride < 1 {
		return fmt.Errorf("%w: stride must be positive, got %d", ErrInvalidSampling, s.Stride)
	}
	if s.Count < 1 {
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidSampling, s.Count)
	}
	return nil
}

// Row returns the raw row index of sample k.
func (s Sampling) Row(k int) int {
	return k * s.Stride
}

// LastRow is the highest raw row index the sampling touches. It saturates
// at math.MaxInt instead of wrapping.
func (s Sampling) LastRow() int {
	if s.Stride > 0 && s.Count-1 > math.MaxInt/s.Stride {
		return math.MaxInt
	}
	return s.Row(s.Count - 1)
}

// Fits reports whether every sampled row lies below rows. No product is
// formed, so huge strides cannot overflow into range.
func (s Sampling) Fits(rows int) bool {
	if s.Stride < 1 || s.Count < 1 || rows < 1 {
		return false
	}
	return s.Count-1 <= (rows-1)/s.Stride
}

func (s Sampling) String() string {
	return fmt.Sprintf("%dx%d", s.Stride, s.Count)
}

// Series holds one metric value per sample of a single run.
type Series struct {
	Sampling Sampling  `json:"sampling"`
	Values   []float64 `json:"values"`
}

func (s Series) Len() int { return len(s.Values) }

// Final returns the last sampled value.
func (s Series) Final() (float64, bool) {
	if len(s.Values) == 0 {
		return 0, false
	}
	return s.Values[len(s.Values)-1], true
}

func (s Series) Clone() Series {
	v := make([]float64, len(s.Values))
	copy(v, s.Values)
	return Series{Sampling: s.Sampling, Values: v}
}

// RunID names one run of a batch.
type RunID struct {
	Config string `yaml:"config" json:"config"`
	Seed   int    `yaml:"seed" json:"seed"`
}

func (id RunID) String() string {
	if id.Config == "" {
		return fmt.Sprintf("seed#%d", id.Seed)
	}
	return fmt.Sprintf("%s/seed#%d", id.Config, id.Seed)
}
