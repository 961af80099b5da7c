package config

import (
	"sort"

	"github.com/san-kum/swarmstat/internal/swarm"
)

// Presets are the sampling schedules of the reference experiments: a short
// parameter-sweep horizon and a full 3600 s run logged every second.
var Presets = map[string]swarm.Sampling{
	"sweep": {Stride: 100, Count: 36},
	"full":  {Stride: 10, Count: 360},
}

func GetPreset(name string) (swarm.Sampling, bool) {
	s, ok := Presets[name]
	return s, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
