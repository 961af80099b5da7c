package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/swarmstat/internal/experiment"
	"github.com/san-kum/swarmstat/internal/kilolog"
	"github.com/san-kum/swarmstat/internal/swarm"
	"github.com/san-kum/swarmstat/internal/zone"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPopulation = 25
	DefaultThreshold  = 0.1
	DefaultPreset     = "sweep"
	DefaultDataDir    = ".swarmstat"
)

// Config describes a batch: how logs are decoded and sampled and which logs
// make up the batch.
type Config struct {
	Name       string         `yaml:"name"`
	Population int            `yaml:"population"`
	Threshold  float64        `yaml:"threshold"`
	Preset     string         `yaml:"preset"`
	Sampling   swarm.Sampling `yaml:"sampling"`
	Zone       zone.Zone      `yaml:"zone"`
	Steps      int            `yaml:"steps"`
	Header     bool           `yaml:"header"`
	Layout     kilolog.Layout `yaml:"layout"`
	OnFailure  string         `yaml:"on_failure"`
	Workers    int            `yaml:"workers"`
	DataDir    string         `yaml:"data_dir"`
	Runs       []RunConfig    `yaml:"runs"`
	Pattern    PatternConfig  `yaml:"pattern"`
}

// RunConfig lists one log explicitly.
type RunConfig struct {
	Config string `yaml:"config"`
	Seed   int    `yaml:"seed"`
	Path   string `yaml:"path"`
}

// PatternConfig expands a path template over configurations and seeds.
// "{config}" and "{seed}" in Path are replaced by each configuration name and
// seed number.
type PatternConfig struct {
	Path      string   `yaml:"path"`
	Configs   []string `yaml:"configs"`
	SeedStart int      `yaml:"seed_start"`
	SeedCount int      `yaml:"seed_count"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "batch",
		Population: DefaultPopulation,
		Threshold:  DefaultThreshold,
		Preset:     DefaultPreset,
		Zone:       zone.Default(),
		Layout:     kilolog.DefaultLayout(),
		OnFailure:  string(experiment.FailFast),
		DataDir:    DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings and that the batch names at least one run.
func (c *Config) Validate() error {
	if _, err := c.Experiment(); err != nil {
		return err
	}
	_, err := c.ExpandRuns()
	return err
}

// ResolveSampling returns the explicit sampling when set, otherwise the
// named preset.
func (c *Config) ResolveSampling() (swarm.Sampling, error) {
	if c.Sampling.Stride != 0 || c.Sampling.Count != 0 {
		return c.Sampling, c.Sampling.Validate()
	}
	name := c.Preset
	if name == "" {
		name = DefaultPreset
	}
	s, ok := GetPreset(name)
	if !ok {
		return swarm.Sampling{}, fmt.Errorf("unknown sampling preset: %s (available: %v)", name, ListPresets())
	}
	return s, nil
}

// Experiment converts the batch settings into an experiment configuration.
func (c *Config) Experiment() (experiment.Config, error) {
	sampling, err := c.ResolveSampling()
	if err != nil {
		return experiment.Config{}, err
	}
	policy, err := experiment.ParsePolicy(c.OnFailure)
	if err != nil {
		return experiment.Config{}, err
	}

	ec := experiment.Config{
		Population: c.Population,
		Threshold:  c.Threshold,
		Sampling:   sampling,
		Layout:     c.Layout,
		Header:     c.Header,
		Zone:       c.Zone,
		Steps:      c.Steps,
		Policy:     policy,
		Workers:    c.Workers,
	}
	return ec, ec.Validate()
}

// ExpandRuns lists explicit runs followed by every pattern combination.
func (c *Config) ExpandRuns() ([]experiment.Run, error) {
	runs := make([]experiment.Run, 0, len(c.Runs))
	for i, r := range c.Runs {
		if r.Path == "" {
			return nil, fmt.Errorf("runs[%d]: missing path", i)
		}
		runs = append(runs, experiment.Run{
			ID:   swarm.RunID{Config: r.Config, Seed: r.Seed},
			Path: r.Path,
		})
	}

	p := c.Pattern
	if p.Path != "" {
		if p.SeedCount < 1 {
			return nil, fmt.Errorf("pattern: seed_count must be positive, got %d", p.SeedCount)
		}
		configs := p.Configs
		if len(configs) == 0 {
			configs = []string{""}
		}
		for _, cfg := range configs {
			for s := 0; s < p.SeedCount; s++ {
				seed := p.SeedStart + s
				path := strings.NewReplacer("{config}", cfg, "{seed}", strconv.Itoa(seed)).Replace(p.Path)
				runs = append(runs, experiment.Run{
					ID:   swarm.RunID{Config: cfg, Seed: seed},
					Path: path,
				})
			}
		}
	}

	if len(runs) == 0 {
		return nil, fmt.Errorf("batch %q lists no runs", c.Name)
	}
	return runs, nil
}
