package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vec"
)

const (
	DefaultMaxTimeStep   = 0.01
	DefaultNumberOfSteps = 10000
	DefaultWriteStep     = 10
	DefaultDistThreshold = 0.1
	DefaultStepper       = "leapfrog"
	DefaultEstimator     = "separation"
)

var (
	ErrNoBodies     = errors.New("config: no bodies")
	ErrInvalidBody  = errors.New("config: invalid body")
	ErrInvalidParam = errors.New("config: invalid parameter")
	ErrCoincident   = errors.New("config: bodies share a position")
	ErrFormat       = errors.New("config: unsupported file format")
)

type BodyConfig struct {
	Mass float64    `yaml:"mass" toml:"mass"`
	Pos  [2]float64 `yaml:"pos" toml:"pos"`
	Vel  [2]float64 `yaml:"vel" toml:"vel"`
}

type Config struct {
	MaxTimeStep   float64      `yaml:"max_time_step" toml:"max_time_step"`
	NumberOfSteps int          `yaml:"number_of_steps" toml:"number_of_steps"`
	WriteStep     int          `yaml:"write_step" toml:"write_step"`
	DistThreshold float64      `yaml:"dist_threshold" toml:"dist_threshold"`
	G             float64      `yaml:"g" toml:"g"`
	Stepper       string       `yaml:"stepper" toml:"stepper"`
	Estimator     string       `yaml:"estimator" toml:"estimator"`
	Workers       int          `yaml:"workers,omitempty" toml:"workers,omitempty"`
	Bodies        []BodyConfig `yaml:"bodies" toml:"bodies"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxTimeStep:   DefaultMaxTimeStep,
		NumberOfSteps: DefaultNumberOfSteps,
		WriteStep:     DefaultWriteStep,
		DistThreshold: DefaultDistThreshold,
		G:             nbody.DefaultG,
		Stepper:       DefaultStepper,
		Estimator:     DefaultEstimator,
		Workers:       1,
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file over DefaultConfig.
// Unknown keys are rejected. The result is not validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: unknown keys %v", path, undecoded)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, ext)
	}
	return cfg, nil
}

// Save writes cfg as TOML when path ends in .toml and as YAML otherwise.
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
	} else {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		buf.Write(data)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Validate checks every constraint a run relies on. Stepper and estimator
// names are checked when the run is built.
func (c *Config) Validate() error {
	if !(c.MaxTimeStep > 0) || math.IsInf(c.MaxTimeStep, 0) {
		return fmt.Errorf("%w: max_time_step must be positive, got %v", ErrInvalidParam, c.MaxTimeStep)
	}
	if c.NumberOfSteps <= 0 {
		return fmt.Errorf("%w: number_of_steps must be positive, got %d", ErrInvalidParam, c.NumberOfSteps)
	}
	if c.WriteStep <= 0 {
		return fmt.Errorf("%w: write_step must be positive, got %d", ErrInvalidParam, c.WriteStep)
	}
	if !(c.DistThreshold >= 0) || math.IsInf(c.DistThreshold, 0) {
		return fmt.Errorf("%w: dist_threshold must not be negative, got %v", ErrInvalidParam, c.DistThreshold)
	}
	if !finite(c.G) {
		return fmt.Errorf("%w: g must be finite, got %v", ErrInvalidParam, c.G)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidParam, c.Workers)
	}
	if len(c.Bodies) == 0 {
		return ErrNoBodies
	}

	for i, b := range c.Bodies {
		if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
			return fmt.Errorf("%w: body %d mass must be positive, got %v", ErrInvalidBody, i, b.Mass)
		}
		for _, v := range [...]float64{b.Pos[0], b.Pos[1], b.Vel[0], b.Vel[1]} {
			if !finite(v) {
				return fmt.Errorf("%w: body %d has a non-finite component", ErrInvalidBody, i)
			}
		}
		for j := 0; j < i; j++ {
			if c.Bodies[j].Pos == b.Pos {
				return fmt.Errorf("%w: bodies %d and %d at %v", ErrCoincident, j, i, b.Pos)
			}
		}
	}
	return nil
}

func (c *Config) BodySet() []nbody.Body {
	bodies := make([]nbody.Body, len(c.Bodies))
	for i, b := range c.Bodies {
		bodies[i] = nbody.New(b.Mass, vec.New(b.Pos[0], b.Pos[1]), vec.New(b.Vel[0], b.Vel[1]))
	}
	return bodies
}

func (c *Config) SimConfig() sim.Config {
	workers := c.Workers
	if workers == 0 {
		workers = 1
	}
	return sim.Config{
		MaxTimeStep:   c.MaxTimeStep,
		Steps:         c.NumberOfSteps,
		WriteStep:     c.WriteStep,
		DistThreshold: c.DistThreshold,
		G:             c.G,
		Workers:       workers,
		ValidateState: true,
	}
}

// Clone returns a deep copy, so presets can be edited safely.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &cp
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
