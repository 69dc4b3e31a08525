package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravsim/internal/vec"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.G != 0.01 {
		t.Errorf("expected G 0.01, got %v", cfg.G)
	}
	if cfg.MaxTimeStep <= 0 || cfg.NumberOfSteps <= 0 || cfg.WriteStep <= 0 {
		t.Error("defaults should be positive")
	}
	if !errors.Is(cfg.Validate(), ErrNoBodies) {
		t.Error("default config has no bodies and should not validate")
	}
}

const tomlConfig = `
max_time_step = 0.05
number_of_steps = 2000
write_step = 4
dist_threshold = 0.2

[[bodies]]
mass = 1.0
pos = [0.0, 0.0]
vel = [0.0, 0.0]

[[bodies]]
mass = 0.001
pos = [1.0, 0.0]
vel = [0.0, 0.1]
`

func TestLoad_TOML(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.toml", tomlConfig))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.MaxTimeStep != 0.05 || cfg.NumberOfSteps != 2000 || cfg.WriteStep != 4 || cfg.DistThreshold != 0.2 {
		t.Errorf("unexpected parameters: %+v", cfg)
	}
	if cfg.G != 0.01 || cfg.Stepper != "leapfrog" {
		t.Errorf("missing keys should keep defaults, got G=%v stepper=%q", cfg.G, cfg.Stepper)
	}
	if len(cfg.Bodies) != 2 || cfg.Bodies[1].Mass != 0.001 || cfg.Bodies[1].Vel != [2]float64{0, 0.1} {
		t.Errorf("unexpected bodies: %+v", cfg.Bodies)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoad_YAML(t *testing.T) {
	content := `
max_time_step: 0.02
number_of_steps: 100
write_step: 5
dist_threshold: 0.1
g: 1.0
stepper: euler
estimator: closest-approach
bodies:
  - {mass: 2.0, pos: [1, 2], vel: [0, 0.5]}
  - {mass: 1.0, pos: [-1, 2], vel: [0, -0.5]}
`
	cfg, err := Load(writeFile(t, "run.yaml", content))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.G != 1 || cfg.Stepper != "euler" || cfg.Estimator != "closest-approach" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	bodies := cfg.BodySet()
	if len(bodies) != 2 || bodies[0].Pos != vec.New(1, 2) || bodies[1].Vel != vec.New(0, -0.5) {
		t.Errorf("unexpected body set: %+v", bodies)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name, file, content string
	}{
		{"unknown toml key", "a.toml", "max_time_step = 0.1\nspeed_of_light = 3\n"},
		{"unknown yaml key", "a.yaml", "max_time_step: 0.1\nspeed_of_light: 3\n"},
		{"malformed toml", "b.toml", "max_time_step = \n"},
		{"malformed yaml", "b.yml", "bodies: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeFile(t, tt.file, tt.content)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	if _, err := Load(writeFile(t, "c.json", "{}")); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSave(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.toml"} {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset("figure8")
			path := filepath.Join(t.TempDir(), name)

			if err := Save(path, cfg); err != nil {
				t.Fatalf("save failed: %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if loaded.NumberOfSteps != cfg.NumberOfSteps || len(loaded.Bodies) != 3 || loaded.Bodies[2] != cfg.Bodies[2] {
				t.Errorf("saved config differs: %+v", loaded)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config { return GetPreset("binary") }

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero max dt", func(c *Config) { c.MaxTimeStep = 0 }, ErrInvalidParam},
		{"inf max dt", func(c *Config) { c.MaxTimeStep = math.Inf(1) }, ErrInvalidParam},
		{"zero steps", func(c *Config) { c.NumberOfSteps = 0 }, ErrInvalidParam},
		{"negative steps", func(c *Config) { c.NumberOfSteps = -3 }, ErrInvalidParam},
		{"zero write step", func(c *Config) { c.WriteStep = 0 }, ErrInvalidParam},
		{"negative threshold", func(c *Config) { c.DistThreshold = -0.1 }, ErrInvalidParam},
		{"nan g", func(c *Config) { c.G = math.NaN() }, ErrInvalidParam},
		{"negative workers", func(c *Config) { c.Workers = -1 }, ErrInvalidParam},
		{"no bodies", func(c *Config) { c.Bodies = nil }, ErrNoBodies},
		{"zero mass", func(c *Config) { c.Bodies[0].Mass = 0 }, ErrInvalidBody},
		{"negative mass", func(c *Config) { c.Bodies[1].Mass = -1 }, ErrInvalidBody},
		{"nan velocity", func(c *Config) { c.Bodies[1].Vel[0] = math.NaN() }, ErrInvalidBody},
		{"coincident", func(c *Config) { c.Bodies[1].Pos = c.Bodies[0].Pos }, ErrCoincident},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	cfg := base()
	cfg.DistThreshold = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero threshold should be valid, got %v", err)
	}
}

func TestSimConfig(t *testing.T) {
	cfg := GetPreset("sun_planet")
	cfg.Workers = 0

	sc := cfg.SimConfig()
	if sc.MaxTimeStep != cfg.MaxTimeStep || sc.Steps != cfg.NumberOfSteps || sc.WriteStep != cfg.WriteStep {
		t.Errorf("unexpected sim config: %+v", sc)
	}
	if sc.Workers != 1 || !sc.ValidateState {
		t.Errorf("expected one worker and state validation, got %+v", sc)
	}
}
