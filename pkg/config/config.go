// Package config holds the service configuration, loaded from a YAML file
// over compiled-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"partforge/pkg/rules"
)

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Output     OutputConfig     `yaml:"output"`
	Generation GenerationConfig `yaml:"generation"`
	Limits     LimitsConfig     `yaml:"limits"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// OutputConfig configures artifact placement.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// GenerationConfig configures the orchestrator and offload layer.
// BuildTimeout is a Go duration string such as "90s" or "2m".
type GenerationConfig struct {
	DefaultEngine string `yaml:"default_engine"`
	Workers       int    `yaml:"workers"`
	BuildTimeout  string `yaml:"build_timeout"`
	MeshCells     int    `yaml:"mesh_cells"`
}

// BuildBudget returns the parsed build timeout. Validate has already
// checked the string parses, so a zero duration only appears when the
// timeout is deliberately disabled with "0".
func (g GenerationConfig) BuildBudget() time.Duration {
	d, err := time.ParseDuration(g.BuildTimeout)
	if err != nil {
		return 0
	}
	return d
}

// LimitsConfig mirrors rules.Limits in YAML form.
type LimitsConfig struct {
	MinDimension     float64 `yaml:"min_dimension_mm"`
	MaxDimension     float64 `yaml:"max_dimension_mm"`
	MinHoleDiameter  float64 `yaml:"min_hole_diameter_mm"`
	MinFilletRadius  float64 `yaml:"min_fillet_radius_mm"`
	MinWallThickness float64 `yaml:"min_wall_thickness_mm"`
	MaxFeatures      int     `yaml:"max_features"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	lim := rules.DefaultLimits()
	return Config{
		Server: ServerConfig{Port: 8080},
		Output: OutputConfig{Dir: "output"},
		Generation: GenerationConfig{
			DefaultEngine: "primary",
			Workers:       4,
			BuildTimeout:  "2m",
			MeshCells:     200,
		},
		Limits: LimitsConfig{
			MinDimension:     lim.MinDimension,
			MaxDimension:     lim.MaxDimension,
			MinHoleDiameter:  lim.MinHoleDiameter,
			MinFilletRadius:  lim.MinFilletRadius,
			MinWallThickness: lim.MinWallThickness,
			MaxFeatures:      lim.MaxFeatures,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file is an error; callers
// wanting pure defaults should skip Load.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	if c.Generation.Workers <= 0 {
		return fmt.Errorf("generation.workers must be positive")
	}
	if _, err := time.ParseDuration(c.Generation.BuildTimeout); err != nil {
		return fmt.Errorf("generation.build_timeout: %w", err)
	}
	if c.Limits.MinDimension <= 0 || c.Limits.MaxDimension <= c.Limits.MinDimension {
		return fmt.Errorf("limits: min_dimension_mm must be positive and below max_dimension_mm")
	}
	if c.Limits.MaxFeatures <= 0 {
		return fmt.Errorf("limits.max_features must be positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

// RuleLimits converts the YAML form into the rules engine's Limits.
func (c Config) RuleLimits() rules.Limits {
	return rules.Limits{
		MinDimension:     c.Limits.MinDimension,
		MaxDimension:     c.Limits.MaxDimension,
		MinHoleDiameter:  c.Limits.MinHoleDiameter,
		MinFilletRadius:  c.Limits.MinFilletRadius,
		MinWallThickness: c.Limits.MinWallThickness,
		MaxFeatures:      c.Limits.MaxFeatures,
	}
}
