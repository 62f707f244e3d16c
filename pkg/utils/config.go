package utils

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/oxygene76/univers-client/pkg/analysis"
	"github.com/oxygene76/univers-client/pkg/physics"
)

const (
	Codespace = "config"

	configDirName  = ".univers"
	configFileName = "config.yaml"
	envPrefix      = "UNIVERS"
)

var ErrInvalidConfig = errorsmod.Register(Codespace, 2, "invalid configuration")

// Config represents the client configuration
type Config struct {
	Display    DisplayConfig    `yaml:"display" mapstructure:"display"`
	Experiment ExperimentConfig `yaml:"experiment" mapstructure:"experiment"`
	Solver     SolverConfig     `yaml:"solver" mapstructure:"solver"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
}

// DisplayConfig controls how results are rendered
type DisplayConfig struct {
	Lang   string `yaml:"lang" mapstructure:"lang"`
	Output string `yaml:"output" mapstructure:"output"`
}

// ExperimentConfig holds the defaults of the dilation experiment
type ExperimentConfig struct {
	ReferenceSeconds float64 `yaml:"reference_seconds" mapstructure:"reference_seconds"`
	ProfilePoints    int     `yaml:"profile_points" mapstructure:"profile_points"`
	ProfileRadii     float64 `yaml:"profile_radii" mapstructure:"profile_radii"`
}

// SolverConfig caps the bisection used by the inversions
type SolverConfig struct {
	OuterIterations int     `yaml:"outer_iterations" mapstructure:"outer_iterations"`
	InnerIterations int     `yaml:"inner_iterations" mapstructure:"inner_iterations"`
	Tolerance       float64 `yaml:"tolerance" mapstructure:"tolerance"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Addr          string        `yaml:"addr" mapstructure:"addr"`
	CORSOrigins   []string      `yaml:"cors_origins" mapstructure:"cors_origins"`
	SolveRate     int           `yaml:"solve_rate" mapstructure:"solve_rate"`
	SolveWindow   time.Duration `yaml:"solve_window" mapstructure:"solve_window"`
	RecordHistory bool          `yaml:"record_history" mapstructure:"record_history"`

	// TrustedProxies lists reverse proxy addresses or CIDRs whose
	// X-Forwarded-For header is believed by the rate limiter.
	TrustedProxies []string `yaml:"trusted_proxies" mapstructure:"trusted_proxies"`
}

// StoreConfig locates the SQLite database
type StoreConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// ConfigDir returns ~/.univers.
func ConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return configDirName
	}
	return filepath.Join(homeDir, configDirName)
}

// GetConfigPath returns the path to the default config file
func GetConfigPath() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Lang:   string(physics.LangFR),
			Output: "text",
		},
		Experiment: ExperimentConfig{
			ReferenceSeconds: physics.Day,
			ProfilePoints:    physics.DefaultProfilePoints,
			ProfileRadii:     physics.DefaultProfileRadii,
		},
		Solver: SolverConfig{
			OuterIterations: physics.DefaultOuterIterations,
			InnerIterations: physics.DefaultInnerIterations,
			Tolerance:       physics.DefaultTolerance,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
			CORSOrigins: []string{
				"http://localhost:5173",
				"http://localhost:4173",
				"https://univers.run",
			},
			SolveRate:      60,
			SolveWindow:    time.Minute,
			RecordHistory:  true,
			TrustedProxies: []string{"127.0.0.1", "::1"},
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    filepath.Join(ConfigDir(), "univers.db"),
		},
	}
}

// NewViper returns a viper instance seeded with the defaults, reading
// configFile if set and otherwise searching ~/.univers and the working directory.
// Every key can be overridden with UNIVERS_<SECTION>_<KEY>.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("display.lang", d.Display.Lang)
	v.SetDefault("display.output", d.Display.Output)
	v.SetDefault("experiment.reference_seconds", d.Experiment.ReferenceSeconds)
	v.SetDefault("experiment.profile_points", d.Experiment.ProfilePoints)
	v.SetDefault("experiment.profile_radii", d.Experiment.ProfileRadii)
	v.SetDefault("solver.outer_iterations", d.Solver.OuterIterations)
	v.SetDefault("solver.inner_iterations", d.Solver.InnerIterations)
	v.SetDefault("solver.tolerance", d.Solver.Tolerance)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.solve_rate", d.Server.SolveRate)
	v.SetDefault("server.solve_window", d.Server.SolveWindow)
	v.SetDefault("server.record_history", d.Server.RecordHistory)
	v.SetDefault("server.trusted_proxies", d.Server.TrustedProxies)
	v.SetDefault("store.enabled", d.Store.Enabled)
	v.SetDefault("store.path", d.Store.Path)

	return v
}

// LoadConfig reads the configuration. A missing file is not an error: the
// defaults (plus environment overrides) are returned.
func LoadConfig(configFile string) (*Config, *viper.Viper, error) {
	v := NewViper(configFile)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(configFile != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config, err := Decode(v)
	if err != nil {
		return nil, nil, err
	}
	return config, v, nil
}

// Decode unmarshals and validates the current viper state.
func Decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes the configuration as YAML to path, or to the default
// location when path is empty.
func SaveConfig(config *Config, path string) (string, error) {
	if err := validateConfig(config); err != nil {
		return "", err
	}
	if path == "" {
		path = GetConfigPath()
	}

	// Create config directory
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create necessary directories
	if err := createDirectories(config); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// WatchConfig calls onChange with the new configuration whenever the file
// is rewritten. Invalid edits are logged and ignored.
func WatchConfig(v *viper.Viper, logger *zap.Logger, onChange func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		config, err := Decode(v)
		if err != nil {
			logger.Warn("ignoring invalid config change", zap.String("file", e.Name), zap.Error(err))
			return
		}
		logger.Info("configuration reloaded", zap.String("file", e.Name))
		onChange(config)
	})
	v.WatchConfig()
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	switch strings.ToLower(config.Display.Lang) {
	case string(physics.LangFR), string(physics.LangEN):
	default:
		return ErrInvalidConfig.Wrapf("display.lang %q (use: fr, en)", config.Display.Lang)
	}

	switch config.Display.Output {
	case "text", "json":
	default:
		return ErrInvalidConfig.Wrapf("display.output %q (use: text, json)", config.Display.Output)
	}

	if config.Experiment.ReferenceSeconds <= 0 {
		return ErrInvalidConfig.Wrap("experiment.reference_seconds must be positive")
	}
	if config.Experiment.ProfilePoints <= 0 {
		return ErrInvalidConfig.Wrap("experiment.profile_points must be positive")
	}
	if config.Experiment.ProfileRadii <= 0 {
		return ErrInvalidConfig.Wrap("experiment.profile_radii must be positive")
	}

	if config.Solver.OuterIterations <= 0 || config.Solver.InnerIterations <= 0 {
		return ErrInvalidConfig.Wrap("solver iteration caps must be positive")
	}
	if config.Solver.Tolerance <= 0 {
		return ErrInvalidConfig.Wrap("solver.tolerance must be positive")
	}

	if config.Server.Addr == "" {
		return ErrInvalidConfig.Wrap("server.addr cannot be empty")
	}
	if config.Server.SolveRate < 0 {
		return ErrInvalidConfig.Wrap("server.solve_rate cannot be negative")
	}
	for _, proxy := range config.Server.TrustedProxies {
		if _, err := netip.ParsePrefix(proxy); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(proxy); err != nil {
			return ErrInvalidConfig.Wrapf("server.trusted_proxies: %q is neither an address nor a CIDR", proxy)
		}
	}

	if config.Store.Enabled && config.Store.Path == "" {
		return ErrInvalidConfig.Wrap("store.path must be set when the store is enabled")
	}

	return nil
}

// createDirectories creates necessary directories based on config
func createDirectories(config *Config) error {
	if !config.Store.Enabled {
		return nil
	}
	dir := filepath.Dir(config.Store.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// Lang returns the configured output language.
func (c *Config) Lang() physics.Lang {
	return physics.ParseLang(c.Display.Lang)
}

// NewSolver returns a solver with the configured caps.
func (c *Config) NewSolver() *physics.Solver {
	return &physics.Solver{
		OuterIterations: c.Solver.OuterIterations,
		InnerIterations: c.Solver.InnerIterations,
		Tolerance:       c.Solver.Tolerance,
	}
}

// AnalysisOptions maps the experiment section to analysis defaults.
func (c *Config) AnalysisOptions() analysis.Options {
	return analysis.Options{
		Lang:          c.Lang(),
		Reference:     c.Experiment.ReferenceSeconds,
		ProfilePoints: c.Experiment.ProfilePoints,
		ProfileRadii:  c.Experiment.ProfileRadii,
		Solver:        c.NewSolver(),
	}
}
