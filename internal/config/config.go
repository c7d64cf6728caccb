// internal/config/config.go
//
// This package handles configuration and the .switchscan directory structure.
// The simulator creates a .switchscan/ folder in the directory it runs from.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// StateDir is the name of the directory we create in each project
	StateDir = ".switchscan"

	// HomeEnv optionally relocates the .switchscan directory.
	HomeEnv = "SWITCHSCAN_HOME"

	defaultFixture        = "tree.yaml"
	defaultRulesDir       = "rules"
	defaultScanIntervalMS = 1200
	defaultExpandDelayMS  = 250
)

const defaultProjectConfigYAML = `# switchscan configuration
version: 1

# Platform tree the simulator scans, relative to this directory.
fixture: tree.yaml

# Classification rule plugins (*.yaml and *.go), relative to this directory.
rules_dir: rules

scan:
  auto_scan: false
  interval_ms: 1200

text_input:
  # Offer caret, selection and clipboard actions on editable text.
  improved: true

combo_box:
  expand_delay_ms: 250

# Pin the back button location instead of asking the host.
# back_button:
#   override: {x: 0, y: 0, width: 48, height: 48}

# Accept presses from external switch hardware over loopback HTTP.
switch_bridge:
  enabled: false
  host: 127.0.0.1
  port: 8765
  # Presses repeating one of the last N press_id values are not delivered.
  dedupe_window: 256
`

// ScanConfig controls automatic scanning.
type ScanConfig struct {
	AutoScan   bool `yaml:"auto_scan"`
	IntervalMS int  `yaml:"interval_ms"`
}

// TextInputConfig gates the improved text input actions.
type TextInputConfig struct {
	Improved bool `yaml:"improved"`
}

// ComboBoxConfig tunes combo box behavior.
type ComboBoxConfig struct {
	ExpandDelayMS int `yaml:"expand_delay_ms"`
}

// Rect mirrors platform.Rect so this package stays free of domain imports.
type Rect struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BackButtonConfig optionally pins the back button.
type BackButtonConfig struct {
	Override *Rect `yaml:"override,omitempty"`
}

// SwitchBridgeConfig controls the HTTP switch bridge.
type SwitchBridgeConfig struct {
	Enabled      *bool  `yaml:"enabled,omitempty"`
	Host         string `yaml:"host,omitempty"`
	Port         int    `yaml:"port,omitempty"`
	DedupeWindow int    `yaml:"dedupe_window,omitempty"`
}

// ProjectConfig models .switchscan/config.yaml.
type ProjectConfig struct {
	Version      int                `yaml:"version"`
	Fixture      string             `yaml:"fixture"`
	RulesDir     string             `yaml:"rules_dir"`
	Scan         ScanConfig         `yaml:"scan"`
	TextInput    TextInputConfig    `yaml:"text_input"`
	ComboBox     ComboBoxConfig     `yaml:"combo_box"`
	BackButton   BackButtonConfig   `yaml:"back_button"`
	SwitchBridge SwitchBridgeConfig `yaml:"switch_bridge"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory switchscan was started from
	ProjectDir string

	// StateDir is ProjectDir/.switchscan, or $SWITCHSCAN_HOME when set
	StateDir string

	Project ProjectConfig
}

// ResolveStateDir returns the .switchscan directory for projectDir.
func ResolveStateDir(projectDir string) string {
	if home := strings.TrimSpace(os.Getenv(HomeEnv)); home != "" {
		return filepath.Clean(home)
	}
	return filepath.Join(projectDir, StateDir)
}

// InitDir creates the .switchscan directory structure and writes a default
// config and fixture when they are missing.
//
// Structure created:
// .switchscan/
// ├── config.yaml
// ├── tree.yaml     <- platform tree fixture for the simulator
// ├── logs/         <- switchscan.log and navigation.log
// └── rules/        <- classification rule plugins
func InitDir(projectDir string) error {
	stateDir := ResolveStateDir(projectDir)

	dirs := []string{
		filepath.Join(stateDir, "logs"),
		filepath.Join(stateDir, defaultRulesDir),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	if err := ensureFile(filepath.Join(stateDir, "config.yaml"), defaultProjectConfigYAML); err != nil {
		return err
	}
	if err := ensureFile(filepath.Join(stateDir, defaultFixture), defaultFixtureYAML); err != nil {
		return err
	}
	return nil
}

// NewConfig creates a Config populated from the project's config file.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		StateDir:   ResolveStateDir(projectDir),
		Project:    defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.StateDir, "logs")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.StateDir, "config.yaml")
}

// FixturePath returns the absolute path of the platform tree fixture.
func (c *Config) FixturePath() string {
	return resolvePath(c.StateDir, c.Project.Fixture)
}

// RulesDir returns the absolute path of the rule plugin directory.
func (c *Config) RulesDir() string {
	return resolvePath(c.StateDir, c.Project.RulesDir)
}

// ScanInterval returns the auto-scan step.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Project.Scan.IntervalMS) * time.Millisecond
}

// ComboBoxExpandDelay returns the drill-in delay after a combo box expands.
func (c *Config) ComboBoxExpandDelay() time.Duration {
	return time.Duration(c.Project.ComboBox.ExpandDelayMS) * time.Millisecond
}

// SetAutoScan toggles automatic scanning and persists the value.
func (c *Config) SetAutoScan(enabled bool) error {
	c.Project.Scan.AutoScan = enabled
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultProjectConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:   1,
		Fixture:   defaultFixture,
		RulesDir:  defaultRulesDir,
		Scan:      ScanConfig{IntervalMS: defaultScanIntervalMS},
		TextInput: TextInputConfig{Improved: true},
		ComboBox:  ComboBoxConfig{ExpandDelayMS: defaultExpandDelayMS},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Fixture) == "" {
		pc.Fixture = defaultFixture
	}
	if strings.TrimSpace(pc.RulesDir) == "" {
		pc.RulesDir = defaultRulesDir
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Fixture = strings.TrimSpace(pc.Fixture)
	pc.RulesDir = strings.TrimSpace(pc.RulesDir)
	pc.SwitchBridge.Host = strings.TrimSpace(pc.SwitchBridge.Host)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version != 1 {
		return fmt.Errorf("unsupported config version %d", pc.Version)
	}
	if pc.Scan.IntervalMS < 0 {
		return fmt.Errorf("scan.interval_ms must be >= 0")
	}
	if pc.ComboBox.ExpandDelayMS < 0 {
		return fmt.Errorf("combo_box.expand_delay_ms must be >= 0")
	}
	if o := pc.BackButton.Override; o != nil && (o.Width <= 0 || o.Height <= 0) {
		return fmt.Errorf("back_button.override needs a positive width and height")
	}
	if p := pc.SwitchBridge.Port; p < 0 || p > 65535 {
		return fmt.Errorf("switch_bridge.port must be between 0 and 65535")
	}
	if pc.SwitchBridge.DedupeWindow < 0 {
		return fmt.Errorf("switch_bridge.dedupe_window must be >= 0")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureFile(path, contents string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.StateDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure state dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
