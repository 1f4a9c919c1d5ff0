package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Project represents the questlang.yaml configuration.
type Project struct {
	// LibraryRoot is the directory imports are resolved against. Relative
	// paths are taken relative to the directory holding questlang.yaml.
	LibraryRoot string `yaml:"library_root,omitempty"`

	// ScenarioDir is scanned for scenario builder definitions. Relative to
	// LibraryRoot.
	ScenarioDir string `yaml:"scenario_dir,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// Color is one of auto, always, never.
	Color string `yaml:"color,omitempty"`

	// Catalog is the SQLite file used by the index command.
	Catalog string `yaml:"catalog,omitempty"`

	// Seed fixes the scenario builder random source when non-zero.
	Seed uint64 `yaml:"seed,omitempty"`

	dir string
}

// DefaultProject returns the configuration used when no questlang.yaml exists.
func DefaultProject(dir string) *Project {
	p := &Project{dir: dir}
	p.setDefaults()
	return p
}

// LoadProject reads and parses a questlang.yaml file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseProject(data, path)
}

// ParseProject parses questlang.yaml content from bytes.
// The path argument is used for error messages and relative directories.
func ParseProject(data []byte, path string) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	p.dir = filepath.Dir(path)
	if err := p.validate(path); err != nil {
		return nil, err
	}
	p.setDefaults()
	return &p, nil
}

// FindProject searches for questlang.yaml starting from dir and walking up
// to parent directories. Returns an empty path when none is found.
func FindProject(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (p *Project) validate(path string) error {
	switch strings.ToLower(p.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s: unknown log_level %q", path, p.LogLevel)
	}
	switch p.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("%s: unknown color setting %q", path, p.Color)
	}
	if filepath.IsAbs(p.ScenarioDir) {
		return fmt.Errorf("%s: scenario_dir must be relative to library_root", path)
	}
	return nil
}

func (p *Project) setDefaults() {
	if p.LibraryRoot == "" {
		p.LibraryRoot = DefaultLibraryDir
	}
	if p.ScenarioDir == "" {
		p.ScenarioDir = DefaultScenarioDir
	}
	if p.LogLevel == "" {
		p.LogLevel = DefaultLogLevel
	}
	if p.Color == "" {
		p.Color = DefaultColorSetting
	}
	if p.Catalog == "" {
		p.Catalog = DefaultCatalogPath
	}
}

// LibraryPath returns the absolute library root.
func (p *Project) LibraryPath() string {
	return p.resolve(p.LibraryRoot)
}

// ScenarioPath returns the absolute scenario directory.
func (p *Project) ScenarioPath() string {
	return filepath.Join(p.LibraryPath(), p.ScenarioDir)
}

// CatalogPath returns the absolute catalog database path.
func (p *Project) CatalogPath() string {
	return p.resolve(p.Catalog)
}

func (p *Project) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	abs, err := filepath.Abs(filepath.Join(p.dir, path))
	if err != nil {
		return filepath.Join(p.dir, path)
	}
	return abs
}

// SlogLevel maps LogLevel onto a slog level.
func (p *Project) SlogLevel() slog.Level {
	switch strings.ToLower(p.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
