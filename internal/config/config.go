package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Dataset describes the on-disk layout of the dataset being curated.
type Dataset struct {
	Root            string   `toml:"root"`
	Splits          []string `toml:"splits"`
	ReplacementPool string   `toml:"replacement_pool"`
	AnnotationsDir  string   `toml:"annotations_dir"`
	MediaExtension  string   `toml:"media_extension"`
	// IDLength is the number of leading filename characters forming the canonical ID.
	IDLength      int    `toml:"id_length"`
	KeyColumn     string `toml:"key_column"`
	LabelColumn   string `toml:"label_column"`
	CleanedSuffix string `toml:"cleaned_suffix"`
}

// Probe contains corruption probe tuning.
type Probe struct {
	FFprobeBinary  string `toml:"ffprobe_binary"`
	FrameCount     int    `toml:"frame_count"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Concurrency    int    `toml:"concurrency"`
}

// Subsample contains stratified subsampling settings.
type Subsample struct {
	// DatasetClasses bounds the class-index space used to fill the remainder.
	DatasetClasses int `toml:"dataset_classes"`
	// Seed fixes the random source; 0 seeds from the clock.
	Seed int64 `toml:"seed"`
}

// Cleanup contains pre-run hygiene settings.
type Cleanup struct {
	PurgeHidden bool `toml:"purge_hidden"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for clipkeeper.
//
// Configuration sections by subsystem:
//   - Dataset: root, split names, pool and annotation locations, ID length
//   - Probe: ffprobe binary, frames decoded per file, timeout, worker count
//   - Subsample: class-index bound and random seed
//   - Cleanup: hidden artifact purge before reconciliation
//   - Logging: log format, level, and optional file sink
type Config struct {
	Dataset   Dataset   `toml:"dataset"`
	Probe     Probe     `toml:"probe"`
	Subsample Subsample `toml:"subsample"`
	Cleanup   Cleanup   `toml:"cleanup"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(defaultProjectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// WithRoot returns a copy of the config whose dataset root is overridden.
// An empty root leaves the configured value in place.
func (c *Config) WithRoot(root string) (*Config, error) {
	clone := *c
	clone.Dataset.Splits = append([]string(nil), c.Dataset.Splits...)
	root = strings.TrimSpace(root)
	if root == "" {
		return &clone, nil
	}
	expanded, err := expandPath(root)
	if err != nil {
		return nil, fmt.Errorf("dataset root: %w", err)
	}
	clone.Dataset.Root = expanded
	return &clone, nil
}

// RequireRoot reports an error when no dataset root is configured.
func (c *Config) RequireRoot() error {
	if strings.TrimSpace(c.Dataset.Root) == "" {
		return errors.New("dataset root is required: pass it as an argument, set dataset.root, or export CLIPKEEPER_ROOT")
	}
	return nil
}

// ProbeTimeout returns the per-file decode bound.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Probe.TimeoutSeconds) * time.Second
}

// FFprobeBinary returns the ffprobe executable used for corruption probing.
func (c *Config) FFprobeBinary() string {
	return c.Probe.FFprobeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
