package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDataset(); err != nil {
		return err
	}
	if err := c.validateProbe(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDataset() error {
	names := map[string]string{
		"dataset.replacement_pool": c.Dataset.ReplacementPool,
		"dataset.annotations_dir":  c.Dataset.AnnotationsDir,
	}
	for _, split := range c.Dataset.Splits {
		names["dataset.splits["+split+"]"] = split
	}
	for key, value := range names {
		if err := validateDirName(key, value); err != nil {
			return err
		}
	}
	for _, split := range c.Dataset.Splits {
		if split == c.Dataset.ReplacementPool {
			return fmt.Errorf("dataset.splits must not include the replacement pool %q", split)
		}
		if split == c.Dataset.AnnotationsDir {
			return fmt.Errorf("dataset.splits must not include the annotations directory %q", split)
		}
	}
	if strings.ContainsAny(c.Dataset.CleanedSuffix, `/\`) {
		return errors.New("dataset.cleaned_suffix must not contain path separators")
	}
	if c.Dataset.KeyColumn == c.Dataset.LabelColumn {
		return errors.New("dataset.key_column and dataset.label_column must differ")
	}
	return nil
}

func (c *Config) validateProbe() error {
	if err := ensurePositiveMap(map[string]int{
		"probe.frame_count":         c.Probe.FrameCount,
		"probe.concurrency":         c.Probe.Concurrency,
		"subsample.dataset_classes": c.Subsample.DatasetClasses,
	}); err != nil {
		return err
	}
	if c.Probe.Concurrency > 256 {
		return errors.New("probe.concurrency must be <= 256")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func validateDirName(key, value string) error {
	if value == "" {
		return fmt.Errorf("%s must be set", key)
	}
	if value == "." || value == ".." || filepath.Base(value) != value {
		return fmt.Errorf("%s must be a single directory name, got %q", key, value)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
