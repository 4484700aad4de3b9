package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeDataset(); err != nil {
		return err
	}
	c.normalizeProbe()
	c.normalizeSubsample()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeDataset() error {
	var err error
	c.Dataset.Root = strings.TrimSpace(c.Dataset.Root)
	if c.Dataset.Root == "" {
		if value, ok := os.LookupEnv("CLIPKEEPER_ROOT"); ok {
			c.Dataset.Root = strings.TrimSpace(value)
		}
	}
	if c.Dataset.Root, err = expandPath(c.Dataset.Root); err != nil {
		return fmt.Errorf("dataset.root: %w", err)
	}

	splits := make([]string, 0, len(c.Dataset.Splits))
	seen := make(map[string]struct{}, len(c.Dataset.Splits))
	for _, split := range c.Dataset.Splits {
		normalized := strings.TrimSpace(split)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		splits = append(splits, normalized)
	}
	if len(splits) == 0 {
		splits = defaultSplits()
	}
	c.Dataset.Splits = splits

	c.Dataset.ReplacementPool = strings.TrimSpace(c.Dataset.ReplacementPool)
	if c.Dataset.ReplacementPool == "" {
		c.Dataset.ReplacementPool = defaultReplacementPool
	}
	c.Dataset.AnnotationsDir = strings.TrimSpace(c.Dataset.AnnotationsDir)
	if c.Dataset.AnnotationsDir == "" {
		c.Dataset.AnnotationsDir = defaultAnnotationsDir
	}
	c.Dataset.MediaExtension = strings.TrimSpace(c.Dataset.MediaExtension)
	if c.Dataset.MediaExtension == "" {
		c.Dataset.MediaExtension = defaultMediaExtension
	}
	if !strings.HasPrefix(c.Dataset.MediaExtension, ".") {
		c.Dataset.MediaExtension = "." + c.Dataset.MediaExtension
	}
	if c.Dataset.IDLength <= 0 {
		c.Dataset.IDLength = defaultIDLength
	}
	c.Dataset.KeyColumn = strings.TrimSpace(c.Dataset.KeyColumn)
	if c.Dataset.KeyColumn == "" {
		c.Dataset.KeyColumn = defaultKeyColumn
	}
	c.Dataset.LabelColumn = strings.TrimSpace(c.Dataset.LabelColumn)
	if c.Dataset.LabelColumn == "" {
		c.Dataset.LabelColumn = defaultLabelColumn
	}
	if strings.TrimSpace(c.Dataset.CleanedSuffix) == "" {
		c.Dataset.CleanedSuffix = defaultCleanedSuffix
	}
	return nil
}

func (c *Config) normalizeProbe() {
	c.Probe.FFprobeBinary = strings.TrimSpace(c.Probe.FFprobeBinary)
	if c.Probe.FFprobeBinary == "" {
		c.Probe.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Probe.FrameCount <= 0 {
		c.Probe.FrameCount = defaultProbeFrameCount
	}
	if c.Probe.TimeoutSeconds < 0 {
		c.Probe.TimeoutSeconds = 0
	}
	if c.Probe.Concurrency <= 0 {
		c.Probe.Concurrency = defaultProbeConcurrency
	}
}

func (c *Config) normalizeSubsample() {
	if c.Subsample.DatasetClasses <= 0 {
		c.Subsample.DatasetClasses = defaultDatasetClasses
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		var err error
		if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}
