package config

const (
	defaultReplacementPool   = "replacement"
	defaultAnnotationsDir    = "annotations"
	defaultMediaExtension    = ".mp4"
	defaultIDLength          = 11
	defaultKeyColumn         = "youtube_id"
	defaultLabelColumn       = "label"
	defaultCleanedSuffix     = "_cleaned"
	defaultFFprobeBinary     = "ffprobe"
	defaultProbeFrameCount   = 3
	defaultProbeTimeout      = 30
	defaultProbeConcurrency  = 4
	defaultDatasetClasses    = 400
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultConfigPath        = "~/.config/clipkeeper/config.toml"
	defaultProjectConfigName = "clipkeeper.toml"
)

func defaultSplits() []string {
	return []string{"train", "test", "val"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Dataset: Dataset{
			Splits:          defaultSplits(),
			ReplacementPool: defaultReplacementPool,
			AnnotationsDir:  defaultAnnotationsDir,
			MediaExtension:  defaultMediaExtension,
			IDLength:        defaultIDLength,
			KeyColumn:       defaultKeyColumn,
			LabelColumn:     defaultLabelColumn,
			CleanedSuffix:   defaultCleanedSuffix,
		},
		Probe: Probe{
			FFprobeBinary:  defaultFFprobeBinary,
			FrameCount:     defaultProbeFrameCount,
			TimeoutSeconds: defaultProbeTimeout,
			Concurrency:    defaultProbeConcurrency,
		},
		Subsample: Subsample{
			DatasetClasses: defaultDatasetClasses,
		},
		Cleanup: Cleanup{
			PurgeHidden: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
