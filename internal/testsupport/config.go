// Package testsupport builds throwaway dataset roots and configs for tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"clipkeeper/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose dataset root is a fresh temp directory
// containing every split, the replacement pool, and the annotations dir.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Dataset.Root = filepath.Join(base, "dataset")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}

	dirs := append([]string{cfgVal.Dataset.ReplacementPool, cfgVal.Dataset.AnnotationsDir}, cfgVal.Dataset.Splits...)
	for _, dir := range dirs {
		if err := os.MkdirAll(filepath.Join(cfgVal.Dataset.Root, dir), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return builder.cfg
}

// WithSplits overrides the configured split names.
func WithSplits(splits ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dataset.Splits = append([]string(nil), splits...)
	}
}

// WithStubbedFFprobe writes a fake ffprobe and points the config at it. The
// stub classifies clips by content: a file containing "corrupt" fails to
// decode, one containing "empty" yields zero frames, anything else decodes.
func WithStubbedFFprobe() ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "ffprobe")
		if err := os.WriteFile(target, []byte(ffprobeStub), 0o755); err != nil {
			b.t.Fatalf("write ffprobe stub: %v", err)
		}
		b.cfg.Probe.FFprobeBinary = target
	}
}

// WithStubbedBinaries writes no-op executables for the provided names and
// prepends them to PATH for the duration of the test.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "path-bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		for _, name := range names {
			if err := os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

const ffprobeStub = `#!/bin/sh
for last; do :; done
case "$*" in
*-version*)
  echo "ffprobe version stub"
  ;;
*-count_frames*)
  if grep -q corrupt "$last"; then
    echo "[mov,mp4] moov atom not found" >&2
    exit 1
  fi
  if grep -q empty "$last"; then
    echo '{"streams":[{"nb_read_frames":"0"}]}'
    exit 0
  fi
  echo '{"streams":[{"nb_read_frames":"3"}]}'
  ;;
*)
  echo '{"streams":[{"index":0,"codec_name":"h264","codec_type":"video","width":340,"height":256,"duration":"10.0"}],"format":{"filename":"clip","nb_streams":1,"duration":"10.0","size":"2048","format_name":"mov,mp4,m4a"}}'
  ;;
esac
`
