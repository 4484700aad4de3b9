package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipkeeper/internal/config"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteClip writes a media file named name into dir (a split or the pool)
// under the config's dataset root and returns its path.
func WriteClip(t testing.TB, cfg *config.Config, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(cfg.Dataset.Root, dir, name)
	WriteFile(t, path, content)
	return path
}

// WriteAnnotations writes <split>.csv with the given header and rows.
func WriteAnnotations(t testing.TB, cfg *config.Config, split string, header []string, rows ...[]string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	path := filepath.Join(cfg.Dataset.Root, cfg.Dataset.AnnotationsDir, split+".csv")
	WriteFile(t, path, b.String())
	return path
}

// ReadFile returns the content at path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
