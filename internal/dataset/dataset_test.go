package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"clipkeeper/internal/clipid"
	"clipkeeper/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testLayout(root string) Layout {
	cfg := config.Default()
	return LayoutFromConfig(&cfg, root)
}

func TestLayoutPaths(t *testing.T) {
	layout := testLayout("/data/kinetics")
	if got := layout.ExpectedPath("train", "aaaaaaaaaaa"); got != "/data/kinetics/train/aaaaaaaaaaa.mp4" {
		t.Fatalf("ExpectedPath = %q", got)
	}
	if got := layout.PoolDir(); got != "/data/kinetics/replacement" {
		t.Fatalf("PoolDir = %q", got)
	}
	if got := layout.AnnotationPath("val"); got != "/data/kinetics/annotations/val.csv" {
		t.Fatalf("AnnotationPath = %q", got)
	}
	if got := layout.CleanedPath("val"); got != "/data/kinetics/annotations/val_cleaned.csv" {
		t.Fatalf("CleanedPath = %q", got)
	}
	if diff := cmp.Diff([]string{"train", "test", "val"}, layout.Splits); diff != "" {
		t.Fatalf("splits mismatch (-want +got):\n%s", diff)
	}
}

func TestScanRecursiveSkipsHiddenAndOtherExtensions(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "train")
	writeFile(t, filepath.Join(dir, "abseiling", "bbbbbbbbbbb2.mp4"), "b")
	writeFile(t, filepath.Join(dir, "aaaaaaaaaaa1.mp4"), "a")
	writeFile(t, filepath.Join(dir, "._aaaaaaaaaaa1.mp4"), "resource fork")
	writeFile(t, filepath.Join(dir, ".cache", "ccccccccccc.mp4"), "c")
	writeFile(t, filepath.Join(dir, "notes.txt"), "n")

	entries, err := Scan(context.Background(), dir, ".mp4", clipid.NewResolver(11))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []Entry{
		{ID: "aaaaaaaaaaa", Path: filepath.Join(dir, "aaaaaaaaaaa1.mp4")},
		{ID: "bbbbbbbbbbb", Path: filepath.Join(dir, "abseiling", "bbbbbbbbbbb2.mp4")},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestScanMissingDirIsEmpty(t *testing.T) {
	entries, err := Scan(context.Background(), filepath.Join(t.TempDir(), "replacement"), ".mp4", clipid.NewResolver(11))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %v", entries)
	}
}

func TestScanHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "aaaaaaaaaaa.mp4"), "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Scan(ctx, dir, ".mp4", clipid.NewResolver(11)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBuildReplacementIndex(t *testing.T) {
	root := t.TempDir()
	layout := testLayout(root)
	writeFile(t, filepath.Join(root, "replacement", "aaaaaaaaaaa.mp4"), "good-a")
	writeFile(t, filepath.Join(root, "replacement", "batch2", "aaaaaaaaaaa_v2.mp4"), "good-a2")
	writeFile(t, filepath.Join(root, "replacement", "ddddddddddd.mp4"), "good-d")

	idx, dups, err := BuildReplacementIndex(context.Background(), layout, clipid.NewResolver(11))
	if err != nil {
		t.Fatalf("BuildReplacementIndex: %v", err)
	}
	if idx.Len() != 2 || idx.Empty() {
		t.Fatalf("unexpected index size %d", idx.Len())
	}
	if diff := cmp.Diff([]string{"aaaaaaaaaaa", "ddddddddddd"}, idx.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	path, ok := idx.Lookup("aaaaaaaaaaa")
	if !ok || path != filepath.Join(root, "replacement", "batch2", "aaaaaaaaaaa_v2.mp4") {
		t.Fatalf("unexpected lookup %q ok=%v", path, ok)
	}
	if len(dups) != 1 || dups[0].Ignored != filepath.Join(root, "replacement", "aaaaaaaaaaa.mp4") {
		t.Fatalf("unexpected duplicates %+v", dups)
	}
}

func TestEmptyReplacementPool(t *testing.T) {
	layout := testLayout(t.TempDir())
	idx, dups, err := BuildReplacementIndex(context.Background(), layout, clipid.NewResolver(11))
	if err != nil {
		t.Fatalf("expected empty pool to be valid, got %v", err)
	}
	if !idx.Empty() || len(dups) != 0 {
		t.Fatalf("expected empty index, got %d ids", idx.Len())
	}
	if _, ok := idx.Lookup("aaaaaaaaaaa"); ok {
		t.Fatal("expected lookup miss on empty index")
	}
}

func TestIndexByID(t *testing.T) {
	index := IndexByID([]Entry{{ID: "a", Path: "/1"}, {ID: "a", Path: "/2"}, {ID: "b", Path: "/3"}})
	if len(index["a"]) != 2 || len(index["b"]) != 1 {
		t.Fatalf("unexpected index %v", index)
	}
}

func TestAcquireLockIsExclusive(t *testing.T) {
	root := t.TempDir()
	first, err := AcquireLock(root)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if first.Path() != filepath.Join(root, LockFileName) {
		t.Fatalf("unexpected lock path %q", first.Path())
	}
	if _, err := AcquireLock(root); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	second, err := AcquireLock(root)
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	_ = second.Release()
}
