package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"clipkeeper/internal/annotations"
	"clipkeeper/internal/dataset"
	"clipkeeper/internal/testsupport"
)

type reportJSON struct {
	RunID  string `json:"run_id"`
	Phases string `json:"phases"`
	DryRun bool   `json:"dry_run"`
	Splits []struct {
		Split       string         `json:"split"`
		Renamed     int            `json:"renamed"`
		Merged      int            `json:"merged"`
		Probed      int            `json:"probed"`
		Pruned      int            `json:"pruned"`
		States      map[string]int `json:"states"`
		CleanedPath string         `json:"cleaned_path"`
		Error       string         `json:"error"`
	} `json:"splits"`
}

func seedDataset(t *testing.T, env *cliTestEnv) {
	t.Helper()
	testsupport.WriteClip(t, env.cfg, "train", "aaaaaaaaaaa_000000_000010.mp4", "corrupt")
	testsupport.WriteClip(t, env.cfg, "train", "bbbbbbbbbbb.mp4", "ok")
	testsupport.WriteClip(t, env.cfg, "replacement", "aaaaaaaaaaa.mp4", "good")
	testsupport.WriteAnnotations(t, env.cfg, "train", annotationHeader,
		[]string{"dance", "aaaaaaaaaaa", "0", "10"},
		[]string{"surf", "bbbbbbbbbbb", "5", "15"},
		[]string{"cook", "ccccccccccc", "2", "12"},
	)
	testsupport.WriteAnnotations(t, env.cfg, "test", annotationHeader)
	testsupport.WriteAnnotations(t, env.cfg, "val", annotationHeader)
}

func TestReconcileCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	seedDataset(t, env)

	stdout, stderr, err := runCLI(t, []string{"reconcile", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("reconcile failed: %v\nstderr: %s", err, stderr)
	}

	var report reportJSON
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, stdout)
	}
	if report.Phases != "rename+merge+check" || report.RunID == "" {
		t.Fatalf("unexpected report header %+v", report)
	}
	if len(report.Splits) != 3 {
		t.Fatalf("expected 3 splits, got %d", len(report.Splits))
	}
	train := report.Splits[0]
	if train.Split != "train" || train.Renamed != 1 || train.Merged != 1 || train.Probed != 3 || train.Pruned != 1 {
		t.Fatalf("unexpected train report %+v", train)
	}
	if train.States["missing"] != 1 || train.States["healthy"] != 2 {
		t.Fatalf("unexpected states %v", train.States)
	}

	cleaned, err := annotations.Load(filepath.Join(env.root, "annotations", "train_cleaned.csv"))
	if err != nil {
		t.Fatalf("load cleaned table: %v", err)
	}
	want := [][]string{
		{"dance", "aaaaaaaaaaa", "0", "10"},
		{"surf", "bbbbbbbbbbb", "5", "15"},
	}
	if diff := cmp.Diff(want, cleaned.Rows); diff != "" {
		t.Fatalf("cleaned rows (-want +got):\n%s", diff)
	}
	if got := testsupport.ReadFile(t, filepath.Join(env.root, "train", "aaaaaaaaaaa.mp4")); got != "good" {
		t.Fatalf("expected merged clip, got %q", got)
	}
	requireContains(t, stderr, "rows pruned")
}

func TestReconcileCommandDryRunTable(t *testing.T) {
	env := setupCLITestEnv(t)
	seedDataset(t, env)
	original := filepath.Join(env.root, "train", "aaaaaaaaaaa_000000_000010.mp4")

	stdout, _, err := runCLI(t, []string{"reconcile", "--rename", "--merge", "-n"}, env.configPath)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	requireContains(t, stdout, "rename+merge (dry run)")
	requireContains(t, stdout, "Train")
	requireContains(t, stdout, "Total")
	if got := testsupport.ReadFile(t, original); got != "corrupt" {
		t.Fatalf("dry run modified clip: %q", got)
	}
}

func TestReconcileCommandSchemaErrorFailsRun(t *testing.T) {
	env := setupCLITestEnv(t)
	seedDataset(t, env)
	testsupport.WriteAnnotations(t, env.cfg, "val", []string{"label", "clip"}, []string{"dance", "x"})

	stdout, _, err := runCLI(t, []string{"reconcile", "--check", "--json"}, env.configPath)
	var schemaErr *annotations.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected schema error, got %v", err)
	}
	var report reportJSON
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Splits[0].Pruned != 2 || report.Splits[2].Error == "" {
		t.Fatalf("expected train reconciled and val failed, got %+v", report.Splits)
	}
}

func TestReconcileCommandRequiresRoot(t *testing.T) {
	env := setupCLITestEnv(t)
	cfg := *env.cfg
	cfg.Dataset.Root = ""
	writeTestConfig(t, env.configPath, &cfg)

	_, _, err := runCLI(t, []string{"reconcile"}, env.configPath)
	if err == nil {
		t.Fatal("expected error without dataset root")
	}
	requireContains(t, err.Error(), "dataset root is required")
}

func TestReconcileCommandRootArgument(t *testing.T) {
	env := setupCLITestEnv(t)
	other := setupCLITestEnv(t)
	seedDataset(t, other)

	stdout, _, err := runCLI(t, []string{"reconcile", "--check", "--json", other.root}, env.configPath)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	var report reportJSON
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Splits[0].Probed != 3 {
		t.Fatalf("expected positional root to be reconciled, got %+v", report.Splits[0])
	}
}

func TestReconcileCommandRejectsConcurrentRun(t *testing.T) {
	env := setupCLITestEnv(t)
	seedDataset(t, env)

	lock, err := dataset.AcquireLock(env.root)
	if err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, []string{"reconcile"}, env.configPath)
	if !errors.Is(err, dataset.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestReconcileCommandVerboseLogsLockPath(t *testing.T) {
	env := setupCLITestEnv(t)
	seedDataset(t, env)

	_, stderr, err := runCLI(t, []string{"-v", "reconcile", "--merge"}, env.configPath)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	requireContains(t, stderr, "dataset lock acquired")
	requireContains(t, stderr, "lock_path="+filepath.Join(env.root, dataset.LockFileName))
}

func TestReconcileCommandPreflightFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	seedDataset(t, env)
	cfg := *env.cfg
	cfg.Probe.FFprobeBinary = filepath.Join(t.TempDir(), "no-ffprobe")
	writeTestConfig(t, env.configPath, &cfg)

	_, _, err := runCLI(t, []string{"reconcile", "--check"}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	requireContains(t, err.Error(), "FFprobe")

	// Rename and merge do not decode anything.
	if _, _, err := runCLI(t, []string{"reconcile", "--merge"}, env.configPath); err != nil {
		t.Fatalf("merge without ffprobe: %v", err)
	}
}
