package subsample

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"clipkeeper/internal/annotations"
)

func buildTable(counts ...any) annotations.Table {
	table := annotations.Table{Header: []string{"label", "youtube_id", "time_start"}}
	for i := 0; i < len(counts); i += 2 {
		label := counts[i].(string)
		for j := 0; j < counts[i+1].(int); j++ {
			id := fmt.Sprintf("%s%010d", label, j)
			table.Rows = append(table.Rows, []string{label, id, fmt.Sprint(j)})
		}
	}
	return table
}

func countLabels(t annotations.Table) map[string]int {
	counts := map[string]int{}
	for _, row := range t.Rows {
		counts[row[0]]++
	}
	return counts
}

func TestSampleBalancedAcrossClasses(t *testing.T) {
	table := buildTable("A", 10, "B", 2, "C", 2)
	sampler := New(400, 7)

	out, result, err := sampler.Sample(table, "label", 6)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	want := Result{Requested: 6, Quota: 2, Classes: 3, Remainder: 0, Filled: 0, Selected: 6}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Fatalf("result (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]int{"A": 2, "B": 2, "C": 2}, countLabels(out)); diff != "" {
		t.Fatalf("per-class counts (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(table.Header, out.Header); diff != "" {
		t.Fatalf("header changed (-want +got):\n%s", diff)
	}
}

func TestSampleRejectsRequestsBeforeDrawing(t *testing.T) {
	table := buildTable("A", 3, "B", 2)
	cases := []struct {
		name   string
		n      int
		column string
		check  func(error) bool
	}{
		{"exceeds rows", 6, "label", func(err error) bool { return errors.Is(err, ErrSampleCountExceedsRows) }},
		{"zero", 0, "label", func(err error) bool { return errors.Is(err, ErrInvalidSampleCount) }},
		{"negative", -1, "label", func(err error) bool { return errors.Is(err, ErrInvalidSampleCount) }},
		{"missing column", 2, "class", func(err error) bool {
			var schemaErr *annotations.SchemaError
			return errors.As(err, &schemaErr)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pcg := rand.NewPCG(1, 2)
			sampler := &Sampler{Classes: 400, Rand: rand.New(pcg)}
			before, _ := pcg.MarshalBinary()
			out, _, err := sampler.Sample(table, tc.column, tc.n)
			if err == nil || !tc.check(err) {
				t.Fatalf("unexpected error %v", err)
			}
			if out.Len() != 0 || out.Header != nil {
				t.Fatalf("expected no output, got %+v", out)
			}
			if after, _ := pcg.MarshalBinary(); string(after) != string(before) {
				t.Fatal("random source consumed by a rejected request")
			}
		})
	}
}

func TestSampleEmptyTable(t *testing.T) {
	table := annotations.Table{Header: []string{"label"}}
	if _, _, err := New(400, 1).Sample(table, "label", 1); !errors.Is(err, ErrNoClasses) {
		t.Fatalf("expected ErrNoClasses, got %v", err)
	}
}

func TestPlanRejectsRemainderBeyondClassBound(t *testing.T) {
	table := buildTable("A", 1, "B", 1, "C", 10)
	_, err := New(3, 1).Plan(table, "label", 9)

	var boundErr *ClassBoundExceededError
	if !errors.As(err, &boundErr) {
		t.Fatalf("expected ClassBoundExceededError, got %v", err)
	}
	if boundErr.Remainder != 4 || boundErr.Bound != 3 {
		t.Fatalf("unexpected error fields %+v", boundErr)
	}
}

func TestRemainderFillDrawsFromPresentClasses(t *testing.T) {
	table := buildTable("A", 1, "B", 1, "C", 10)
	// Bound equals the remainder, so every class index is drawn exactly once
	// and only C has unselected rows.
	out, result, err := New(4, 3).Sample(table, "label", 9)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if result.Remainder != 4 || result.Filled != 1 || result.Selected != 6 {
		t.Fatalf("unexpected result %+v", result)
	}
	if diff := cmp.Diff(map[string]int{"A": 1, "B": 1, "C": 4}, countLabels(out)); diff != "" {
		t.Fatalf("per-class counts (-want +got):\n%s", diff)
	}
}

func TestPlanStructureIsDeterministic(t *testing.T) {
	table := buildTable("walk", 7, "run", 3, "swim", 1, "climb", 12)
	first, err := New(400, 1).Plan(table, "label", 10)
	if err != nil {
		t.Fatal(err)
	}
	for seed := int64(2); seed < 6; seed++ {
		again, err := New(400, seed).Plan(table, "label", 10)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("plan differs for seed %d (-first +again):\n%s", seed, diff)
		}
	}
	labels := make([]string, 0, len(first.Groups))
	for _, g := range first.Groups {
		labels = append(labels, g.Label)
	}
	if diff := cmp.Diff([]string{"walk", "run", "swim", "climb"}, labels); diff != "" {
		t.Fatalf("class order (-want +got):\n%s", diff)
	}
	if first.Quota != 2 || first.Remainder != 3 {
		t.Fatalf("unexpected quota/remainder %d/%d", first.Quota, first.Remainder)
	}
}

func TestSampleProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	for trial := 0; trial < 200; trial++ {
		var spec []any
		classes := 1 + rng.IntN(6)
		rows := 0
		for c := 0; c < classes; c++ {
			size := 1 + rng.IntN(8)
			rows += size
			spec = append(spec, fmt.Sprintf("c%d", c), size)
		}
		table := buildTable(spec...)
		n := 1 + rng.IntN(rows)
		sampler := New(classes+rng.IntN(4), int64(trial)+1)

		plan, err := sampler.Plan(table, "label", n)
		if err != nil {
			var boundErr *ClassBoundExceededError
			if errors.As(err, &boundErr) {
				continue
			}
			t.Fatalf("trial %d: Plan: %v", trial, err)
		}
		out, result, err := sampler.Sample(table, "label", n)
		if err != nil {
			t.Fatalf("trial %d: Sample: %v", trial, err)
		}
		if out.Len() > n || out.Len() > table.Len() || out.Len() != result.Selected {
			t.Fatalf("trial %d: selected %d rows for n=%d of %d", trial, out.Len(), n, table.Len())
		}
		seen := map[string]bool{}
		for _, row := range out.Rows {
			if seen[row[1]] {
				t.Fatalf("trial %d: row %s drawn twice", trial, row[1])
			}
			seen[row[1]] = true
		}
		counts := countLabels(out)
		for _, g := range plan.Groups {
			if counts[g.Label] > g.Take+result.Filled {
				t.Fatalf("trial %d: class %s drew %d, cap %d plus %d filled", trial, g.Label, counts[g.Label], g.Take, result.Filled)
			}
		}
	}
}
