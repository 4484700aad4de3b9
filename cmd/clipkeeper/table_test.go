package main

import (
	"strings"
	"testing"
)

func TestTableSpecRenderKeepsFooterCase(t *testing.T) {
	spec := tableSpec{
		Headers: []string{"Split", "Pruned"},
		Rows:    [][]string{{"train", "2"}},
		Footer:  []string{"Total", "2"},
		Aligns:  []columnAlignment{alignLeft, alignRight},
	}
	out := spec.render()
	if !strings.Contains(out, "Total") || strings.Contains(out, "TOTAL") {
		t.Fatalf("expected footer label rendered as given:\n%s", out)
	}
	if !strings.Contains(out, "PRUNED") {
		t.Fatalf("expected upper-cased header:\n%s", out)
	}
}

func TestTableSpecRenderPadsShortRows(t *testing.T) {
	spec := tableSpec{
		Headers: []string{"A", "B", "C"},
		Rows:    [][]string{{"x"}},
	}
	out := spec.render()
	if !strings.Contains(out, "x") {
		t.Fatalf("missing row value:\n%s", out)
	}
	if (tableSpec{}).render() != "" {
		t.Fatal("expected empty render without headers")
	}
}
