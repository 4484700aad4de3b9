package subsample

import (
	"fmt"
	"math/rand/v2"
	"time"

	"clipkeeper/internal/annotations"
)

// DefaultClasses is the class space of the Kinetics-400 label set.
const DefaultClasses = 400

// Sampler draws stratified subsets.
type Sampler struct {
	// Classes bounds the class-index space used by the remainder fill.
	Classes int
	Rand    *rand.Rand
}

// New returns a Sampler. A zero seed seeds from the clock.
func New(classes int, seed int64) *Sampler {
	if classes <= 0 {
		classes = DefaultClasses
	}
	s := uint64(seed)
	if seed == 0 {
		s = uint64(time.Now().UnixNano())
	}
	return &Sampler{Classes: classes, Rand: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

// ClassGroup is the set of rows sharing one label.
type ClassGroup struct {
	Label string `json:"label"`
	Rows  []int  `json:"-"`
	Size  int    `json:"size"`
	Take  int    `json:"take"`
}

// Plan is the deterministic structure of a sampling request: which classes
// exist, in first-seen order, and how many rows each contributes before the
// remainder fill.
type Plan struct {
	Requested int          `json:"requested"`
	Quota     int          `json:"quota"`
	Groups    []ClassGroup `json:"groups"`
	Remainder int          `json:"remainder"`
	Bound     int          `json:"bound"`
}

// Result summarizes a completed draw.
type Result struct {
	Requested int `json:"requested"`
	Quota     int `json:"quota"`
	Classes   int `json:"classes"`
	Remainder int `json:"remainder"`
	Filled    int `json:"filled"`
	Selected  int `json:"selected"`
}

// Plan validates the request and computes per-class caps. It never draws.
func (s *Sampler) Plan(table annotations.Table, labelColumn string, n int) (Plan, error) {
	if n <= 0 {
		return Plan{}, fmt.Errorf("%w: got %d", ErrInvalidSampleCount, n)
	}
	labels, err := table.Values(labelColumn)
	if err != nil {
		return Plan{}, err
	}
	if len(labels) == 0 {
		return Plan{}, ErrNoClasses
	}
	if n > len(labels) {
		return Plan{}, fmt.Errorf("%w: requested %d, table has %d", ErrSampleCountExceedsRows, n, len(labels))
	}

	var groups []ClassGroup
	position := make(map[string]int)
	for row, label := range labels {
		idx, ok := position[label]
		if !ok {
			idx = len(groups)
			position[label] = idx
			groups = append(groups, ClassGroup{Label: label})
		}
		groups[idx].Rows = append(groups[idx].Rows, row)
	}

	plan := Plan{
		Requested: n,
		Quota:     n / len(groups),
		Groups:    groups,
		Remainder: n,
		Bound:     s.bound(),
	}
	for i := range plan.Groups {
		g := &plan.Groups[i]
		g.Size = len(g.Rows)
		g.Take = min(g.Size, plan.Quota)
		plan.Remainder -= g.Take
	}
	if plan.Remainder > plan.Bound {
		return Plan{}, &ClassBoundExceededError{Remainder: plan.Remainder, Bound: plan.Bound}
	}
	return plan, nil
}

// Sample draws n rows from table balanced across labelColumn. The returned
// table keeps the input header; rows appear in the order they were drawn.
func (s *Sampler) Sample(table annotations.Table, labelColumn string, n int) (annotations.Table, Result, error) {
	plan, err := s.Plan(table, labelColumn, n)
	if err != nil {
		return annotations.Table{}, Result{}, err
	}
	rng := s.rng()

	selected := make([]int, 0, n)
	chosen := make(map[int]struct{}, n)
	take := func(row int) {
		selected = append(selected, row)
		chosen[row] = struct{}{}
	}

	for _, g := range plan.Groups {
		if g.Size <= plan.Quota {
			for _, row := range g.Rows {
				take(row)
			}
			continue
		}
		for _, i := range rng.Perm(g.Size)[:g.Take] {
			take(g.Rows[i])
		}
	}

	filled := 0
	if plan.Remainder > 0 {
		for _, classIdx := range rng.Perm(plan.Bound)[:plan.Remainder] {
			if classIdx >= len(plan.Groups) {
				continue
			}
			var open []int
			for _, row := range plan.Groups[classIdx].Rows {
				if _, ok := chosen[row]; !ok {
					open = append(open, row)
				}
			}
			if len(open) == 0 {
				continue
			}
			take(open[rng.IntN(len(open))])
			filled++
		}
	}

	subset, err := table.Subset(selected)
	if err != nil {
		return annotations.Table{}, Result{}, err
	}
	return subset, Result{
		Requested: n,
		Quota:     plan.Quota,
		Classes:   len(plan.Groups),
		Remainder: plan.Remainder,
		Filled:    filled,
		Selected:  len(selected),
	}, nil
}

func (s *Sampler) bound() int {
	if s == nil || s.Classes <= 0 {
		return DefaultClasses
	}
	return s.Classes
}

func (s *Sampler) rng() *rand.Rand {
	if s.Rand == nil {
		s.Rand = New(s.bound(), 0).Rand
	}
	return s.Rand
}
