package reconcile

import "strings"

// Phase selects which steps of a run execute.
type Phase uint8

const (
	PhaseRename Phase = 1 << iota
	PhaseMerge
	PhaseCheck

	PhaseAll = PhaseRename | PhaseMerge | PhaseCheck
)

// Has reports whether every bit of other is set.
func (p Phase) Has(other Phase) bool {
	return p&other == other && other != 0
}

func (p Phase) String() string {
	if p == 0 {
		return "none"
	}
	var names []string
	if p.Has(PhaseRename) {
		names = append(names, "rename")
	}
	if p.Has(PhaseMerge) {
		names = append(names, "merge")
	}
	if p.Has(PhaseCheck) {
		names = append(names, "check")
	}
	return strings.Join(names, "+")
}

// MarshalText renders the phase set for JSON reports.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
