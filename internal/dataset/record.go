package dataset

import "clipkeeper/internal/probe"

// MediaRecord is the transient view of one clip within a split.
type MediaRecord struct {
	CanonicalID string      `json:"canonical_id"`
	Split       string      `json:"split"`
	Path        string      `json:"path"`
	State       probe.State `json:"state"`
}
