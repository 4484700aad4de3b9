package logging

import "strings"

// ProgressSampler suppresses repetitive progress logs while preserving signal
// when the split changes or the percentage crosses a bucket boundary.
type ProgressSampler struct {
	bucketSize float64
	lastSplit  string
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits when the percent crosses
// bucket boundaries (default 10%) or when the split changes.
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress event for done of total items should
// be logged.
func (s *ProgressSampler) ShouldLog(split string, done, total int) bool {
	if s == nil {
		return true
	}
	split = strings.TrimSpace(split)
	emit := false
	if split != s.lastSplit {
		s.lastSplit = split
		s.lastBucket = -1
		emit = true
	}
	if total <= 0 {
		return emit
	}
	percent := float64(done) * 100 / float64(total)
	bucket := int(percent / s.bucketSize)
	if percent >= 100 {
		bucket = int(100 / s.bucketSize)
	}
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		emit = true
	}
	return emit
}
