// Package stats maintains the per-source, per-status-code rate hierarchy
// behind the dashboard. A GroupMap holds one GroupStats per source, each
// holding one StatusStats per status bucket, plus the global sorted set of
// every bucket ever seen (needed to align columns across groups).
//
// Everything here is owned by the single consumer goroutine; there is no
// locking by design. Cardinality stays tiny (a handful of groups, a handful
// of codes per group), so lookups are linear scans rather than maps.
package stats

import (
	"slices"
	"strings"
	"time"

	"github.com/quinox/nginx-tail/internal/speed"
)

// StatusStats tracks one status bucket inside one group: the number of lines
// seen since the last sample tick and the rate estimator they feed.
type StatusStats struct {
	Code    string
	Pending int
	Rate    speed.Meter

	start time.Time // start of the current sampling window
}

// Sample folds the pending count and the elapsed window into the estimator,
// then resets both. A window of zero whole milliseconds is a no-op: the
// count stays pending for the next tick instead of corrupting the estimate.
func (s *StatusStats) Sample(now time.Time) {
	elapsed := now.Sub(s.start)
	if elapsed.Milliseconds() == 0 {
		return
	}
	s.Rate.Add(elapsed, s.Pending)
	s.start = now
	s.Pending = 0
}

// CodeSet is the process-wide sorted set of status buckets.
type CodeSet struct {
	codes []string
}

// Add inserts a bucket, keeping the set sorted and deduplicated.
func (s *CodeSet) Add(code string) {
	if slices.Contains(s.codes, code) {
		return
	}
	s.codes = append(s.codes, code)
	slices.Sort(s.codes)
}

// All returns the buckets in ascending order. The caller must not hold on
// to the slice across mutations.
func (s *CodeSet) All() []string {
	return s.codes
}

// GroupStats is one dashboard row: a named source and its status buckets,
// kept sorted by code so rendering can merge-join against the global set.
type GroupStats struct {
	Name  string
	codes []*StatusStats

	global   *CodeSet
	newMeter func() speed.Meter
	now      func() time.Time
}

// GetOrCreate returns the bucket for code, creating it on first sight. New
// buckets are registered in the global set as well.
func (g *GroupStats) GetOrCreate(code string) *StatusStats {
	for _, s := range g.codes {
		if s.Code == code {
			return s
		}
	}
	s := &StatusStats{
		Code:  code,
		Rate:  g.newMeter(),
		start: g.now(),
	}
	g.codes = append(g.codes, s)
	slices.SortFunc(g.codes, func(a, b *StatusStats) int {
		return strings.Compare(a.Code, b.Code)
	})
	g.global.Add(code)
	return s
}

// Sample ticks every bucket in the group.
func (g *GroupStats) Sample(now time.Time) {
	for _, s := range g.codes {
		s.Sample(now)
	}
}

// Codes returns the group's buckets in ascending code order.
func (g *GroupStats) Codes() []*StatusStats {
	return g.codes
}

// GroupMap is the full set of active groups plus the shared prefix and
// suffix of their names, which the renderer strips to keep rows short.
type GroupMap struct {
	// SharedPrefix and SharedSuffix are the longest common prefix/suffix
	// over all group names, shortened so at least 8 distinguishing
	// characters stay visible. Recomputed on group creation only.
	SharedPrefix string
	SharedSuffix string

	groups   []*GroupStats
	global   *CodeSet
	newMeter func() speed.Meter
	now      func() time.Time
}

// New returns an empty GroupMap; newMeter builds the estimator for every
// status bucket that gets created.
func New(newMeter func() speed.Meter) *GroupMap {
	return &GroupMap{
		global:   &CodeSet{},
		newMeter: newMeter,
		now:      time.Now,
	}
}

// GetOrCreate returns the group with the given name, creating it on first
// sight and recomputing the shared prefix and suffix.
func (m *GroupMap) GetOrCreate(name string) *GroupStats {
	for _, g := range m.groups {
		if g.Name == name {
			return g
		}
	}
	g := &GroupStats{
		Name:     name,
		global:   m.global,
		newMeter: m.newMeter,
		now:      m.now,
	}
	// Groups keep their registration order; that is the row order on the
	// dashboard.
	m.groups = append(m.groups, g)
	m.updateShared()
	return g
}

// Len returns the number of groups.
func (m *GroupMap) Len() int {
	return len(m.groups)
}

// Groups returns the groups in registration order.
func (m *GroupMap) Groups() []*GroupStats {
	return m.groups
}

// Codes returns the global sorted set of status buckets.
func (m *GroupMap) Codes() []string {
	return m.global.All()
}

// Sample ticks every bucket of every group.
func (m *GroupMap) Sample(now time.Time) {
	for _, g := range m.groups {
		g.Sample(now)
	}
}

// minVisible is how many distinguishing characters of a group name must
// survive prefix/suffix stripping.
const minVisible = 8

func (m *GroupMap) updateShared() {
	if len(m.groups) < 2 {
		return
	}

	names := make([][]rune, len(m.groups))
	maxLen := 0
	for i, g := range m.groups {
		names[i] = []rune(g.Name)
		maxLen = max(maxLen, len(names[i]))
	}

	// The shared strings can never be longer than any single name, so the
	// first one drives both scans.
	first := names[0]
	prefixLen := 0
prefix:
	for i := 0; i < len(first); i++ {
		for _, name := range names[1:] {
			if i >= len(name) || name[i] != first[i] {
				break prefix
			}
		}
		prefixLen++
	}
	suffixLen := 0
suffix:
	for i := 0; i < len(first); i++ {
		for _, name := range names[1:] {
			if i >= len(name) || name[len(name)-1-i] != first[len(first)-1-i] {
				break suffix
			}
		}
		suffixLen++
	}

	visible := maxLen - prefixLen - suffixLen
	if visible < minVisible {
		if maxLen < minVisible {
			prefixLen, suffixLen = 0, 0
		} else {
			// The suffix stays: it is usually a fixed file name like
			// "access.log" that we want hidden. Give the characters back
			// from the prefix instead.
			prefixLen -= minVisible - visible
			if prefixLen < 0 {
				prefixLen = 0
			}
		}
	}

	m.SharedPrefix = string(first[:prefixLen])
	m.SharedSuffix = string(first[len(first)-suffixLen:])
}
