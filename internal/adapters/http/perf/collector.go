// Package perf keeps a bounded in-memory history of request and query
// timings and aggregates it on demand.
package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing record.
type Entry struct {
	Kind       EntryKind
	Path       string // "METHOD route" for requests, the operation for queries
	StatusCode int    // 0 for queries
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer of timing entries. When full, the
// oldest entry is overwritten.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector holding at most size entries.
// POST: a non-positive size falls back to DefaultRingSize
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.mu.Unlock()
	c.count.Add(1)
}

// TotalRecorded returns the number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// PathStat aggregates timing for one path or query operation.
type PathStat struct {
	Path    string  `json:"path"`
	Count   int     `json:"count"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	TotalMs float64 `json:"total_ms"`
}

// Snapshot is the aggregate view of the buffer.
type Snapshot struct {
	TotalRecorded  int64      `json:"total_recorded"`
	Requests       int        `json:"requests"`
	ServerErrors   int        `json:"server_errors"`
	RequestP50Ms   float64    `json:"request_p50_ms"`
	RequestP95Ms   float64    `json:"request_p95_ms"`
	RequestP99Ms   float64    `json:"request_p99_ms"`
	SlowestPaths   []PathStat `json:"slowest_paths"`
	SlowestQueries []PathStat `json:"slowest_queries"`
}

type aggregate map[string]*PathStat

func (a aggregate) add(e Entry) {
	s, ok := a[e.Path]
	if !ok {
		s = &PathStat{Path: e.Path}
		a[e.Path] = s
	}
	s.Count++
	s.TotalMs += e.DurationMs
	s.MaxMs = math.Max(s.MaxMs, e.DurationMs)
}

// top returns the n stats with the highest average, slowest first.
func (a aggregate) top(n int) []PathStat {
	list := make([]PathStat, 0, len(a))
	for _, s := range a {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs != list[j].AvgMs {
			return list[i].AvgMs > list[j].AvgMs
		}
		return list[i].Path < list[j].Path
	})
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

// Snapshot aggregates the entries recorded at or after since.
// POST: SlowestPaths and SlowestQueries hold at most topN items
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, len(c.entries))
	copy(buf, c.entries)
	c.mu.Unlock()

	var durations []float64
	requests, queries := aggregate{}, aggregate{}
	snap := Snapshot{TotalRecorded: c.TotalRecorded()}

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		switch e.Kind {
		case KindRequest:
			durations = append(durations, e.DurationMs)
			requests.add(e)
			if e.StatusCode >= 500 {
				snap.ServerErrors++
			}
		case KindQuery:
			queries.add(e)
		}
	}

	snap.Requests = len(durations)
	snap.SlowestPaths = requests.top(topN)
	snap.SlowestQueries = queries.top(topN)
	if len(durations) > 0 {
		sort.Float64s(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
