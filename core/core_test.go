package core

import (
	"fmt"
	"time"

	"github.com/gamelens/foresight/internal/contract"
	"github.com/gamelens/foresight/schema"
)

// memStore is an in-memory ModelStore for round-trip tests.
type memStore struct {
	entries map[string]memEntry
	failSet bool
}

type memEntry struct {
	value   []byte
	version int
	ts      int64
}

var _ contract.ModelStore = &memStore{} // Compile-time check

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]memEntry)}
}

func (m *memStore) Get(key string) ([]byte, int, int64, error) {
	e, ok := m.entries[key]
	if !ok {
		return nil, 0, 0, fmt.Errorf("key not found: %s", key)
	}
	return e.value, e.version, e.ts, nil
}

func (m *memStore) Set(key string, value []byte, version int, timestamp int64) error {
	if m.failSet {
		return fmt.Errorf("store unavailable")
	}
	m.entries[key] = memEntry{value: value, version: version, ts: timestamp}
	return nil
}

func (m *memStore) GetAllSnapshots() ([]schema.SnapshotEntry, error) {
	entries := make([]schema.SnapshotEntry, 0, len(m.entries))
	for key, e := range m.entries {
		entries = append(entries, schema.SnapshotEntry{Key: key, Payload: e.value, Version: e.version, StoredAt: e.ts})
	}
	return entries, nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) GetStatus() (schema.StoreStatus, error) {
	return schema.StoreStatus{Backend: "memory", Connected: true, TotalEntries: len(m.entries)}, nil
}

// makeCohorts builds n synthetic cohorts following a geometric decay with
// the given D1 retention.
func makeCohorts(n int, d1 float64) []schema.CohortRecord {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cohorts := make([]schema.CohortRecord, 0, n)
	for i := range n {
		decay := d1 // per-day decay equals D1 for a curve anchored at 1.0
		cohorts = append(cohorts, schema.CohortRecord{
			CohortDate: start.AddDate(0, 0, i),
			Size:       1000 + i,
			RetentionByDay: schema.ObservedRetention{
				1: d1,
				7: d1 * pow(decay, 6),
			},
		})
	}
	return cohorts
}

func pow(base float64, exp int) float64 {
	v := 1.0
	for range exp {
		v *= base
	}
	return v
}

// makeRevenueRows builds n daily rows with a linear trend and a weekend lift.
func makeRevenueRows(n int, level, slope float64) []schema.RevenueDataPoint {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]schema.RevenueDataPoint, 0, n)
	for i := range n {
		date := start.AddDate(0, 0, i)
		rev := level + slope*float64(i)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			rev *= 1.2
		}
		rows = append(rows, schema.RevenueDataPoint{
			Date:     date,
			Revenue:  rev,
			DAU:      10000,
			NewUsers: 800,
			Payers:   300,
		})
	}
	return rows
}
