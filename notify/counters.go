/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

import (
	"strings"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// CounterStore is the external counter collaborator from spec §6:
// Get raises ErrCounterNotFound for a path never incremented,
// Increment creates the path on first use and returns the new value,
// ClearAll resets everything. Paths used by this module are exactly
// ("zones", zoneName, "notifyoutv4"|"notifyoutv6").
type CounterStore interface {
	Get(path ...string) (int64, error)
	Increment(path ...string) int64
	ClearAll()
}

// MapCounterStore is the default CounterStore, backed by
// github.com/orcaman/concurrent-map/v2 — the same sharded map the
// teacher uses for every concurrently-accessed registry in
// tdns/structs.go (ZoneData.Data, ZoneData.OwnerIndex, Zones itself).
type MapCounterStore struct {
	values cmap.ConcurrentMap[string, int64]
}

// NewMapCounterStore returns a ready-to-use, empty counter store.
func NewMapCounterStore() *MapCounterStore {
	return &MapCounterStore{values: cmap.New[int64]()}
}

func joinPath(path []string) string {
	return strings.Join(path, "\x00")
}

func (c *MapCounterStore) Get(path ...string) (int64, error) {
	v, ok := c.values.Get(joinPath(path))
	if !ok {
		return 0, ErrCounterNotFound
	}
	return v, nil
}

func (c *MapCounterStore) Increment(path ...string) int64 {
	key := joinPath(path)
	var result int64
	c.values.Upsert(key, 0, func(exists bool, oldVal, _ int64) int64 {
		if exists {
			result = oldVal + 1
		} else {
			result = 1
		}
		return result
	})
	return result
}

func (c *MapCounterStore) ClearAll() {
	c.values.Clear()
}

const (
	counterMetricV4 = "notifyoutv4"
	counterMetricV6 = "notifyoutv6"
)

func familyMetric(f Family) string {
	if f == FamilyIPv6 {
		return counterMetricV6
	}
	return counterMetricV4
}
