package hashmap

import (
	"time"

	"github.com/accessdeck/webclient/internal/task"
)

type expiringEntry[V any] struct {
	raw      V
	inserted time.Time
}

// ExpiringMap implements the Map interface and wraps a NormalMap in order to implement value expiration.
// Expired values are invisible to Lookup immediately; their memory is reclaimed by the cleanup task.
type ExpiringMap[K comparable, V any] struct {
	normal      *NormalMap[K, *expiringEntry[V]]
	lifetime    time.Duration
	cleanupTask *task.RepeatingTask
}

var _ Map[int, any] = (*ExpiringMap[int, any])(nil)

// NewExpiring creates a new expiring map whose values exist for a specific lifetime
func NewExpiring[K comparable, V any](lifetime time.Duration) *ExpiringMap[K, V] {
	return &ExpiringMap[K, V]{
		normal:   NewNormal[K, *expiringEntry[V]](),
		lifetime: lifetime,
	}
}

// ScheduleCleanupTask schedules the task that reclaims expired values in a specific interval.
// A call to StopCleanupTask as soon as the map is no longer needed is required for the map
// to be garbage collected.
func (obj *ExpiringMap[K, V]) ScheduleCleanupTask(tick time.Duration) {
	if obj.cleanupTask != nil {
		return
	}
	obj.cleanupTask = task.NewRepeating(func() {
		now := time.Now()
		obj.normal.retain(func(_ K, entry *expiringEntry[V]) bool {
			return now.Sub(entry.inserted) < obj.lifetime
		})
	}, tick)
	obj.cleanupTask.Start()
}

// StopCleanupTask stops the scheduled cleanup task
func (obj *ExpiringMap[K, V]) StopCleanupTask() {
	if obj.cleanupTask == nil {
		return
	}
	obj.cleanupTask.Stop(false)
	obj.cleanupTask = nil
}

// Size returns the amount of stored key-value pairs, including expired but not yet reclaimed ones
func (obj *ExpiringMap[K, V]) Size() int {
	return obj.normal.Size()
}

// Lookup returns the value assigned to the given key and a boolean indicating whether it was
// present and not yet expired
func (obj *ExpiringMap[K, V]) Lookup(key K) (V, bool) {
	entry, ok := obj.normal.Lookup(key)
	if !ok || time.Since(entry.inserted) >= obj.lifetime {
		var zero V
		return zero, false
	}
	return entry.raw, true
}

// Set sets a key-value pair, resetting the value's lifetime if it already existed
func (obj *ExpiringMap[K, V]) Set(key K, value V) {
	obj.normal.Set(key, &expiringEntry[V]{
		raw:      value,
		inserted: time.Now(),
	})
}

// Unset deletes the value assigned to the given key
func (obj *ExpiringMap[K, V]) Unset(key K) {
	obj.normal.Unset(key)
}

// Clear clears the whole map
func (obj *ExpiringMap[K, V]) Clear() {
	obj.normal.Clear()
}
