// Package notify implements transient, auto-expiring UI notices.
// A notice lives in a scoped slot for a fixed lifetime and is replaced by the
// next notice posted to the same slot, so stale messages never pile up.
package notify

import (
	"time"

	"github.com/accessdeck/webclient/internal/hashmap"
)

// Kind classifies a notice for display purposes
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

// Notice represents a single transient message shown in one message region
type Notice struct {
	Kind Kind
	Text string
}

// Board holds the currently active notices, keyed by their scope.
// A scope identifies one message region of one browser (e.g. the admin form
// message of a specific visitor).
type Board struct {
	notices *hashmap.ExpiringMap[string, Notice]
}

// NewBoard creates a new notice board whose notices expire after the given lifetime
func NewBoard(lifetime time.Duration) *Board {
	return &Board{
		notices: hashmap.NewExpiring[string, Notice](lifetime),
	}
}

// ScheduleCleanupTask schedules the task reclaiming the memory of expired notices
func (board *Board) ScheduleCleanupTask(tick time.Duration) {
	board.notices.ScheduleCleanupTask(tick)
}

// StopCleanupTask stops the scheduled cleanup task
func (board *Board) StopCleanupTask() {
	board.notices.StopCleanupTask()
}

// Post places a notice into the given scope, replacing a previous one if present
func (board *Board) Post(scope string, kind Kind, text string) {
	board.notices.Set(scope, Notice{
		Kind: kind,
		Text: text,
	})
}

// Get returns the active notice of the given scope, if any
func (board *Board) Get(scope string) (Notice, bool) {
	return board.notices.Lookup(scope)
}

// Dismiss drops the active notice of the given scope before its expiry
func (board *Board) Dismiss(scope string) {
	board.notices.Unset(scope)
}
