package lifecycle

import (
	"context"

	"github.com/accessdeck/webclient/internal/monitoring"
)

// State describes the state of the portal session lifecycle
type State string

const (
	StateLoggedOut State = "LoggedOut"
	StateOffline   State = "LoggedInOffline"
	StateOnline    State = "LoggedInOnline"
)

// Status is the portal's client session-view: the current user identifier and
// the online flag. It is an optimistic cache of the server's notion of whether
// the user's session is open, set after successful calls and potentially stale
// until the next history reload. It exists to drive the access/leave controls
// and to skip requests the server is known to reject; the 'at most one open
// session per user' guarantee itself is enforced server-side.
type Status struct {
	UserID string
	Online bool
}

// State derives the lifecycle state out of the status
func (status Status) State() State {
	switch {
	case status.UserID == "":
		return StateLoggedOut
	case status.Online:
		return StateOnline
	default:
		return StateOffline
	}
}

// SessionAPI defines the part of the monitoring API the state machine drives
type SessionAPI interface {
	// AddUser registers a user record or refreshes an existing one
	AddUser(ctx context.Context, record monitoring.UserRecord) (*monitoring.ActionResult, error)

	// StartSession opens a session for the given user
	StartSession(ctx context.Context, userID string) (*monitoring.ActionResult, error)

	// EndSession closes the open session of the given user
	EndSession(ctx context.Context, userID string) (*monitoring.ActionResult, error)
}

// Machine implements the portal session lifecycle transitions.
// Invalid transitions are guarded locally and never issue a network call;
// failed calls never change the state.
type Machine struct {
	api SessionAPI

	// loginOpensSession switches between the two login flow revisions: one
	// opens a session right away on login, the other leaves the user offline
	// until an explicit access action.
	loginOpensSession bool
}

// New creates a new session lifecycle machine on top of the given session API
func New(api SessionAPI, loginOpensSession bool) *Machine {
	return &Machine{
		api:               api,
		loginOpensSession: loginOpensSession,
	}
}

// Login identifies the user against the monitoring system.
// Depending on the configured login mode, a successful login results in
// either an open session (online) or a bare identification (offline).
func (machine *Machine) Login(ctx context.Context, current Status, userID string) (Status, Notice, bool) {
	var result *monitoring.ActionResult
	var err error
	if machine.loginOpensSession {
		result, err = machine.api.StartSession(ctx, userID)
	} else {
		result, err = machine.api.AddUser(ctx, monitoring.UserRecord{UserID: userID})
	}
	if err != nil {
		return current, notice(ScopeLogin, KindError, "Login failed, please try again"), false
	}
	if !result.Success {
		return current, notice(ScopeLogin, KindError, "Login failed: "+result.Message), false
	}
	next := Status{
		UserID: userID,
		Online: machine.loginOpensSession,
	}
	return next, notice(ScopeLogin, KindSuccess, "Login successful! You can now access the system."), true
}

// Access opens a session for the current user.
// A no-op while already online or not logged in at all.
func (machine *Machine) Access(ctx context.Context, current Status) (Status, Notice, bool) {
	switch current.State() {
	case StateLoggedOut:
		return current, notice(ScopeAccess, KindError, "Please login first"), false
	case StateOnline:
		return current, notice(ScopeAccess, KindInfo, "You are already online"), false
	}

	result, err := machine.api.StartSession(ctx, current.UserID)
	if err != nil {
		return current, notice(ScopeAccess, KindError, "Access failed, please try again"), false
	}
	if !result.Success {
		return current, notice(ScopeAccess, KindError, "Access failed: "+result.Message), false
	}
	return Status{UserID: current.UserID, Online: true}, notice(ScopeAccess, KindSuccess, "Successfully accessed the system!"), true
}

// Leave closes the open session of the current user.
// A no-op unless the user is online.
func (machine *Machine) Leave(ctx context.Context, current Status) (Status, Notice, bool) {
	switch current.State() {
	case StateLoggedOut:
		return current, notice(ScopeAccess, KindError, "Please login first"), false
	case StateOffline:
		return current, notice(ScopeAccess, KindError, "You are not online"), false
	}

	result, err := machine.api.EndSession(ctx, current.UserID)
	if err != nil {
		return current, notice(ScopeAccess, KindError, "Leave failed, please try again"), false
	}
	if !result.Success {
		return current, notice(ScopeAccess, KindError, "Leave failed: "+result.Message), false
	}
	return Status{UserID: current.UserID, Online: false}, notice(ScopeAccess, KindInfo, "Left the system"), true
}
