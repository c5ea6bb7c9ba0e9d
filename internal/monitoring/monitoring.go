package monitoring

import "time"

// SystemInfo represents the aggregate counters the monitoring API exposes about itself
type SystemInfo struct {
	SystemName   string `json:"systemName"`
	CurrentUsers int    `json:"currentUsers"`
	Capacity     int    `json:"capacity"`
}

// UserRecord represents a single user registered to the monitoring system.
// The profile fields are optional and only present in deployments that collect them.
type UserRecord struct {
	UserID     string `json:"userId"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
}

// Session represents a bounded interval of a user's presence in the system,
// from login to logout. An open session has no logout time yet.
type Session struct {
	UserID     string     `json:"userId"`
	LoginTime  time.Time  `json:"loginTime"`
	LogoutTime *time.Time `json:"logoutTime"`
}

// Open returns whether the session has no recorded logout time
func (session *Session) Open() bool {
	return session.LogoutTime == nil
}

// Duration returns the session duration. It is only defined once the logout
// time is set; open sessions report a zero duration and ok == false.
func (session *Session) Duration() (time.Duration, bool) {
	if session.LogoutTime == nil {
		return 0, false
	}
	return session.LogoutTime.Sub(session.LoginTime), true
}

// UserSession represents one entry of a single user's session history.
// The duration is a display string computed by the server ('in progress' for open sessions).
type UserSession struct {
	LoginTime  time.Time  `json:"loginTime"`
	LogoutTime *time.Time `json:"logoutTime"`
	Duration   string     `json:"duration"`
}

// Open returns whether the session has no recorded logout time
func (session *UserSession) Open() bool {
	return session.LogoutTime == nil
}

// ActionResult represents the outcome the monitoring API reports for every mutation
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
