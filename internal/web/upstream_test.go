package web_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"
)

// fakeMonitor imitates the upstream access monitoring REST API in memory and
// records every request it receives so tests can assert which calls were (not) made.
type fakeMonitor struct {
	mu       sync.Mutex
	requests []string

	systemName string
	capacity   int
	users      []wireUser
	sessions   []wireSession

	// down makes every request fail with 503 to simulate an unreachable upstream
	down bool

	// loginResult, if set, overrides the outcome of POST /sessions/login
	loginResult *wireResult
}

type wireUser struct {
	UserID     string `json:"userId"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
}

type wireSession struct {
	UserID     string  `json:"userId"`
	LoginTime  string  `json:"loginTime"`
	LogoutTime *string `json:"logoutTime"`
	Duration   string  `json:"duration"`
}

type wireResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const wireTimeLayout = "2006-01-02T15:04:05"

func newFakeMonitor() *fakeMonitor {
	return &fakeMonitor{
		systemName: "Web Access Monitoring System",
		capacity:   5,
	}
}

func (fake *fakeMonitor) addUser(userID string) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.users = append(fake.users, wireUser{UserID: userID})
}

func (fake *fakeMonitor) addSession(userID, loginTime string, logoutTime *string, duration string) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.sessions = append(fake.sessions, wireSession{
		UserID:     userID,
		LoginTime:  loginTime,
		LogoutTime: logoutTime,
		Duration:   duration,
	})
}

// count returns how many recorded requests start with the given prefix (e.g. 'POST /sessions/login')
func (fake *fakeMonitor) count(prefix string) int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	n := 0
	for _, request := range fake.requests {
		if strings.HasPrefix(request, prefix) {
			n++
		}
	}
	return n
}

func (fake *fakeMonitor) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	fake.mu.Lock()
	fake.requests = append(fake.requests, request.Method+" "+request.URL.Path)
	down := fake.down
	fake.mu.Unlock()

	if down {
		writer.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	path := request.URL.Path
	switch {
	case request.Method == http.MethodGet && path == "/system/info":
		fake.handleSystemInfo(writer)
	case request.Method == http.MethodGet && path == "/access-history":
		fake.handleAccessHistory(writer)
	case request.Method == http.MethodPost && path == "/access-history":
		fake.handleAddUser(writer, request)
	case request.Method == http.MethodDelete && strings.HasPrefix(path, "/access-history/"):
		fake.handleRemoveUser(writer, strings.TrimPrefix(path, "/access-history/"))
	case request.Method == http.MethodGet && path == "/sessions/all":
		fake.handleAllSessions(writer)
	case request.Method == http.MethodGet && strings.HasPrefix(path, "/sessions/user/"):
		fake.handleUserSessions(writer, strings.TrimPrefix(path, "/sessions/user/"))
	case request.Method == http.MethodPost && path == "/sessions/login":
		fake.handleSessionLogin(writer, request)
	case request.Method == http.MethodPost && path == "/sessions/logout":
		fake.handleSessionLogout(writer, request)
	default:
		writer.WriteHeader(http.StatusNotFound)
	}
}

func (fake *fakeMonitor) handleSystemInfo(writer http.ResponseWriter) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	writeJSON(writer, http.StatusOK, map[string]any{
		"systemName":   fake.systemName,
		"currentUsers": len(fake.users),
		"capacity":     fake.capacity,
	})
}

func (fake *fakeMonitor) handleAccessHistory(writer http.ResponseWriter) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	users := fake.users
	if users == nil {
		users = []wireUser{}
	}
	writeJSON(writer, http.StatusOK, users)
}

func (fake *fakeMonitor) handleAddUser(writer http.ResponseWriter, request *http.Request) {
	var payload wireUser
	_ = json.NewDecoder(request.Body).Decode(&payload)

	if strings.TrimSpace(payload.UserID) == "" {
		writeJSON(writer, http.StatusBadRequest, wireResult{Success: false, Message: "User ID cannot be empty"})
		return
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	for _, user := range fake.users {
		if user.UserID == payload.UserID {
			writeJSON(writer, http.StatusOK, wireResult{Success: true, Message: "User login time updated"})
			return
		}
	}
	fake.users = append(fake.users, payload)
	writeJSON(writer, http.StatusOK, wireResult{Success: true, Message: "User added successfully"})
}

func (fake *fakeMonitor) handleRemoveUser(writer http.ResponseWriter, userID string) {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	for i, user := range fake.users {
		if user.UserID == userID {
			fake.users = append(fake.users[:i], fake.users[i+1:]...)

			// Removing a user also drops their whole session history
			remaining := fake.sessions[:0]
			for _, session := range fake.sessions {
				if session.UserID != userID {
					remaining = append(remaining, session)
				}
			}
			fake.sessions = remaining

			writeJSON(writer, http.StatusOK, wireResult{Success: true, Message: "User removed successfully"})
			return
		}
	}
	writeJSON(writer, http.StatusOK, wireResult{Success: false, Message: "User not found"})
}

func (fake *fakeMonitor) handleAllSessions(writer http.ResponseWriter) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	sessions := fake.sessions
	if sessions == nil {
		sessions = []wireSession{}
	}
	writeJSON(writer, http.StatusOK, sessions)
}

func (fake *fakeMonitor) handleUserSessions(writer http.ResponseWriter, userID string) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	sessions := []wireSession{}
	for _, session := range fake.sessions {
		if session.UserID == userID {
			sessions = append(sessions, session)
		}
	}
	writeJSON(writer, http.StatusOK, sessions)
}

func (fake *fakeMonitor) handleSessionLogin(writer http.ResponseWriter, request *http.Request) {
	var payload struct {
		UserID string `json:"userId"`
	}
	_ = json.NewDecoder(request.Body).Decode(&payload)

	if strings.TrimSpace(payload.UserID) == "" {
		writeJSON(writer, http.StatusBadRequest, wireResult{Success: false, Message: "User ID cannot be empty"})
		return
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()

	if fake.loginResult != nil {
		writeJSON(writer, http.StatusOK, *fake.loginResult)
		return
	}

	// An already open session is simply reused
	for _, session := range fake.sessions {
		if session.UserID == payload.UserID && session.LogoutTime == nil {
			writeJSON(writer, http.StatusOK, wireResult{Success: true, Message: "Login successful"})
			return
		}
	}

	fake.sessions = append(fake.sessions, wireSession{
		UserID:    payload.UserID,
		LoginTime: time.Now().Format(wireTimeLayout),
		Duration:  "in progress",
	})
	writeJSON(writer, http.StatusOK, wireResult{Success: true, Message: "Login successful"})
}

func (fake *fakeMonitor) handleSessionLogout(writer http.ResponseWriter, request *http.Request) {
	var payload struct {
		UserID string `json:"userId"`
	}
	_ = json.NewDecoder(request.Body).Decode(&payload)

	fake.mu.Lock()
	defer fake.mu.Unlock()

	for i, session := range fake.sessions {
		if session.UserID == payload.UserID && session.LogoutTime == nil {
			logoutTime := time.Now().Format(wireTimeLayout)
			fake.sessions[i].LogoutTime = &logoutTime
			fake.sessions[i].Duration = "0 min"
			writeJSON(writer, http.StatusOK, wireResult{Success: true, Message: "Logout successful"})
			return
		}
	}
	writeJSON(writer, http.StatusOK, wireResult{Success: false, Message: "No active session found"})
}

func writeJSON(writer http.ResponseWriter, code int, value any) {
	raw, _ := json.Marshal(value)
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(code)
	writer.Write(raw)
}
