package monitoring

import (
	"fmt"
	"time"
)

// The monitoring API emits its timestamps in ISO local date-time format
// (no zone offset). Some deployments put them out as full RFC 3339 strings,
// so both shapes are accepted.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

func parseOptionalTimestamp(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	ts, err := parseTimestamp(*raw)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

type sessionDTO struct {
	UserID     string  `json:"userId"`
	LoginTime  string  `json:"loginTime"`
	LogoutTime *string `json:"logoutTime"`
}

func (dto *sessionDTO) toSession() (Session, error) {
	loginTime, err := parseTimestamp(dto.LoginTime)
	if err != nil {
		return Session{}, fmt.Errorf("session of %q: %w", dto.UserID, err)
	}
	logoutTime, err := parseOptionalTimestamp(dto.LogoutTime)
	if err != nil {
		return Session{}, fmt.Errorf("session of %q: %w", dto.UserID, err)
	}
	return Session{
		UserID:     dto.UserID,
		LoginTime:  loginTime,
		LogoutTime: logoutTime,
	}, nil
}

type userSessionDTO struct {
	LoginTime  string  `json:"loginTime"`
	LogoutTime *string `json:"logoutTime"`
	Duration   string  `json:"duration"`
}

func (dto *userSessionDTO) toUserSession() (UserSession, error) {
	loginTime, err := parseTimestamp(dto.LoginTime)
	if err != nil {
		return UserSession{}, err
	}
	logoutTime, err := parseOptionalTimestamp(dto.LogoutTime)
	if err != nil {
		return UserSession{}, err
	}
	return UserSession{
		LoginTime:  loginTime,
		LogoutTime: logoutTime,
		Duration:   dto.Duration,
	}, nil
}

type startSessionRequest struct {
	UserID string `json:"userId"`
}
