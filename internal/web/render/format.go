package render

import (
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/accessdeck/webclient/internal/monitoring"
)

// timeLayout mirrors the timestamp format the monitoring system uses in its
// own rendered output.
const timeLayout = "2006-01-02 15:04:05"

// placeholder is rendered wherever a value is not defined (yet), most notably
// the logout column of an open session.
const placeholder = "-"

var funcs = template.FuncMap{
	"formatTime":         formatTime,
	"formatOptionalTime": formatOptionalTime,
	"sessionDuration":    sessionDuration,
	"pathEscape":         url.PathEscape,
}

func formatTime(ts time.Time) string {
	return ts.Local().Format(timeLayout)
}

func formatOptionalTime(ts *time.Time) string {
	if ts == nil {
		return placeholder
	}
	return formatTime(*ts)
}

// sessionDuration renders the derived duration of an all-sessions row.
// It is only defined for closed sessions; open ones show a progress marker.
func sessionDuration(session monitoring.Session) string {
	duration, ok := session.Duration()
	if !ok {
		return "in progress"
	}
	return fmt.Sprintf("%d min", int(duration.Minutes()))
}
