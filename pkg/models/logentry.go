package models

import "time"

// LogEntry is a persisted system log line, fed by the run event
// subscriber and queryable from the dashboard.
type LogEntry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}
