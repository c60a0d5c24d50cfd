// Package events defines event types and structures for run lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/reelay/reelay/pkg/models"
)

type EventType string

// Topic carries every run lifecycle event.
const Topic = "reelay.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Run lifecycle events.
	RunStartedEvent   EventType = "run.started"
	RunCompletedEvent EventType = "run.completed"
	RunFailedEvent    EventType = "run.failed"

	// Video pipeline events.
	VideoStageChangedEvent EventType = "video.stage_changed"
	PlatformPostedEvent    EventType = "platform.posted"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type Event interface {
	GetType() EventType
}

type RunStarted struct {
	BaseEvent

	RunID        string `json:"run_id"`
	WorkflowName string `json:"workflow_name"`
	Initiator    string `json:"initiator"`
}

func (r RunStarted) GetType() EventType {
	return RunStartedEvent
}

type RunCompleted struct {
	BaseEvent

	RunID      string         `json:"run_id"`
	VideoID    string         `json:"video_id,omitempty"`
	Result     map[string]any `json:"result,omitempty"`
	DurationMs int64          `json:"duration_ms"`
}

func (r RunCompleted) GetType() EventType {
	return RunCompletedEvent
}

type RunFailed struct {
	BaseEvent

	RunID      string `json:"run_id"`
	Stage      string `json:"stage"`
	Error      string `json:"error"`
	DurationMs int64  `json:"duration_ms"`
}

func (r RunFailed) GetType() EventType {
	return RunFailedEvent
}

// VideoStageChanged is published whenever a video record moves through
// its status state machine.
type VideoStageChanged struct {
	BaseEvent

	RunID   string             `json:"run_id"`
	VideoID string             `json:"video_id"`
	From    models.VideoStatus `json:"from"`
	To      models.VideoStatus `json:"to"`
}

func (v VideoStageChanged) GetType() EventType {
	return VideoStageChangedEvent
}

type PlatformPosted struct {
	BaseEvent

	RunID    string          `json:"run_id"`
	VideoID  string          `json:"video_id"`
	Platform models.Platform `json:"platform"`
	PostID   string          `json:"post_id,omitempty"`
}

func (p PlatformPosted) GetType() EventType {
	return PlatformPostedEvent
}

func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
		Metadata:   make(map[string]any),
	}
}
