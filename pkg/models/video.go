package models

import "time"

// VideoStatus is the lifecycle state of a video record. The happy
// path is created -> generating -> generated -> completed; failed is
// reachable from every non-terminal state and is a sink.
type VideoStatus string

const (
	VideoStatusCreated    VideoStatus = "created"    // Record opened, no generation task yet
	VideoStatusGenerating VideoStatus = "generating" // Generation task submitted
	VideoStatusGenerated  VideoStatus = "generated"  // Media URL available
	VideoStatusCompleted  VideoStatus = "completed"  // Publishing attempts finished
	VideoStatusFailed     VideoStatus = "failed"     // Terminal failure
)

// CanTransition reports whether moving to next is a legal status
// change. Statuses are monotonic along the happy path and never
// revert; failed and completed are terminal.
func (s VideoStatus) CanTransition(next VideoStatus) bool {
	switch s {
	case VideoStatusCreated:
		return next == VideoStatusGenerating || next == VideoStatusFailed
	case VideoStatusGenerating:
		return next == VideoStatusGenerated || next == VideoStatusFailed
	case VideoStatusGenerated:
		return next == VideoStatusCompleted || next == VideoStatusFailed
	case VideoStatusCompleted, VideoStatusFailed:
		return false
	}

	return false
}

// Video tracks one generated video from idea through publishing.
// Idea and Script are snapshots taken at run time.
type Video struct {
	ID              string      `json:"id"`
	CreatedAt       time.Time   `json:"created_at"`
	Idea            Idea        `json:"idea"`
	Script          Script      `json:"script"`
	GenerationTask  string      `json:"generation_task_id,omitempty"`
	VideoURL        string      `json:"video_url,omitempty"`
	Status          VideoStatus `json:"status"`
	PostedTikTok    bool        `json:"posted_tiktok"`
	PostedInstagram bool        `json:"posted_instagram"`
	PostedYouTube   bool        `json:"posted_youtube"`
	Error           string      `json:"error,omitempty"`
}

// Posted reports whether the video was posted to the given platform.
func (v *Video) Posted(platform Platform) bool {
	switch platform {
	case PlatformTikTok:
		return v.PostedTikTok
	case PlatformInstagram:
		return v.PostedInstagram
	case PlatformYouTube:
		return v.PostedYouTube
	}

	return false
}
