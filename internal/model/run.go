package model

import "time"

// Run status values.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
	RunCancelled = "cancelled"
)

// Run is the recorded history of one conversion.
type Run struct {
	ID          string         `json:"id"`
	Input       string         `json:"input"`
	Output      string         `json:"output"`
	Status      string         `json:"status"`
	Error       string         `json:"error,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	Tweets      int            `json:"tweets"`
	Entries     int            `json:"entries"`
	Photos      int            `json:"photos"`
	Videos      int            `json:"videos"`
	OutputBytes int64          `json:"output_bytes"`
	Warnings    []MediaWarning `json:"warnings,omitempty"`
	Media       []StagedMedia  `json:"media,omitempty"`
}

// MediaWarning records a media item that could not be resolved. It is a
// non-fatal outcome: the owning tweet is still converted.
type MediaWarning struct {
	TweetID string `json:"tweet_id"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

// StagedMedia describes a media file copied into the staging area.
type StagedMedia struct {
	MD5     string `json:"md5"`
	Type    string `json:"type"`
	Bytes   int64  `json:"bytes"`
	TweetID string `json:"tweet_id"`
	Source  string `json:"source"`
}
