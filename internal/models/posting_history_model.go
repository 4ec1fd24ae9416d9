package models

import "time"

type PublishMode string

const (
	PublishModeSimulated PublishMode = "simulated"
	PublishModeLive      PublishMode = "live"
)

type PostingHistory struct {
	ID             int64       `db:"id" json:"id"`
	PostID         string      `db:"post_id" json:"post_id"`
	PageID         string      `db:"page_id" json:"page_id"`
	TargetID       string      `db:"target_id" json:"target_id"`
	Mode           PublishMode `db:"mode" json:"mode"`
	ExternalPostID string      `db:"external_post_id" json:"external_post_id,omitempty"`
	PermalinkURL   string      `db:"permalink_url" json:"permalink_url,omitempty"`
	ErrorKind      string      `db:"error_kind" json:"error_kind,omitempty"`
	ErrorMessage   string      `db:"error_message" json:"error_message,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
}

func (h PostingHistory) Succeeded() bool {
	return h.ErrorMessage == ""
}
