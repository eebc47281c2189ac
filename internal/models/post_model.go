package models

import "time"

type ScheduledPost struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Title        string    `db:"title" json:"title"`
	Content      string    `db:"content" json:"content"`
	Platform     string    `db:"platform" json:"platform"`
	ScheduledFor time.Time `db:"scheduled_for" json:"scheduled_for"`
	Status       string    `db:"status" json:"status"`
	TemplateID   *string   `db:"template_id" json:"template_id,omitempty"`
	ImageURL     *string   `db:"image_url" json:"image_url,omitempty"`
	ErrorMessage *string   `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Status moves forward only: scheduled -> processing -> published|failed.
// processing is the dispatcher's claim and never outlives a run.
const (
	PostStatusScheduled  = "scheduled"
	PostStatusProcessing = "processing"
	PostStatusPublished  = "published"
	PostStatusFailed     = "failed"
)

const (
	PlatformInstagram = "instagram"
	PlatformLinkedIn  = "linkedin"
	PlatformTiktok    = "tiktok"
)

var SupportedPlatforms = []string{PlatformInstagram, PlatformLinkedIn, PlatformTiktok}

func IsSupportedPlatform(platform string) bool {
	for _, p := range SupportedPlatforms {
		if p == platform {
			return true
		}
	}
	return false
}
