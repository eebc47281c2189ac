package transfer

import "github.com/dsnmoura/thrg-flow/internal/models"

// PostCreation carries the raw form fields of a scheduling request.
// Date and Time stay separate until the validator combines them.
type PostCreation struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Platform   string `json:"platform"`
	Date       string `json:"date"`     // 2006-01-02
	Time       string `json:"time"`     // 15:04, hourly slots 06:00-23:00
	Timezone   string `json:"timezone"` // IANA name, optional
	TemplateID string `json:"template_id"`
	ImageURL   string `json:"image_url"` // set after a successful upload
}

// PublishResult is one post's outcome within a dispatcher run.
type PublishResult struct {
	PostID   int64  `json:"post_id"`
	Platform string `json:"platform"`
	Title    string `json:"title"`
	Success  bool   `json:"success"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// PublishReport aggregates a whole dispatcher run. Results keep the
// oldest-due-first order of the underlying query.
type PublishReport struct {
	Message    string          `json:"message,omitempty"`
	Processed  int             `json:"processed"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Results    []PublishResult `json:"results,omitempty"`
}

// DashboardSummary is the read-side aggregation over one owner's posts.
type DashboardSummary struct {
	TotalPosts      int                     `json:"total_posts"`
	PlatformsActive int                     `json:"platforms_active"`
	Scheduled       int                     `json:"scheduled"`
	Published       int                     `json:"published"`
	Failed          int                     `json:"failed"`
	Upcoming        []*models.ScheduledPost `json:"upcoming"`
	ThisWeek        []*models.ScheduledPost `json:"this_week"`
}
