package handlers

import (
	"github.com/gofiber/fiber/v2"

	job "github.com/dsnmoura/thrg-flow/internal/jobs"
)

type JobsHandler struct {
	publish *job.PublishJob
}

func NewJobsHandler(publish *job.PublishJob) *JobsHandler {
	return &JobsHandler{publish: publish}
}

// PublishScheduled triggers one dispatcher run and returns the batch
// report. Per-post failures are a normal outcome; only the inability
// to query the store is a job-level error.
func (h *JobsHandler) PublishScheduled(c *fiber.Ctx) error {
	report, err := h.publish.Run(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch scheduled posts",
		})
	}
	return c.Status(fiber.StatusOK).JSON(report)
}
