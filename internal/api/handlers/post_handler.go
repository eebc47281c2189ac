package handlers

import (
	"errors"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"github.com/dsnmoura/thrg-flow/internal/models"
	"github.com/dsnmoura/thrg-flow/internal/queue"
	"github.com/dsnmoura/thrg-flow/internal/service"
	"github.com/dsnmoura/thrg-flow/internal/transfer"
)

type PostHandler struct {
	s           service.ScheduleService
	storage     service.StorageService
	AsynqClient *asynq.Client
}

func NewPostHandler(s service.ScheduleService, storage service.StorageService, asynqClient *asynq.Client) *PostHandler {
	return &PostHandler{s: s, storage: storage, AsynqClient: asynqClient}
}

func (h *PostHandler) SchedulePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	pc := &transfer.PostCreation{
		Title:      c.FormValue("title"),
		Content:    c.FormValue("content"),
		Platform:   c.FormValue("platform"),
		Date:       c.FormValue("date"),
		Time:       c.FormValue("time"),
		Timezone:   c.FormValue("timezone"),
		TemplateID: c.FormValue("template_id"),
	}

	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unable to read image",
			})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unable to read image",
			})
		}

		imageURL, err := h.storage.UploadImage(c.Context(), data)
		if err != nil {
			slog.Info(err.Error())
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		pc.ImageURL = imageURL
	}

	post, delay, err := h.s.SchedulePost(c.Context(), userID, pc)
	if err != nil {
		return postError(c, err)
	}

	if err := queue.EnqueuePost(h.AsynqClient, queue.PublishPostPayload{PostID: post.ID}, delay); err != nil {
		// The cron sweep still publishes the post; only the fast path
		// is lost.
		slog.Info("failed to enqueue publish task", "post_id", post.ID, "error", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post scheduled successfully",
		"post":    post,
	})
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.QueryInt("id", 0)

	if postID != 0 {
		post, err := h.s.PostInfo(c.Context(), int64(postID), userID)
		if err != nil {
			return postError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(post)
	}

	posts, err := h.s.List(c.Context(), userID)
	if err != nil {
		return postError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) CancelPost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	if err := h.s.CancelPost(c.Context(), userID, int64(postID)); err != nil {
		return postError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Schedule cancelled",
	})
}

func (h *PostHandler) OptimalTimes(c *fiber.Ctx) error {
	platform := c.Params("platform")

	times := h.s.OptimalTimes(platform)
	if times == nil {
		times = []string{}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"platform":      platform,
		"optimal_times": times,
	})
}

func postError(c *fiber.Ctx, err error) error {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  ve.Error(),
			"reason": ve.Reason,
			"field":  ve.Field,
		})
	case errors.Is(err, models.ErrAuthRequired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	case errors.Is(err, models.ErrNotCancellable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Post can only be cancelled while scheduled",
		})
	case errors.Is(err, models.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Something went wrong",
		})
	}
}
