package queue

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	PostID int64 `json:"post_id"`
}

// EnqueuePost schedules a delayed publish task that fires when the
// post becomes due. The cron sweep remains the catch-all; the claim in
// the dispatcher resolves double delivery.
func EnqueuePost(client *asynq.Client, payload PublishPostPayload, delay time.Duration) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishPost, taskPayload)
	if _, err := client.Enqueue(task, asynq.ProcessIn(delay)); err != nil {
		return err
	}

	slog.Info("publish task enqueued", "post_id", payload.PostID, "delay", delay)
	return nil
}
