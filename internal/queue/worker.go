package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	job "github.com/dsnmoura/thrg-flow/internal/jobs"
)

// Worker handles delayed publish tasks by delegating to the same
// claim-based pipeline the cron sweep uses.
type Worker struct {
	publish *job.PublishJob
}

func NewWorker(publish *job.PublishJob) *Worker {
	return &Worker{publish: publish}
}

func (w *Worker) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}
	return w.publish.PublishOne(ctx, payload.PostID)
}
