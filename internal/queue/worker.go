package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/content-planner/internal/apperr"
	"github.com/maheshrc27/content-planner/internal/models"
)

func (j *Queue) HandleSchedulePostTask(ctx context.Context, task *asynq.Task) error {
	var payload SchedulePostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	return j.PublishPost(ctx, payload.PostID)
}

// PublishPost publishes a scheduled post. Posts that were deleted or already
// published in the meantime are skipped. Only transport failures are retried.
func (j *Queue) PublishPost(ctx context.Context, postID string) error {
	post, err := j.posts.PostInfo(ctx, postID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			log.Printf("Scheduled post %s no longer exists", postID)
			return nil
		}
		return err
	}
	if post.Status == models.PostStatusPublished {
		log.Printf("Scheduled post %s is already published", postID)
		return nil
	}

	if _, err := j.publish.Publish(ctx, postID); err != nil {
		log.Printf("Error publishing scheduled post %s: %v", postID, err)
		if errors.Is(err, apperr.ErrTransport) {
			return err
		}
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return nil
}
