package queue

import (
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// Enqueuer is the part of asynq.Client used to schedule publishes.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func EnqueuePost(client Enqueuer, payload SchedulePostPayload, delay time.Duration) (*asynq.TaskInfo, error) {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	if delay < 0 {
		delay = 0
	}
	task := asynq.NewTask(TaskTypeSchedulePost, taskPayload)

	info, err := client.Enqueue(task, asynq.ProcessIn(delay), asynq.MaxRetry(3))
	if err != nil {
		return nil, err
	}

	log.Printf("Task scheduled: %+v in %s", payload, delay)
	return info, nil
}
