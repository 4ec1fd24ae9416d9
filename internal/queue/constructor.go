package queue

import (
	"github.com/maheshrc27/content-planner/internal/service"
)

type Queue struct {
	posts   service.PostService
	publish service.PublishService
}

func NewQueue(posts service.PostService, publish service.PublishService) *Queue {
	return &Queue{
		posts:   posts,
		publish: publish,
	}
}

const TaskTypeSchedulePost = "schedule:post"

type SchedulePostPayload struct {
	PostID string `json:"post_id"`
}
