package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	config "github.com/maheshrc27/content-planner/configs"
	"github.com/maheshrc27/content-planner/internal/apperr"
	"github.com/maheshrc27/content-planner/internal/models"
	"github.com/maheshrc27/content-planner/internal/planner"
	"github.com/maheshrc27/content-planner/internal/service"
	"github.com/maheshrc27/content-planner/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRespondMapsKinds(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{apperr.Validation("bad date"), fiber.StatusUnprocessableEntity, "validation"},
		{apperr.Authentication("expired"), fiber.StatusUnauthorized, "authentication"},
		{apperr.NotFound("post doesn't exist"), fiber.StatusNotFound, "not_found"},
		{apperr.Transport("Facebook is down"), fiber.StatusBadGateway, "transport"},
		{apperr.New(apperr.ErrConfiguration, "no app id"), fiber.StatusServiceUnavailable, "configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respond(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body := decode(t, resp)
			assert.Equal(t, tt.err.Error(), body["error"])
			assert.Equal(t, tt.kind, body["kind"])
		})
	}
}

func TestRespondHidesInternalErrors(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return respond(c, errors.New("pq: connection refused"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Something went wrong", decode(t, resp)["error"])
}

func TestBindValidates(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var in transfer.PostCreation
		if err := bind(c, &in); err != nil {
			return respond(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"post_date":"2024-05-12","time_slot":"19:30","format":"IMAGE"}`, fiber.StatusNoContent},
		{"empty", `{}`, fiber.StatusNoContent},
		{"bad date", `{"post_date":"12/05/2024"}`, fiber.StatusUnprocessableEntity},
		{"bad format", `{"format":"GIF"}`, fiber.StatusUnprocessableEntity},
		{"multi-line slot", `{"time_slot":"morning\nevening"}`, fiber.StatusUnprocessableEntity},
		{"broken json", `{"topic":`, fiber.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest(http.MethodPost, "/", tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestTimeSlotRuleRegistered(t *testing.T) {
	in := struct {
		Slot string `validate:"time_slot"`
	}{Slot: "19:30"}
	assert.NotPanics(t, func() {
		assert.NoError(t, Validate.Struct(in))
	})
}

type stubAuth struct{}

func (stubAuth) Login(_ context.Context, password string) (string, error) {
	if password != "hunter2" {
		return "", apperr.Authentication("wrong password")
	}
	return "signed-token", nil
}

func TestLoginSetsCookie(t *testing.T) {
	h := NewAuthHandler(config.Config{CookieName: "planner_session"}, stubAuth{})
	app := fiber.New()
	app.Post("/login", h.Login)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/login", `{"password":"hunter2"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Set-Cookie"), "planner_session=signed-token")
	assert.Equal(t, "signed-token", decode(t, resp)["token"])

	resp, err = app.Test(jsonRequest(http.MethodPost, "/login", `{"password":"nope"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Set-Cookie"))
}

type stubPosts struct {
	service.PostService
	post   *models.Post
	pageID string
	seed   planner.PostSeed
}

func (s *stubPosts) CreatePost(_ context.Context, pageID string, seed planner.PostSeed) (*models.Post, error) {
	s.pageID = pageID
	s.seed = seed
	return &models.Post{ID: "p-1", PageID: pageID, Status: models.PostStatusIdea}, nil
}

func (s *stubPosts) PostInfo(_ context.Context, postID string) (*models.Post, error) {
	if s.post == nil || s.post.ID != postID {
		return nil, apperr.NotFound("post doesn't exist")
	}
	p := s.post.Clone()
	return &p, nil
}

type stubPublish struct {
	service.PublishService
	at time.Time
}

func (s *stubPublish) PublishAt(models.Post) (time.Time, error) {
	return s.at, nil
}

type recordingClient struct {
	tasks []*asynq.Task
}

func (r *recordingClient) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

func TestCreatePost(t *testing.T) {
	posts := &stubPosts{}
	h := NewPostHandler(posts, nil, nil, nil, nil)
	app := fiber.New()
	app.Post("/pages/:id/posts", h.CreatePost)

	body := `{"post_date":"2024-05-12","topic":"Launch","format":"VIDEO","goal":"Conversion","platform":"Facebook"}`
	resp, err := app.Test(jsonRequest(http.MethodPost, "/pages/pg-1/posts", body))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	assert.Equal(t, "pg-1", posts.pageID)
	assert.Equal(t, planner.PostSeed{
		PostDate: "2024-05-12",
		Topic:    "Launch",
		Format:   models.PostFormatVideo,
		Goal:     models.PostGoalConversion,
		Platform: models.PlatformFacebook,
	}, posts.seed)
}

func TestSchedule(t *testing.T) {
	posts := &stubPosts{post: &models.Post{ID: "p-1", Status: models.PostStatusReview}}
	client := &recordingClient{}
	h := NewPostHandler(posts, &stubPublish{at: time.Now().Add(time.Hour)}, nil, nil, client)

	app := fiber.New()
	app.Post("/posts/:id/schedule", h.Schedule)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts/p-1/schedule", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "task-1", decode(t, resp)["task_id"])
	require.Len(t, client.tasks, 1)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/posts/missing/schedule", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	posts.post.Status = models.PostStatusPublished
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/posts/p-1/schedule", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Len(t, client.tasks, 1)
}
