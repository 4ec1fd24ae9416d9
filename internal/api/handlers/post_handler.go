package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/content-planner/internal/apperr"
	"github.com/maheshrc27/content-planner/internal/models"
	"github.com/maheshrc27/content-planner/internal/planner"
	"github.com/maheshrc27/content-planner/internal/queue"
	"github.com/maheshrc27/content-planner/internal/service"
	"github.com/maheshrc27/content-planner/internal/textgen"
	"github.com/maheshrc27/content-planner/internal/transfer"
)

type PostHandler struct {
	s        service.PostService
	publish  service.PublishService
	ai       service.AIService
	assets   service.AssetService
	enqueuer queue.Enqueuer
}

func NewPostHandler(
	s service.PostService,
	publish service.PublishService,
	ai service.AIService,
	assets service.AssetService,
	enqueuer queue.Enqueuer) *PostHandler {
	return &PostHandler{
		s:        s,
		publish:  publish,
		ai:       ai,
		assets:   assets,
		enqueuer: enqueuer,
	}
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.s.List(c.Context(), c.Params("id"), service.PostFilter{
		Format: models.PostFormat(c.Query("format")),
		Status: models.PostStatus(c.Query("status")),
		Month:  c.Query("month"),
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) Calendar(c *fiber.Ctx) error {
	posts, err := h.s.Calendar(c.Context(), c.Params("id"), c.Query("month"))
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var in transfer.PostCreation
	if err := bind(c, &in); err != nil {
		return respond(c, err)
	}

	post, err := h.s.CreatePost(c.Context(), c.Params("id"), planner.PostSeed{
		PostDate:     in.PostDate,
		TimeSlot:     in.TimeSlot,
		Topic:        in.Topic,
		MainIdea:     in.MainIdea,
		CaptionDraft: in.CaptionDraft,
		Format:       models.PostFormat(in.Format),
		Goal:         models.PostGoal(in.Goal),
		Platform:     models.Platform(in.Platform),
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) CreateFromTemplate(c *fiber.Ctx) error {
	post, err := h.s.CreateFromTemplate(c.Context(), c.Params("id"), c.Params("templateID"))
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) CreateFromIdea(c *fiber.Ctx) error {
	var in transfer.IdeaPost
	if err := bind(c, &in); err != nil {
		return respond(c, err)
	}

	post, err := h.s.CreateFromIdea(c.Context(), c.Params("id"), in.Idea, in.Topic)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) Templates(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.s.Templates())
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.s.PostInfo(c.Context(), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	var in transfer.PostUpdate
	if err := bind(c, &in); err != nil {
		return respond(c, err)
	}

	post, err := h.s.Update(c.Context(), c.Params("id"), &in)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) SetStatus(c *fiber.Ctx) error {
	var in transfer.StatusUpdate
	if err := bind(c, &in); err != nil {
		return respond(c, err)
	}

	post, err := h.s.SetStatus(c.Context(), c.Params("id"), models.PostStatus(in.Status))
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	if err := h.s.Remove(c.Context(), c.Params("id")); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PostHandler) Publish(c *fiber.Ctx) error {
	post, err := h.publish.Publish(c.Context(), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

// Schedule queues a publish for the post's date and time slot. A moment in
// the past publishes right away.
func (h *PostHandler) Schedule(c *fiber.Ctx) error {
	post, err := h.s.PostInfo(c.Context(), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	if post.Status == models.PostStatusPublished {
		return respond(c, apperr.Validation("post is already published"))
	}

	at, err := h.publish.PublishAt(*post)
	if err != nil {
		return respond(c, err)
	}

	info, err := queue.EnqueuePost(h.enqueuer, queue.SchedulePostPayload{PostID: post.ID}, time.Until(at))
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error scheduling post",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message":    "Post scheduled successfully",
		"task_id":    info.ID,
		"publish_at": at,
	})
}

func (h *PostHandler) History(c *fiber.Ctx) error {
	history, err := h.publish.History(c.Context(), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(history)
}

func (h *PostHandler) Draft(c *fiber.Ctx) error {
	draft, err := h.ai.Draft(c.Context(), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(draft)
}

func (h *PostHandler) ApplyHook(c *fiber.Ctx) error {
	var in transfer.ApplyHook
	if err := bind(c, &in); err != nil {
		return respond(c, err)
	}

	post, err := h.ai.ApplyHook(c.Context(), c.Params("id"), in.Hook, textgen.Draft{
		Caption:            in.Caption,
		CTA:                in.CTA,
		VisualIdeas:        in.VisualIdeas,
		HashtagSuggestions: in.HashtagSuggestions,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) UploadAsset(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		slog.Info(err.Error())
		return respond(c, apperr.Validation("No file selected"))
	}

	post, err := h.assets.Upload(c.Context(), c.Params("id"), c.FormValue("description"), file)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}
