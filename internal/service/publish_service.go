package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/content-planner/internal/apperr"
	"github.com/maheshrc27/content-planner/internal/models"
	"github.com/maheshrc27/content-planner/internal/planner"
	"github.com/maheshrc27/content-planner/internal/publisher"
	"github.com/maheshrc27/content-planner/internal/repository"
)

type PublishService interface {
	Publish(ctx context.Context, postID string) (*models.Post, error)
	History(ctx context.Context, postID string) ([]models.PostingHistory, error)
	PublishAt(post models.Post) (time.Time, error)
}

type publishService struct {
	posts PostService
	pages PageService
	pr    repository.PostRepository
	ph    repository.PostingHistoryRepository
	pub   publisher.Publisher
	loc   *time.Location
}

func NewPublishService(
	posts PostService,
	pages PageService,
	pr repository.PostRepository,
	ph repository.PostingHistoryRepository,
	pub publisher.Publisher,
	loc *time.Location) PublishService {
	if loc == nil {
		loc = time.UTC
	}
	return &publishService{
		posts: posts,
		pages: pages,
		pr:    pr,
		ph:    ph,
		pub:   pub,
		loc:   loc,
	}
}

// Publish hands the post to the publisher and, on success, marks it
// published. Once started the attempt runs to completion even if the caller
// goes away. Every attempt is recorded in the publish history.
func (s *publishService) Publish(ctx context.Context, postID string) (*models.Post, error) {
	ctx = context.WithoutCancel(ctx)

	post, err := s.posts.PostInfo(ctx, postID)
	if err != nil {
		return nil, err
	}

	page, err := s.pages.PageInfo(ctx, post.PageID)
	if err != nil {
		return nil, err
	}

	history := models.PostingHistory{
		PostID:   post.ID,
		PageID:   page.ID,
		TargetID: page.ExternalTargetID,
		Mode:     s.pub.Mode(),
	}

	res, err := s.deliver(ctx, page, *post)
	if err != nil {
		history.ErrorKind = apperr.KindName(err)
		history.ErrorMessage = err.Error()
		s.record(ctx, &history)
		slog.Info("publish failed", "post_id", post.ID, "mode", history.Mode, "error", err)
		return nil, err
	}

	next := publisher.Apply(*post, res)
	history.ExternalPostID = res.ID
	history.PermalinkURL = next.PostLink
	s.record(ctx, &history)

	if err := s.pr.MarkPublished(ctx, next.ID, next.PostLink); err != nil {
		return nil, fmt.Errorf("post was published but could not be saved: %w", err)
	}

	slog.Info("post published", "post_id", next.ID, "mode", history.Mode, "link", next.PostLink)
	return &next, nil
}

func (s *publishService) deliver(ctx context.Context, page *models.Page, post models.Post) (*publisher.Result, error) {
	credential, err := s.pages.Credential(ctx, page)
	if err != nil {
		return nil, err
	}
	return s.pub.Publish(ctx, page.ExternalTargetID, credential, post)
}

func (s *publishService) record(ctx context.Context, h *models.PostingHistory) {
	if _, err := s.ph.Create(ctx, h); err != nil {
		slog.Info("error saving publish history", "post_id", h.PostID, "error", err)
	}
}

func (s *publishService) History(ctx context.Context, postID string) ([]models.PostingHistory, error) {
	if _, err := s.posts.PostInfo(ctx, postID); err != nil {
		return nil, err
	}

	history, err := s.ph.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error listing publish history: %w", err)
	}
	return history, nil
}

// PublishAt is the moment a scheduled publish of post should run: its date
// at its time slot in the planner's time zone. A slot that is not HH:MM
// falls back to the default slot.
func (s *publishService) PublishAt(post models.Post) (time.Time, error) {
	date, err := planner.ParseDate(post.PostDate)
	if err != nil {
		return time.Time{}, apperr.Validation("post date %q is not a valid YYYY-MM-DD date", post.PostDate)
	}

	slot, err := time.Parse("15:04", strings.TrimSpace(post.TimeSlot))
	if err != nil {
		slot, _ = time.Parse("15:04", planner.DefaultTimeSlot)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), slot.Hour(), slot.Minute(), 0, 0, s.loc), nil
}
