package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/content-planner/internal/apperr"
	"github.com/maheshrc27/content-planner/internal/models"
	"github.com/maheshrc27/content-planner/internal/planner"
	"github.com/maheshrc27/content-planner/internal/repository"
	"github.com/maheshrc27/content-planner/internal/transfer"
)

const (
	draftTopicPrefix = "[Draft] "
	structurePrefix  = "Structure: "
	DefaultIdeaTopic = "Idea from AI"
	monthLayout      = "2006-01"
)

// PostFilter narrows a page's post list. Zero fields match everything.
type PostFilter struct {
	Format models.PostFormat
	Status models.PostStatus
	Month  string // YYYY-MM
}

type PostService interface {
	CreatePost(ctx context.Context, pageID string, seed planner.PostSeed) (*models.Post, error)
	CreateFromTemplate(ctx context.Context, pageID, templateID string) (*models.Post, error)
	CreateFromIdea(ctx context.Context, pageID, idea, topic string) (*models.Post, error)
	PostInfo(ctx context.Context, postID string) (*models.Post, error)
	List(ctx context.Context, pageID string, f PostFilter) ([]models.Post, error)
	Calendar(ctx context.Context, pageID, month string) ([]models.Post, error)
	Update(ctx context.Context, postID string, upd *transfer.PostUpdate) (*models.Post, error)
	SetStatus(ctx context.Context, postID string, status models.PostStatus) (*models.Post, error)
	Save(ctx context.Context, post *models.Post) error
	Remove(ctx context.Context, postID string) error
	Templates() []models.PostTemplate
}

type postService struct {
	pr        repository.PostRepository
	pages     repository.PageRepository
	lifecycle *planner.Lifecycle
	loc       *time.Location
	now       func() time.Time
}

func NewPostService(
	pr repository.PostRepository,
	pages repository.PageRepository,
	lifecycle *planner.Lifecycle,
	loc *time.Location) PostService {
	if lifecycle == nil {
		lifecycle = planner.NewLifecycle(planner.Unrestricted)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &postService{
		pr:        pr,
		pages:     pages,
		lifecycle: lifecycle,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *postService) today() string {
	return planner.FormatDate(s.now().In(s.loc))
}

func (s *postService) CreatePost(ctx context.Context, pageID string, seed planner.PostSeed) (*models.Post, error) {
	if err := s.ensurePage(ctx, pageID); err != nil {
		return nil, err
	}

	if seed.PostDate != "" {
		if _, err := planner.ParseDate(seed.PostDate); err != nil {
			return nil, apperr.Validation("post date %q is not a valid YYYY-MM-DD date", seed.PostDate)
		}
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	post := planner.NewPost(id, pageID, seed, s.today())
	if err := s.pr.Create(ctx, nil, &post); err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	slog.Info("post created", "post_id", post.ID, "page_id", pageID, "post_date", post.PostDate)
	return &post, nil
}

func (s *postService) CreateFromTemplate(ctx context.Context, pageID, templateID string) (*models.Post, error) {
	tpl, ok := findTemplate(templateID)
	if !ok {
		return nil, apperr.NotFound("template %q doesn't exist", templateID)
	}

	return s.CreatePost(ctx, pageID, planner.PostSeed{
		Topic:        draftTopicPrefix + tpl.Name,
		CaptionDraft: tpl.CaptionExample,
		MainIdea:     structurePrefix + tpl.StructureDescription,
	})
}

func (s *postService) CreateFromIdea(ctx context.Context, pageID, idea, topic string) (*models.Post, error) {
	if strings.TrimSpace(topic) == "" {
		topic = DefaultIdeaTopic
	}
	return s.CreatePost(ctx, pageID, planner.PostSeed{Topic: topic, MainIdea: idea})
}

func (s *postService) PostInfo(ctx context.Context, postID string) (*models.Post, error) {
	if postID == "" {
		err := apperr.Validation("post id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post info: %w", err)
	}
	if post == nil {
		return nil, apperr.NotFound("post doesn't exist")
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, pageID string, f PostFilter) ([]models.Post, error) {
	if f.Month != "" {
		if _, err := time.Parse(monthLayout, f.Month); err != nil {
			return nil, apperr.Validation("month %q is not a valid YYYY-MM month", f.Month)
		}
	}

	posts, err := s.pr.ListByPageID(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}

	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if f.Format != "" && p.Format != f.Format {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Month != "" && !strings.HasPrefix(p.PostDate, f.Month+"-") {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Calendar returns the posts dated within month, ordered by date and slot.
func (s *postService) Calendar(ctx context.Context, pageID, month string) ([]models.Post, error) {
	if month == "" {
		month = s.today()[:len(monthLayout)]
	}
	first, err := time.Parse(monthLayout, month)
	if err != nil {
		return nil, apperr.Validation("month %q is not a valid YYYY-MM month", month)
	}
	last := first.AddDate(0, 1, -1)

	posts, err := s.pr.ListByDateRange(ctx, pageID, planner.FormatDate(first), planner.FormatDate(last))
	if err != nil {
		return nil, fmt.Errorf("error listing calendar: %w", err)
	}
	return posts, nil
}

func (s *postService) Update(ctx context.Context, postID string, upd *transfer.PostUpdate) (*models.Post, error) {
	post, err := s.PostInfo(ctx, postID)
	if err != nil {
		return nil, err
	}

	if upd.PostDate != nil {
		if _, err := planner.ParseDate(*upd.PostDate); err != nil {
			return nil, apperr.Validation("post date %q is not a valid YYYY-MM-DD date", *upd.PostDate)
		}
		post.PostDate = *upd.PostDate
	}
	setString(&post.TimeSlot, upd.TimeSlot)
	setString(&post.Topic, upd.Topic)
	setString(&post.MainIdea, upd.MainIdea)
	setString(&post.Hook, upd.Hook)
	setString(&post.CaptionDraft, upd.CaptionDraft)
	setString(&post.CTA, upd.CTA)
	setString(&post.VisualBrief, upd.VisualBrief)
	setString(&post.Notes, upd.Notes)
	if upd.Goal != nil {
		post.Goal = models.PostGoal(*upd.Goal)
	}
	if upd.Platform != nil {
		post.Platform = models.Platform(*upd.Platform)
	}
	if upd.Format != nil {
		post.Format = models.PostFormat(*upd.Format)
	}
	if upd.Assets != nil {
		assets, err := buildAssets(post, *upd.Assets)
		if err != nil {
			return nil, err
		}
		post.Assets = assets
	}

	if err := s.pr.Update(ctx, nil, post); err != nil {
		return nil, fmt.Errorf("error updating post: %w", err)
	}
	return post, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// buildAssets turns the submitted list into the post's assets. An id must
// name an asset the post already owns; new assets come without one.
func buildAssets(post *models.Post, in []transfer.AssetInput) ([]models.Asset, error) {
	owned := make(map[string]bool, len(post.Assets))
	for _, a := range post.Assets {
		owned[a.ID] = true
	}

	assets := make([]models.Asset, 0, len(in))
	for i, a := range in {
		id := a.ID
		if id != "" && !owned[id] {
			return nil, apperr.Validation("asset %q does not belong to this post", id)
		}
		if id == "" {
			var err error
			if id, err = newID(); err != nil {
				return nil, err
			}
		}
		assets = append(assets, models.Asset{
			ID:            id,
			PageID:        post.PageID,
			RelatedPostID: post.ID,
			Type:          models.AssetType(a.Type),
			URLOrPath:     a.URLOrPath,
			Description:   a.Description,
			Position:      i,
		})
	}
	return assets, nil
}

// SetStatus moves the post to status. It serves both the status field and
// board drags.
func (s *postService) SetStatus(ctx context.Context, postID string, status models.PostStatus) (*models.Post, error) {
	post, err := s.PostInfo(ctx, postID)
	if err != nil {
		return nil, err
	}

	next, err := s.lifecycle.SetStatus(*post, status)
	if err != nil {
		if errors.Is(err, planner.ErrInvalidStatus) || errors.Is(err, planner.ErrTransitionRejected) {
			return nil, apperr.Wrap(apperr.ErrValidation, err, err.Error())
		}
		return nil, err
	}

	if err := s.pr.UpdatePostStatus(ctx, next.Status, next.ID); err != nil {
		return nil, fmt.Errorf("error updating post status: %w", err)
	}
	return &next, nil
}

func (s *postService) Save(ctx context.Context, post *models.Post) error {
	if err := s.pr.Update(ctx, nil, post); err != nil {
		return fmt.Errorf("error saving post: %w", err)
	}
	return nil
}

func (s *postService) Remove(ctx context.Context, postID string) error {
	if _, err := s.PostInfo(ctx, postID); err != nil {
		return err
	}

	if err := s.pr.Remove(ctx, postID); err != nil {
		return fmt.Errorf("error removing post: %w", err)
	}
	return nil
}

func (s *postService) Templates() []models.PostTemplate {
	out := make([]models.PostTemplate, len(postTemplates))
	copy(out, postTemplates)
	return out
}

func (s *postService) ensurePage(ctx context.Context, pageID string) error {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		return fmt.Errorf("error getting page: %w", err)
	}
	if page == nil {
		return apperr.NotFound("page doesn't exist")
	}
	return nil
}
