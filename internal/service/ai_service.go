package service

import (
	"context"

	"github.com/maheshrc27/content-planner/internal/models"
	"github.com/maheshrc27/content-planner/internal/textgen"
)

type AIService interface {
	Ideas(ctx context.Context, pageID string) ([]string, error)
	Draft(ctx context.Context, postID string) (*textgen.Draft, error)
	ApplyHook(ctx context.Context, postID, hook string, d textgen.Draft) (*models.Post, error)
}

type aiService struct {
	tg    *textgen.Service
	posts PostService
	pages PageService
}

func NewAIService(tg *textgen.Service, posts PostService, pages PageService) AIService {
	return &aiService{tg: tg, posts: posts, pages: pages}
}

func (s *aiService) Ideas(ctx context.Context, pageID string) ([]string, error) {
	page, err := s.pages.PageInfo(ctx, pageID)
	if err != nil {
		return nil, err
	}
	return s.tg.GenerateIdeas(ctx, *page)
}

func (s *aiService) Draft(ctx context.Context, postID string) (*textgen.Draft, error) {
	post, err := s.posts.PostInfo(ctx, postID)
	if err != nil {
		return nil, err
	}
	page, err := s.pages.PageInfo(ctx, post.PageID)
	if err != nil {
		return nil, err
	}

	d, err := s.tg.DraftPost(ctx, *post, *page)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ApplyHook writes the chosen hook and the draft into the post and saves it.
func (s *aiService) ApplyHook(ctx context.Context, postID, hook string, d textgen.Draft) (*models.Post, error) {
	post, err := s.posts.PostInfo(ctx, postID)
	if err != nil {
		return nil, err
	}

	next := textgen.ApplyHook(textgen.ApplyDraft(*post, d), d, hook)
	if err := s.posts.Save(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}
