package service

import (
	"context"
	"fmt"
	"time"

	"github.com/maheshrc27/content-planner/internal/apperr"
	"github.com/maheshrc27/content-planner/internal/models"
	"github.com/maheshrc27/content-planner/internal/planner"
	"github.com/maheshrc27/content-planner/internal/repository"
)

type Dashboard struct {
	Page           models.Page        `json:"page"`
	Today          string             `json:"today"`
	PublishMode    models.PublishMode `json:"publish_mode"`
	Buckets        planner.Buckets    `json:"buckets"`
	GapSuggestions map[string]string  `json:"gap_suggestions"`
}

type DashboardService interface {
	Overview(ctx context.Context, pageID string) (*Dashboard, error)
	AcceptGap(ctx context.Context, pageID, date string) (*models.Post, error)
	PrefetchGaps(ctx context.Context, page models.Page) (int, error)
}

type dashboardService struct {
	pages      repository.PageRepository
	pr         repository.PostRepository
	advisors   *planner.Advisors
	creator    planner.PostCreator
	mode       models.PublishMode
	weeklyGoal int
	loc        *time.Location
	now        func() time.Time
}

func NewDashboardService(
	pages repository.PageRepository,
	pr repository.PostRepository,
	advisors *planner.Advisors,
	creator planner.PostCreator,
	mode models.PublishMode,
	weeklyGoal int,
	loc *time.Location) DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{
		pages:      pages,
		pr:         pr,
		advisors:   advisors,
		creator:    creator,
		mode:       mode,
		weeklyGoal: weeklyGoal,
		loc:        loc,
		now:        time.Now,
	}
}

func (s *dashboardService) page(ctx context.Context, pageID string) (*models.Page, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("error getting page: %w", err)
	}
	if page == nil {
		return nil, apperr.NotFound("page doesn't exist")
	}
	return page, nil
}

func (s *dashboardService) triage(ctx context.Context, pageID string) (planner.Buckets, time.Time, error) {
	posts, err := s.pr.ListByPageID(ctx, pageID)
	if err != nil {
		return planner.Buckets{}, time.Time{}, fmt.Errorf("error listing posts: %w", err)
	}
	today := s.now().In(s.loc)
	return planner.Triage(posts, today, s.weeklyGoal), today, nil
}

// Overview triages the page's posts and fills in a topic for every gap day
// of the coming week.
func (s *dashboardService) Overview(ctx context.Context, pageID string) (*Dashboard, error) {
	page, err := s.page(ctx, pageID)
	if err != nil {
		return nil, err
	}

	buckets, today, err := s.triage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Page:           *page,
		Today:          planner.FormatDate(today),
		PublishMode:    s.mode,
		Buckets:        buckets,
		GapSuggestions: s.advisors.For(*page).Refresh(ctx, buckets.CalendarGaps),
	}, nil
}

func (s *dashboardService) AcceptGap(ctx context.Context, pageID, date string) (*models.Post, error) {
	if _, err := planner.ParseDate(date); err != nil {
		return nil, apperr.Validation("date %q is not a valid YYYY-MM-DD date", date)
	}

	page, err := s.page(ctx, pageID)
	if err != nil {
		return nil, err
	}
	return s.advisors.For(*page).Accept(ctx, date, s.creator)
}

// PrefetchGaps warms the page's advisor and returns the number of gap days.
func (s *dashboardService) PrefetchGaps(ctx context.Context, page models.Page) (int, error) {
	buckets, _, err := s.triage(ctx, page.ID)
	if err != nil {
		return 0, err
	}
	s.advisors.For(page).Refresh(ctx, buckets.CalendarGaps)
	return len(buckets.CalendarGaps), nil
}
