package planner

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/maheshrc27/content-planner/internal/models"
)

// PlaceholderTopic is stored for a gap day whose suggestion request failed.
const PlaceholderTopic = "New topic"

type TopicSuggester interface {
	SuggestTopic(ctx context.Context, page models.Page, date string) (string, error)
}

type PostCreator interface {
	CreatePost(ctx context.Context, pageID string, seed PostSeed) (*models.Post, error)
}

// GapAdvisor keeps one topic suggestion per empty calendar day of a page.
// A date is requested at most once for the lifetime of the advisor.
type GapAdvisor struct {
	mu          sync.Mutex
	page        models.Page
	suggester   TopicSuggester
	suggestions map[string]string
}

func NewGapAdvisor(page models.Page, suggester TopicSuggester) *GapAdvisor {
	return &GapAdvisor{
		page:        page,
		suggester:   suggester,
		suggestions: make(map[string]string),
	}
}

// SetPage replaces the page metadata used in later requests. Cached
// suggestions are kept.
func (a *GapAdvisor) SetPage(page models.Page) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.page = page
}

// Refresh requests a suggestion for every gap date that has none yet, one
// request at a time, and returns the suggestions for gaps.
func (a *GapAdvisor) Refresh(ctx context.Context, gaps []string) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]string, len(gaps))
	for _, date := range gaps {
		if topic, ok := a.suggestions[date]; ok {
			out[date] = topic
			continue
		}

		topic, err := a.suggester.SuggestTopic(ctx, a.page, date)
		topic = strings.TrimSpace(topic)
		if err != nil {
			slog.Info("topic suggestion failed", "page_id", a.page.ID, "date", date, "error", err)
			topic = PlaceholderTopic
		} else if topic == "" {
			topic = PlaceholderTopic
		}

		a.suggestions[date] = topic
		out[date] = topic
	}
	return out
}

func (a *GapAdvisor) Suggestion(date string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	topic, ok := a.suggestions[date]
	return topic, ok
}

// Accept creates a post on date with the suggested topic pre-filled.
func (a *GapAdvisor) Accept(ctx context.Context, date string, creator PostCreator) (*models.Post, error) {
	topic, ok := a.Suggestion(date)
	if !ok {
		topic = PlaceholderTopic
	}

	a.mu.Lock()
	pageID := a.page.ID
	a.mu.Unlock()

	return creator.CreatePost(ctx, pageID, PostSeed{PostDate: date, Topic: topic})
}

// Advisors holds one GapAdvisor per page.
type Advisors struct {
	mu        sync.Mutex
	suggester TopicSuggester
	byPage    map[string]*GapAdvisor
}

func NewAdvisors(suggester TopicSuggester) *Advisors {
	return &Advisors{
		suggester: suggester,
		byPage:    make(map[string]*GapAdvisor),
	}
}

func (r *Advisors) For(page models.Page) *GapAdvisor {
	r.mu.Lock()
	a, ok := r.byPage[page.ID]
	if !ok {
		a = NewGapAdvisor(page, r.suggester)
		r.byPage[page.ID] = a
	}
	r.mu.Unlock()

	if ok {
		a.SetPage(page)
	}
	return a
}
