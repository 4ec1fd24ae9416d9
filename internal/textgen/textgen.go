package textgen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/content-planner/internal/apperr"
	"github.com/maheshrc27/content-planner/internal/models"
)

// Request is one call to the text service.
type Request struct {
	SystemInstruction string
	Prompt            string
	JSON              bool
	Temperature       float32
}

type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Service builds prompts for the planner's text tasks and parses the
// replies. A nil generator makes every call fail with a configuration error.
type Service struct {
	gen Generator
}

func NewService(gen Generator) *Service {
	return &Service{gen: gen}
}

func (s *Service) generate(ctx context.Context, req Request) (string, error) {
	if s.gen == nil {
		return "", apperr.New(apperr.ErrConfiguration, "text service is not configured")
	}
	text, err := s.gen.Generate(ctx, req)
	if err != nil {
		slog.Info(err.Error())
		return "", apperr.Wrap(apperr.ErrTransport, err, "The text service is unavailable, try again later.")
	}
	return text, nil
}

// GenerateIdeas proposes five content ideas for the coming week.
func (s *Service) GenerateIdeas(ctx context.Context, page models.Page) ([]string, error) {
	text, err := s.generate(ctx, Request{
		SystemInstruction: ideasInstruction(page),
		Prompt:            fmt.Sprintf("Give me 5 fresh content ideas related to: %s.", page.Niche),
		JSON:              true,
	})
	if err != nil {
		return nil, err
	}

	ideas, err := ParseIdeas(text)
	if err != nil {
		slog.Info("ideas reply could not be parsed", "page_id", page.ID, "error", err)
	}
	return ideas, nil
}

// SuggestTopic proposes a one-line topic for a post on date.
func (s *Service) SuggestTopic(ctx context.Context, page models.Page, date string) (string, error) {
	text, err := s.generate(ctx, Request{
		Prompt: fmt.Sprintf(
			"Suggest one short post topic (under 10 words) for the page %q (%s) on %s. Reply with the topic text only.",
			page.Name, page.Niche, date),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// DraftPost writes a structured draft for post in the page's voice.
func (s *Service) DraftPost(ctx context.Context, post models.Post, page models.Page) (Draft, error) {
	text, err := s.generate(ctx, Request{
		SystemInstruction: draftInstruction(post, page),
		Prompt:            draftPrompt(post),
		JSON:              true,
		Temperature:       0.7,
	})
	if err != nil {
		return Draft{}, err
	}

	d, err := ParseDraft(text)
	if err != nil {
		slog.Info("draft reply could not be parsed", "post_id", post.ID, "error", err)
	}
	return d, nil
}

func ideasInstruction(page models.Page) string {
	return fmt.Sprintf(`You are the creative content strategist for the Facebook page %q.
Suggest 5 engaging content ideas for next week.
Brand voice: %s.

Keep the content clean and within community standards. Avoid sensitive, violent or controversial topics.

Output format: a plain JSON array of strings. Do not use markdown.`, page.Name, page.BrandVoice)
}

func draftInstruction(post models.Post, page models.Page) string {
	tag := strings.Join(strings.Fields(page.Name), "")
	return fmt.Sprintf(`You are a content marketing specialist managing the page %q (%s).

Brand voice: %s

TASK
Write one Facebook post about the topic %q with the idea %q.

STRUCTURE
1. Title: short and attention grabbing.
2. Opening: a concrete, relatable everyday situation.
3. Body: three specific benefits or offers as bullet points.
4. Closing: a gentle call to action.
5. Footer: hashtags, including #%s.

At most 200 words. Use emoji naturally. Do not overpromise.

OUTPUT
Return a JSON object, no markdown:
- analysis: one sentence analysing the angle.
- hooks: 3 different short headlines.
- caption: the full post following the structure above.
- cta: 1-2 alternative calls to action.
- visual_ideas: 3 image ideas as strings.
- hashtag_suggestions: the hashtags used in the post (3-5).`,
		page.Name, page.Niche, page.BrandVoice, post.Topic, post.MainIdea, tag)
}

func draftPrompt(post models.Post) string {
	idea := post.MainIdea
	if idea == "" {
		idea = "Be creative based on the topic"
	}
	return fmt.Sprintf(`CONTENT PLAN
- Topic: %s
- Goal: %s
- Main idea: %s

Write the Facebook post in under 200 words.`, post.Topic, post.Goal, idea)
}
