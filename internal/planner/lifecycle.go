package planner

import (
	"errors"
	"fmt"

	"github.com/maheshrc27/content-planner/internal/models"
)

var (
	ErrInvalidStatus      = errors.New("invalid post status")
	ErrTransitionRejected = errors.New("status transition rejected")
)

// TransitionPolicy decides whether a post may move from one status to
// another. Returning an error rejects the change.
type TransitionPolicy interface {
	Check(post models.Post, to models.PostStatus) error
}

type TransitionPolicyFunc func(post models.Post, to models.PostStatus) error

func (f TransitionPolicyFunc) Check(post models.Post, to models.PostStatus) error {
	return f(post, to)
}

// Unrestricted allows every transition, including moving a card backwards
// and re-opening published posts.
var Unrestricted TransitionPolicy = TransitionPolicyFunc(func(models.Post, models.PostStatus) error {
	return nil
})

type Lifecycle struct {
	policy TransitionPolicy
}

func NewLifecycle(policy TransitionPolicy) *Lifecycle {
	if policy == nil {
		policy = Unrestricted
	}
	return &Lifecycle{policy: policy}
}

// SetStatus returns a copy of post with its status changed to status. The
// post link is left as it is.
func (l *Lifecycle) SetStatus(post models.Post, status models.PostStatus) (models.Post, error) {
	if !status.Valid() {
		return post, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := l.policy.Check(post, status); err != nil {
		return post, fmt.Errorf("%w: %s -> %s: %v", ErrTransitionRejected, post.Status, status, err)
	}

	next := post.Clone()
	next.Status = status
	return next, nil
}

var defaultLifecycle = NewLifecycle(Unrestricted)

func SetStatus(post models.Post, status models.PostStatus) (models.Post, error) {
	return defaultLifecycle.SetStatus(post, status)
}

// PostSeed carries the fields a caller may pre-fill when creating a post.
type PostSeed struct {
	PostDate     string
	TimeSlot     string
	Topic        string
	MainIdea     string
	CaptionDraft string
	Format       models.PostFormat
	Goal         models.PostGoal
	Platform     models.Platform
}

const DefaultTimeSlot = "09:00"

// NewPost builds a post in its initial IDEA state. Empty seed fields fall
// back to the planner defaults; an empty date means today.
func NewPost(id, pageID string, seed PostSeed, today string) models.Post {
	p := models.Post{
		ID:           id,
		PageID:       pageID,
		PostDate:     seed.PostDate,
		TimeSlot:     seed.TimeSlot,
		Goal:         seed.Goal,
		Topic:        seed.Topic,
		Platform:     seed.Platform,
		Format:       seed.Format,
		MainIdea:     seed.MainIdea,
		CaptionDraft: seed.CaptionDraft,
		Status:       models.PostStatusIdea,
		Assets:       []models.Asset{},
	}
	if p.PostDate == "" {
		p.PostDate = today
	}
	if p.TimeSlot == "" {
		p.TimeSlot = DefaultTimeSlot
	}
	if !p.Goal.Valid() {
		p.Goal = models.PostGoalAwareness
	}
	if p.Platform == "" {
		p.Platform = models.PlatformFacebook
	}
	if !p.Format.Valid() {
		p.Format = models.PostFormatImage
	}
	return p
}
