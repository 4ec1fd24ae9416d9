package publisher

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/maheshrc27/content-planner/internal/models"
)

// Target is a destination the operator can publish to.
type Target struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Tasks       []string `json:"tasks"`
	PictureURL  string   `json:"picture_url,omitempty"`
	AccessToken string   `json:"-"`
}

type Result struct {
	ID           string `json:"id"`
	PermalinkURL string `json:"permalink_url,omitempty"`
}

type Publisher interface {
	Mode() models.PublishMode
	ListTargets(ctx context.Context) ([]Target, error)
	Publish(ctx context.Context, targetID, credential string, post models.Post) (*Result, error)
}

// LoginStore gives the live publisher the operator's user token. An empty
// token means the operator has not logged in.
type LoginStore interface {
	UserAccessToken(ctx context.Context) (string, error)
}

type Options struct {
	HTTPClient *http.Client
	GraphURL   string
	Now        func() time.Time
}

// New builds the publisher for the mode fixed in settings.
func New(settings Settings, logins LoginStore, opts Options) Publisher {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if settings.Mode == models.PublishModeLive {
		return newGraphPublisher(settings, logins, opts)
	}
	return newSimulatedPublisher(settings, opts.Now)
}

// Apply returns post marked as published at the result's permalink.
func Apply(post models.Post, res *Result) models.Post {
	next := post.Clone()
	next.Status = models.PostStatusPublished
	next.PostLink = res.PermalinkURL
	if next.PostLink == "" {
		next.PostLink = permalinkFor(res.ID)
	}
	return next
}

// permalinkFor builds a link from a Graph id of the form PAGEID_POSTID.
func permalinkFor(id string) string {
	parts := strings.Split(id, "_")
	if len(parts) > 1 && parts[1] != "" {
		return "https://facebook.com/" + parts[1]
	}
	return "https://facebook.com/" + id
}
