package publisher

import (
	"net/url"
	"strings"

	"github.com/maheshrc27/content-planner/internal/apperr"
	"github.com/maheshrc27/content-planner/internal/models"
)

type Route string

const (
	RoutePhoto Route = "photo"
	RouteFeed  Route = "feed"
)

// Delivery is what gets sent to a target for one post.
type Delivery struct {
	Route    Route
	ImageURL string
	Message  string
	Link     string
}

// Plan chooses the delivery path for post. An image attachment that only
// exists in the operator's session can never be published.
func Plan(post models.Post) (Delivery, error) {
	d := Delivery{Route: RouteFeed, Message: post.CaptionDraft, Link: post.PostLink}

	if len(post.Assets) == 0 || post.Assets[0].Type != models.AssetTypeImage {
		return d, nil
	}

	ref := strings.TrimSpace(post.Assets[0].URLOrPath)
	if !IsPublicReference(ref) {
		return Delivery{}, apperr.Validation(
			"image %q is only available locally; the target needs a public image URL, upload the image first", ref)
	}
	return Delivery{Route: RoutePhoto, ImageURL: ref, Message: post.CaptionDraft}, nil
}

// IsPublicReference reports whether ref can be fetched from outside the
// current session: an absolute http(s) URL with a host.
func IsPublicReference(ref string) bool {
	ref = strings.TrimSpace(ref)
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
