package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/maheshrc27/content-planner/internal/apperr"
	"github.com/maheshrc27/content-planner/internal/models"
)

const (
	DefaultGraphURL = "https://graph.facebook.com"

	// Graph error code for an invalid or expired OAuth token.
	graphCodeInvalidToken = 190
)

type graphPublisher struct {
	client  *http.Client
	baseURL string
	logins  LoginStore
}

func newGraphPublisher(settings Settings, logins LoginStore, opts Options) *graphPublisher {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	base := opts.GraphURL
	if base == "" {
		base = DefaultGraphURL
	}
	base = strings.TrimRight(base, "/")
	if settings.GraphAPIVersion != "" {
		base += "/" + settings.GraphAPIVersion
	}
	return &graphPublisher{client: client, baseURL: base, logins: logins}
}

func (p *graphPublisher) Mode() models.PublishMode {
	return models.PublishModeLive
}

type graphError struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode"`
	FbtraceID    string `json:"fbtrace_id"`
}

type graphAccounts struct {
	Data []struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		AccessToken string   `json:"access_token"`
		Category    string   `json:"category"`
		Tasks       []string `json:"tasks"`
		Picture     struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	} `json:"data"`
	Error *graphError `json:"error"`
}

func (p *graphPublisher) ListTargets(ctx context.Context) ([]Target, error) {
	token, err := p.logins.UserAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading facebook login: %w", err)
	}
	if token == "" {
		return nil, apperr.Authentication("Log in with Facebook to list the pages you manage.")
	}

	params := url.Values{}
	params.Set("fields", "name,access_token,category,tasks,picture")
	params.Set("limit", "50")
	params.Set("access_token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/me/accounts?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	var result graphAccounts
	status, err := p.do(req, &result)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrTransport, err, "Could not load your Facebook pages.")
	}
	if result.Error != nil || status != http.StatusOK {
		if result.Error != nil && result.Error.Code == graphCodeInvalidToken {
			return nil, apperr.Authentication("Facebook login expired or was revoked: %s", result.Error.Message)
		}
		return nil, graphFailure(result.Error, "Could not load your Facebook pages.")
	}

	targets := make([]Target, 0, len(result.Data))
	for _, d := range result.Data {
		targets = append(targets, Target{
			ID:          d.ID,
			Name:        d.Name,
			Category:    d.Category,
			Tasks:       d.Tasks,
			PictureURL:  d.Picture.Data.URL,
			AccessToken: d.AccessToken,
		})
	}
	return targets, nil
}

type graphPostResponse struct {
	ID     string      `json:"id"`
	PostID string      `json:"post_id"`
	Error  *graphError `json:"error"`
}

func (p *graphPublisher) Publish(ctx context.Context, targetID, credential string, post models.Post) (*Result, error) {
	d, err := Plan(post)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("access_token", credential)

	var endpoint, fallback string
	switch d.Route {
	case RoutePhoto:
		endpoint = fmt.Sprintf("%s/%s/photos", p.baseURL, url.PathEscape(targetID))
		fallback = "Failed to publish the photo to Facebook."
		form.Set("url", d.ImageURL)
		form.Set("caption", d.Message)
	default:
		endpoint = fmt.Sprintf("%s/%s/feed", p.baseURL, url.PathEscape(targetID))
		fallback = "Failed to publish the post to Facebook."
		form.Set("message", d.Message)
		if d.Link != "" {
			form.Set("link", d.Link)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result graphPostResponse
	status, err := p.do(req, &result)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrTransport, err, fallback)
	}
	if result.Error != nil || status != http.StatusOK {
		return nil, graphFailure(result.Error, fallback)
	}

	id := result.ID
	if d.Route == RoutePhoto && result.PostID != "" {
		id = result.PostID
	}
	if id == "" {
		return nil, apperr.Transport("%s", fallback)
	}

	slog.Info("published to facebook", "target_id", targetID, "post_id", post.ID, "route", d.Route, "external_id", id)
	return &Result{ID: id, PermalinkURL: permalinkFor(id)}, nil
}

// do sends req and decodes the JSON body into out whatever the status code,
// since Graph reports errors in the body.
func (p *graphPublisher) do(req *http.Request, out any) (int, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return 0, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("error reading response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, nil
		}
		return resp.StatusCode, fmt.Errorf("error parsing response: %w", err)
	}
	return resp.StatusCode, nil
}

func graphFailure(gerr *graphError, fallback string) error {
	if gerr != nil && gerr.Message != "" {
		slog.Info("facebook graph error", "code", gerr.Code, "type", gerr.Type, "fbtrace_id", gerr.FbtraceID)
		return apperr.Transport("%s", gerr.Message)
	}
	return apperr.Transport("%s", fallback)
}
