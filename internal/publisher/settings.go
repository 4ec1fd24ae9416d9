package publisher

import (
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	config "github.com/maheshrc27/content-planner/configs"
	"github.com/maheshrc27/content-planner/internal/models"
)

const placeholderAppID = "YOUR_FB_APP_ID"

// Settings is decided once at startup and never re-evaluated.
type Settings struct {
	Mode            models.PublishMode
	AppID           string
	AppSecret       string
	GraphAPIVersion string
	RedirectURL     string

	TargetsDelay time.Duration
	PublishDelay time.Duration
}

// ResolveSettings picks Live mode only when a real app id is configured and
// the service is reachable over a secure origin. Anything else falls back to
// Simulated mode.
func ResolveSettings(cfg config.Config) Settings {
	s := Settings{
		Mode:            models.PublishModeSimulated,
		AppID:           cfg.Facebook.AppID,
		AppSecret:       cfg.Facebook.AppSecret,
		GraphAPIVersion: cfg.Facebook.GraphAPIVersion,
		RedirectURL:     strings.TrimRight(cfg.PublicURL, "/") + "/auth/facebook/callback",
		TargetsDelay:    cfg.SimulatedTargetsDelay,
		PublishDelay:    cfg.SimulatedPublishDelay,
	}

	validID := HasValidAppID(cfg.Facebook.AppID)
	secure := IsSecureOrigin(cfg.PublicURL)
	if !validID {
		slog.Warn("facebook app id missing or placeholder, publishing runs in simulated mode")
	}
	if !secure {
		slog.Warn("public url is not https or loopback, publishing runs in simulated mode", "public_url", cfg.PublicURL)
	}
	if validID && secure {
		s.Mode = models.PublishModeLive
	}
	return s
}

func HasValidAppID(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" || id == placeholderAppID {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsSecureOrigin reports whether rawURL is served over https or from a
// loopback development host.
func IsSecureOrigin(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme == "https" {
		return true
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
