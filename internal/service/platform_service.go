package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maheshrc27/content-planner/internal/apperr"
	"github.com/maheshrc27/content-planner/internal/models"
	"github.com/maheshrc27/content-planner/internal/publisher"
	"github.com/maheshrc27/content-planner/internal/repository"
	"github.com/maheshrc27/content-planner/internal/transfer"
	"github.com/maheshrc27/content-planner/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const (
	ProviderFacebook = "facebook"

	stateSubject  = "operator"
	statePurpose  = "oauth_state"
	stateLifetime = 10 * time.Minute
)

var facebookScopes = []string{"pages_show_list", "pages_read_engagement", "pages_manage_posts"}

// PlatformService manages the operator's Facebook login. It is also the
// publisher's source of the user access token.
type PlatformService interface {
	GetAuthURL(ctx context.Context) (string, error)
	Callback(ctx context.Context, code, state, denied string) (*models.OperatorCredential, error)
	Status(ctx context.Context) (*transfer.FacebookLoginStatus, error)
	Logout(ctx context.Context) error
	UserAccessToken(ctx context.Context) (string, error)
}

type platformService struct {
	settings  publisher.Settings
	secretKey string
	key       []byte
	cr        repository.CredentialRepository
	oauth     *oauth2.Config
	client    *http.Client
	graphURL  string
	now       func() time.Time
}

func NewPlatformService(settings publisher.Settings, secretKey string, cr repository.CredentialRepository) PlatformService {
	return &platformService{
		settings:  settings,
		secretKey: secretKey,
		key:       utils.DeriveKey(secretKey),
		cr:        cr,
		oauth: &oauth2.Config{
			ClientID:     settings.AppID,
			ClientSecret: settings.AppSecret,
			RedirectURL:  settings.RedirectURL,
			Scopes:       facebookScopes,
			Endpoint:     facebook.Endpoint,
		},
		client:   http.DefaultClient,
		graphURL: publisher.DefaultGraphURL + "/" + settings.GraphAPIVersion,
		now:      time.Now,
	}
}

func (s *platformService) GetAuthURL(ctx context.Context) (string, error) {
	if s.settings.Mode != models.PublishModeLive {
		return "", apperr.New(apperr.ErrConfiguration, "Facebook login is not available in simulated mode.")
	}

	state, err := utils.GenerateToken(s.secretKey, stateSubject, statePurpose, stateLifetime)
	if err != nil {
		return "", fmt.Errorf("error creating oauth state: %w", err)
	}
	return s.oauth.AuthCodeURL(state), nil
}

// Callback completes the login. denied is the error_reason Facebook sends
// when the operator cancels the dialog.
func (s *platformService) Callback(ctx context.Context, code, state, denied string) (*models.OperatorCredential, error) {
	if denied != "" {
		return nil, apperr.Authentication("Facebook login was cancelled or not fully authorised (%s).", denied)
	}
	if code == "" || state == "" {
		err := apperr.Authentication("code or state is empty")
		slog.Info(err.Error())
		return nil, err
	}
	if _, err := utils.ValidateToken(s.secretKey, state, statePurpose); err != nil {
		return nil, apperr.Wrap(apperr.ErrAuthentication, err, "The login request expired, please try again.")
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return nil, apperr.Wrap(apperr.ErrAuthentication, err, "Facebook rejected the login code.")
	}

	long, err := s.exchangeLongLived(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	info, err := s.userInfo(ctx, long.AccessToken)
	if err != nil {
		return nil, err
	}

	encrypted, err := utils.Encrypt([]byte(long.AccessToken), s.key)
	if err != nil {
		return nil, fmt.Errorf("error encrypting access token: %w", err)
	}

	expiresIn := long.ExpiresIn
	if expiresIn == 0 {
		// Facebook omits expires_in for tokens that last about 60 days.
		expiresIn = 60 * 24 * 60 * 60
	}

	cred := &models.OperatorCredential{
		Provider:       ProviderFacebook,
		AccountID:      info.ID,
		AccountName:    info.Name,
		AccessToken:    encrypted,
		TokenExpiresAt: GetExpiresAt(expiresIn),
	}
	if err := s.cr.Upsert(ctx, cred); err != nil {
		return nil, fmt.Errorf("error saving facebook login: %w", err)
	}

	slog.Info("facebook login stored", "account_id", info.ID)
	return cred, nil
}

func (s *platformService) exchangeLongLived(ctx context.Context, shortLived string) (*transfer.FacebookToken, error) {
	params := url.Values{}
	params.Set("grant_type", "fb_exchange_token")
	params.Set("client_id", s.settings.AppID)
	params.Set("client_secret", s.settings.AppSecret)
	params.Set("fb_exchange_token", shortLived)

	var token transfer.FacebookToken
	if err := s.graphGet(ctx, "/oauth/access_token", params, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, apperr.Authentication("Facebook did not return an access token.")
	}
	return &token, nil
}

func (s *platformService) userInfo(ctx context.Context, accessToken string) (*transfer.FacebookUserInfo, error) {
	params := url.Values{}
	params.Set("fields", "id,name")
	params.Set("access_token", accessToken)

	var info transfer.FacebookUserInfo
	if err := s.graphGet(ctx, "/me", params, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *platformService) graphGet(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := strings.TrimRight(s.graphURL, "/") + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return apperr.Wrap(apperr.ErrTransport, err, "Could not reach Facebook.")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var fbErr transfer.FacebookErrorResponse
		if json.Unmarshal(body, &fbErr) == nil && fbErr.Error.Message != "" {
			return apperr.Authentication("%s", fbErr.Error.Message)
		}
		return apperr.Authentication("Facebook login failed with status %d.", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}
	return nil
}

func (s *platformService) Status(ctx context.Context) (*transfer.FacebookLoginStatus, error) {
	cred, err := s.cr.GetByProvider(ctx, ProviderFacebook)
	if err != nil {
		return nil, fmt.Errorf("error getting facebook login: %w", err)
	}
	if cred == nil || s.now().After(cred.TokenExpiresAt) {
		return &transfer.FacebookLoginStatus{Connected: false}, nil
	}
	return &transfer.FacebookLoginStatus{
		Connected:   true,
		AccountID:   cred.AccountID,
		AccountName: cred.AccountName,
		ExpiresAt:   cred.TokenExpiresAt,
	}, nil
}

func (s *platformService) Logout(ctx context.Context) error {
	if err := s.cr.Remove(ctx, ProviderFacebook); err != nil {
		return fmt.Errorf("error removing facebook login: %w", err)
	}
	return nil
}

// UserAccessToken returns "" when no login is stored.
func (s *platformService) UserAccessToken(ctx context.Context) (string, error) {
	cred, err := s.cr.GetByProvider(ctx, ProviderFacebook)
	if err != nil {
		return "", err
	}
	if cred == nil {
		return "", nil
	}
	if s.now().After(cred.TokenExpiresAt) {
		return "", apperr.Authentication("Your Facebook login has expired, log in again.")
	}

	token, err := utils.Decrypt(cred.AccessToken, s.key)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrAuthentication, err, "The stored Facebook login is unreadable, log in again.")
	}
	return token, nil
}
