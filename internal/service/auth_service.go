package service

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/maheshrc27/content-planner/internal/apperr"
	"github.com/maheshrc27/content-planner/pkg/utils"
)

const (
	SessionSubject  = "operator"
	SessionPurpose  = "session"
	SessionLifetime = 24 * time.Hour
)

// AuthService signs the operator in with the shared operator password.
type AuthService interface {
	Login(ctx context.Context, password string) (string, error)
}

type authService struct {
	secretKey string
	password  string
}

func NewAuthService(secretKey, operatorPassword string) AuthService {
	return &authService{
		secretKey: secretKey,
		password:  operatorPassword,
	}
}

func (s *authService) Login(ctx context.Context, password string) (string, error) {
	if s.password == "" {
		err := apperr.New(apperr.ErrConfiguration, "operator password is not configured")
		slog.Info(err.Error())
		return "", err
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return "", apperr.Authentication("wrong password")
	}

	return utils.GenerateToken(s.secretKey, SessionSubject, SessionPurpose, SessionLifetime)
}
