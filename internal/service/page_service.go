package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/content-planner/internal/apperr"
	"github.com/maheshrc27/content-planner/internal/models"
	"github.com/maheshrc27/content-planner/internal/publisher"
	"github.com/maheshrc27/content-planner/internal/repository"
	"github.com/maheshrc27/content-planner/internal/transfer"
	"github.com/maheshrc27/content-planner/pkg/utils"
)

type PageService interface {
	Create(ctx context.Context, in *transfer.PageInput) (*models.Page, error)
	PageInfo(ctx context.Context, pageID string) (*models.Page, error)
	List(ctx context.Context) ([]models.Page, error)
	Update(ctx context.Context, pageID string, in *transfer.PageInput) (*models.Page, error)
	Remove(ctx context.Context, pageID string) error
	Targets(ctx context.Context) ([]publisher.Target, error)
	Connect(ctx context.Context, pageID, targetID string) (*models.Page, error)
	Disconnect(ctx context.Context, pageID string) (*models.Page, error)
	Credential(ctx context.Context, page *models.Page) (string, error)
}

type pageService struct {
	pr  repository.PageRepository
	pub publisher.Publisher
	key []byte
}

func NewPageService(pr repository.PageRepository, pub publisher.Publisher, secretKey string) PageService {
	return &pageService{
		pr:  pr,
		pub: pub,
		key: utils.DeriveKey(secretKey),
	}
}

func (s *pageService) Create(ctx context.Context, in *transfer.PageInput) (*models.Page, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	page := models.Page{ID: id}
	applyPageInput(&page, in)

	if err := s.pr.Create(ctx, &page); err != nil {
		return nil, fmt.Errorf("error creating page: %w", err)
	}
	return &page, nil
}

func applyPageInput(page *models.Page, in *transfer.PageInput) {
	page.Name = in.Name
	page.Niche = in.Niche
	page.Avatar = in.Avatar
	page.Description = in.Description
	page.BrandVoice = in.BrandVoice
	page.MainColor = in.MainColor
	page.Note = in.Note
}

func (s *pageService) PageInfo(ctx context.Context, pageID string) (*models.Page, error) {
	page, err := s.pr.GetByID(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("error getting page info: %w", err)
	}
	if page == nil {
		return nil, apperr.NotFound("page doesn't exist")
	}
	return page, nil
}

func (s *pageService) List(ctx context.Context) ([]models.Page, error) {
	pages, err := s.pr.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing pages: %w", err)
	}
	return pages, nil
}

func (s *pageService) Update(ctx context.Context, pageID string, in *transfer.PageInput) (*models.Page, error) {
	page, err := s.PageInfo(ctx, pageID)
	if err != nil {
		return nil, err
	}

	applyPageInput(page, in)
	if err := s.pr.Update(ctx, page); err != nil {
		return nil, fmt.Errorf("error updating page: %w", err)
	}
	return page, nil
}

func (s *pageService) Remove(ctx context.Context, pageID string) error {
	if _, err := s.PageInfo(ctx, pageID); err != nil {
		return err
	}
	if err := s.pr.Remove(ctx, pageID); err != nil {
		return fmt.Errorf("error removing page: %w", err)
	}
	return nil
}

func (s *pageService) Targets(ctx context.Context) ([]publisher.Target, error) {
	return s.pub.ListTargets(ctx)
}

// Connect binds the page to one of the operator's publishing targets. The
// target list is fetched again here so the page token never passes through
// the client.
func (s *pageService) Connect(ctx context.Context, pageID, targetID string) (*models.Page, error) {
	page, err := s.PageInfo(ctx, pageID)
	if err != nil {
		return nil, err
	}

	targets, err := s.pub.ListTargets(ctx)
	if err != nil {
		return nil, err
	}

	var target *publisher.Target
	for i := range targets {
		if targets[i].ID == targetID {
			target = &targets[i]
			break
		}
	}
	if target == nil {
		return nil, apperr.NotFound("target %q is not among the pages you manage", targetID)
	}

	encrypted, err := utils.Encrypt([]byte(target.AccessToken), s.key)
	if err != nil {
		return nil, fmt.Errorf("error encrypting page token: %w", err)
	}

	if err := s.pr.SetConnection(ctx, page.ID, target.ID, encrypted, true); err != nil {
		return nil, fmt.Errorf("error connecting page: %w", err)
	}

	slog.Info("page connected", "page_id", page.ID, "target_id", target.ID, "mode", s.pub.Mode())
	page.ExternalTargetID = target.ID
	page.AccessToken = encrypted
	page.IsConnected = true
	return page, nil
}

func (s *pageService) Disconnect(ctx context.Context, pageID string) (*models.Page, error) {
	page, err := s.PageInfo(ctx, pageID)
	if err != nil {
		return nil, err
	}

	if err := s.pr.SetConnection(ctx, page.ID, "", "", false); err != nil {
		return nil, fmt.Errorf("error disconnecting page: %w", err)
	}

	page.ExternalTargetID = ""
	page.AccessToken = ""
	page.IsConnected = false
	return page, nil
}

// Credential returns the decrypted publishing token of a connected page.
func (s *pageService) Credential(ctx context.Context, page *models.Page) (string, error) {
	if !page.IsConnected || page.ExternalTargetID == "" {
		return "", apperr.Validation("Connect the page to a Facebook page before publishing.")
	}

	token, err := utils.Decrypt(page.AccessToken, s.key)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrAuthentication, err, "The stored page token is unreadable, connect the page again.")
	}
	return token, nil
}
