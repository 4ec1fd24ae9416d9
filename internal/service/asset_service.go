package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/maheshrc27/content-planner/internal/apperr"
	"github.com/maheshrc27/content-planner/internal/models"
)

var allowedUploadTypes = map[string]models.AssetType{
	"jpg": models.AssetTypeImage,
	"png": models.AssetTypeImage,
	"mp4": models.AssetTypeVideo,
	"mov": models.AssetTypeVideo,
}

type AssetService interface {
	Upload(ctx context.Context, postID, description string, file *multipart.FileHeader) (*models.Post, error)
}

type assetService struct {
	posts PostService
	store ObjectStore
}

func NewAssetService(posts PostService, store ObjectStore) AssetService {
	return &assetService{posts: posts, store: store}
}

// Upload stores the file and appends it to the post's assets with its
// public URL, so image posts can go out on the photo route.
func (s *assetService) Upload(ctx context.Context, postID, description string, file *multipart.FileHeader) (*models.Post, error) {
	post, err := s.posts.PostInfo(ctx, postID)
	if err != nil {
		return nil, err
	}

	content, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer content.Close()

	fileBytes, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("error reading file content: %w", err)
	}

	kind, err := filetype.Match(fileBytes)
	if err != nil || kind == types.Unknown {
		return nil, apperr.Validation("unsupported file type")
	}
	assetType, ok := allowedUploadTypes[kind.Extension]
	if !ok {
		return nil, apperr.Validation("file type %s is not allowed", kind.Extension)
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s/%s.%s", post.PageID, id, kind.Extension)

	if err := s.store.Upload(ctx, key, fileBytes, kind.MIME.Value); err != nil {
		return nil, apperr.Wrap(apperr.ErrTransport, err, "Could not upload the file.")
	}

	next := post.Clone()
	next.Assets = append(next.Assets, models.Asset{
		ID:            id,
		PageID:        post.PageID,
		RelatedPostID: post.ID,
		Type:          assetType,
		URLOrPath:     s.store.PublicURL(key),
		Description:   description,
		Position:      len(next.Assets),
	})
	if err := s.posts.Save(ctx, &next); err != nil {
		return nil, err
	}

	slog.Info("asset uploaded", "post_id", post.ID, "asset_id", id, "type", kind.MIME.Value)
	return &next, nil
}
