package media

import (
	"context"
	"io"

	"media-cms/internal/domain"
)

type mediaUsecase interface {
	ProcessUpload(ctx context.Context, file io.Reader, filename string) (*domain.MediaAsset, error)
	GetMedia(ctx context.Context, id int64) (*domain.MediaAsset, error)
	ListMedia(ctx context.Context, limit, offset int) ([]domain.MediaAsset, int, error)
}
