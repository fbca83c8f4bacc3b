package media

import (
	"context"
	"io"

	"media-cms/internal/domain"
)

type fileRepository interface {
	Put(ctx context.Context, path string, data io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}

type assetRepository interface {
	CreateAsset(ctx context.Context, asset *domain.MediaAsset) error
	GetByID(ctx context.Context, id int64) (*domain.MediaAsset, error)
	List(ctx context.Context, limit, offset int) ([]domain.MediaAsset, error)
	Count(ctx context.Context) (int, error)
}

type variantEncoder interface {
	Encode(ctx context.Context, source []byte, matrix domain.VariantMatrix) ([]domain.EncodedVariant, error)
}
