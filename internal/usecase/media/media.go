package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wb-go/wbf/zlog"

	"media-cms/internal/broker"
	"media-cms/internal/domain"
	repoMedia "media-cms/internal/repository/media"
	"media-cms/internal/usecase/encoder"
)

// MediaUsecase orchestrates one pipeline run per inbound upload:
// resolve, encode, upload, then either register the asset or roll the
// stored derivatives back.
type MediaUsecase struct {
	repo       assetRepository
	fileRepo   fileRepository
	enc        variantEncoder
	producer   broker.Producer
	logger     *zlog.Zerolog
	widths     []int
	collection string
}

func NewMediaUsecase(repo assetRepository, fileRepo fileRepository, enc variantEncoder, producer broker.Producer, widths []int, collection string, logger *zlog.Zerolog) *MediaUsecase {
	if len(widths) == 0 {
		widths = domain.DefaultWidths
	}
	if collection == "" {
		collection = domain.DefaultCollection
	}

	return &MediaUsecase{
		repo:       repo,
		fileRepo:   fileRepo,
		enc:        enc,
		producer:   producer,
		logger:     logger,
		widths:     widths,
		collection: collection,
	}
}

// ProcessUpload runs the full pipeline for one source image. Resolver
// and encoder failures terminate before anything is stored; only
// upload failures route through rollback. A registration failure after
// full upload success leaves the stored derivatives in place.
func (u *MediaUsecase) ProcessUpload(ctx context.Context, file io.Reader, filename string) (*domain.MediaAsset, error) {
	if file == nil || filename == "" {
		return nil, ErrMissingData
	}

	u.stage(filename, domain.StageResolving)
	format, err := encoder.Resolve(filename)
	if err != nil {
		return nil, err
	}

	source, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(source) == 0 {
		return nil, ErrMissingData
	}

	matrix := encoder.BuildMatrix(format, filename, u.widths)

	u.stage(filename, domain.StageEncoding)
	variants, err := u.enc.Encode(ctx, source, matrix)
	if err != nil {
		return nil, err
	}

	u.stage(filename, domain.StageUploading)
	ops := planUploads(u.collection, matrix.BaseName, variants)
	artifacts, complete := u.uploadAll(ctx, ops)
	if !complete {
		u.logger.Error().
			Str("base_name", matrix.BaseName).
			Int("stored", len(artifacts)).
			Int("expected", len(ops)).
			Msg("Upload incomplete, compensating stored artifacts")

		u.stage(filename, domain.StageRollingBack)
		u.rollback(ctx, artifacts)
		return nil, ErrUploadIncomplete
	}

	// Primary-ordering rule: artifacts are ordered width descending,
	// native before WebP, so the primary URL is the largest native.
	asset := &domain.MediaAsset{
		Name:      matrix.BaseName,
		URL:       artifacts[0].URL,
		MediaType: format.MediaType(),
		Files:     artifacts,
		CreatedAt: time.Now(),
	}

	u.stage(filename, domain.StageRegistering)
	if err := u.repo.CreateAsset(ctx, asset); err != nil {
		u.logger.Error().Err(err).Str("base_name", matrix.BaseName).Msg("Failed to register media, stored artifacts kept")
		return nil, &RegistrationError{Err: err}
	}

	u.publishCreated(ctx, asset)

	u.logger.Info().
		Str("name", asset.Name).
		Str("media_type", asset.MediaType).
		Int("files", len(asset.Files)).
		Msg("Media registered")
	return asset, nil
}

// GetMedia returns one registered asset with its file descriptors.
func (u *MediaUsecase) GetMedia(ctx context.Context, id int64) (*domain.MediaAsset, error) {
	asset, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repoMedia.ErrMediaNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get media: %w", err)
	}
	return asset, nil
}

// ListMedia backs the listing endpoint.
func (u *MediaUsecase) ListMedia(ctx context.Context, limit, offset int) ([]domain.MediaAsset, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	assets, err := u.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list media: %w", err)
	}

	total, err := u.repo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count media: %w", err)
	}

	return assets, total, nil
}

// publishCreated is best-effort: a broker failure never changes the
// run's verdict.
func (u *MediaUsecase) publishCreated(ctx context.Context, asset *domain.MediaAsset) {
	if u.producer == nil {
		return
	}

	event := domain.MediaCreatedEvent{
		Event:     domain.EventMediaCreated,
		MediaID:   asset.ID,
		Name:      asset.Name,
		URL:       asset.URL,
		MediaType: asset.MediaType,
		FileCount: len(asset.Files),
		CreatedAt: asset.CreatedAt,
	}

	value, err := json.Marshal(event)
	if err != nil {
		u.logger.Error().Err(err).Str("name", asset.Name).Msg("Failed to marshal media event")
		return
	}

	if err := u.producer.Send(ctx, []byte(asset.Name), value); err != nil {
		u.logger.Error().Err(err).Str("name", asset.Name).Msg("Failed to publish media event")
	}
}

func (u *MediaUsecase) stage(filename string, s domain.PipelineStage) {
	u.logger.Debug().Str("filename", filename).Str("stage", string(s)).Msg("Pipeline stage")
}
