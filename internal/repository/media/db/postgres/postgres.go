package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"

	"media-cms/internal/domain"
	repoMedia "media-cms/internal/repository/media"
)

// MediaRepository is the metadata store. CreateAsset is the pipeline's
// single persistence step; reads back the listing endpoint.
type MediaRepository struct {
	db      *dbpg.DB
	retries retry.Strategy
}

func NewMediaRepository(db *dbpg.DB, retries retry.Strategy) *MediaRepository {
	return &MediaRepository{
		db:      db,
		retries: retries,
	}
}

// CreateAsset inserts the media row together with its ordered file
// descriptors in one transaction. One attempt, never retried: the
// caller treats any failure as a terminal registration error.
func (r *MediaRepository) CreateAsset(ctx context.Context, asset *domain.MediaAsset) error {
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now()
	}

	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const insertMedia = `
		INSERT INTO medias (name, url, media_type, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if err := tx.QueryRowContext(ctx, insertMedia,
		asset.Name,
		asset.URL,
		asset.MediaType,
		asset.CreatedAt,
	).Scan(&asset.ID); err != nil {
		return fmt.Errorf("failed to insert media: %w", err)
	}

	const insertFile = `
		INSERT INTO media_files (media_id, label, url, storage_path, content_type, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for i, f := range asset.Files {
		if _, err := tx.ExecContext(ctx, insertFile,
			asset.ID,
			f.Label,
			f.URL,
			f.StoragePath,
			f.ContentType,
			i,
		); err != nil {
			return fmt.Errorf("failed to insert media file %s: %w", f.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit media: %w", err)
	}
	return nil
}

func (r *MediaRepository) GetByID(ctx context.Context, id int64) (*domain.MediaAsset, error) {
	const query = `
		SELECT id, name, url, media_type, created_at
		FROM medias
		WHERE id = $1
	`

	row, err := r.db.QueryRowWithRetry(ctx, r.retries, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}

	var asset domain.MediaAsset
	err = row.Scan(&asset.ID, &asset.Name, &asset.URL, &asset.MediaType, &asset.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repoMedia.ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan media: %w", err)
	}

	files, err := r.loadFiles(ctx, []int64{asset.ID})
	if err != nil {
		return nil, err
	}
	asset.Files = files[asset.ID]

	return &asset, nil
}

func (r *MediaRepository) List(ctx context.Context, limit, offset int) ([]domain.MediaAsset, error) {
	const query = `
		SELECT id, name, url, media_type, created_at
		FROM medias
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryWithRetry(ctx, r.retries, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query medias: %w", err)
	}
	defer rows.Close()

	var assets []domain.MediaAsset
	var ids []int64
	for rows.Next() {
		var asset domain.MediaAsset
		if err := rows.Scan(&asset.ID, &asset.Name, &asset.URL, &asset.MediaType, &asset.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		assets = append(assets, asset)
		ids = append(ids, asset.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating medias: %w", err)
	}

	if len(assets) == 0 {
		return assets, nil
	}

	files, err := r.loadFiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range assets {
		assets[i].Files = files[assets[i].ID]
	}

	return assets, nil
}

func (r *MediaRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM medias`

	row, err := r.db.QueryRowWithRetry(ctx, r.retries, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count medias: %w", err)
	}

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to scan count: %w", err)
	}
	return count, nil
}

// loadFiles fetches the ordered file descriptors for a set of medias.
func (r *MediaRepository) loadFiles(ctx context.Context, ids []int64) (map[int64][]domain.UploadedArtifact, error) {
	const query = `
		SELECT media_id, label, url, storage_path, content_type
		FROM media_files
		WHERE media_id = ANY($1)
		ORDER BY media_id, position
	`

	rows, err := r.db.QueryWithRetry(ctx, r.retries, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query media files: %w", err)
	}
	defer rows.Close()

	files := make(map[int64][]domain.UploadedArtifact, len(ids))
	for rows.Next() {
		var mediaID int64
		var f domain.UploadedArtifact
		if err := rows.Scan(&mediaID, &f.Label, &f.URL, &f.StoragePath, &f.ContentType); err != nil {
			return nil, fmt.Errorf("failed to scan media file: %w", err)
		}
		files[mediaID] = append(files[mediaID], f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media files: %w", err)
	}

	return files, nil
}
