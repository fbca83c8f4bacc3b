package media

import (
	"context"
	"sync"

	"media-cms/internal/domain"
)

// rollback issues concurrent best-effort deletes for every artifact
// stored during an incomplete run. At most one attempt per artifact;
// individual delete failures are logged and never escalate, the run's
// verdict stays failed either way.
func (u *MediaUsecase) rollback(ctx context.Context, artifacts []domain.UploadedArtifact) {
	var wg sync.WaitGroup
	for _, a := range artifacts {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := u.fileRepo.Delete(ctx, a.StoragePath); err != nil {
				u.logger.Error().Err(err).Str("path", a.StoragePath).Msg("Failed to delete artifact during rollback")
				return
			}
			u.logger.Debug().Str("path", a.StoragePath).Msg("Rolled back artifact")
		}()
	}
	wg.Wait()
}
