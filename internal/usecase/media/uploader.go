package media

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"sync"

	"media-cms/internal/domain"
)

// uploadOp is one storage put planned for the run.
type uploadOp struct {
	label       string
	path        string
	contentType string
	payload     []byte
}

// planUploads expands the encoded variants into storage operations in
// primary order: width descending, native before WebP. Artifact lists
// and the asset's primary URL both follow this order.
func planUploads(collection, baseName string, variants []domain.EncodedVariant) []uploadOp {
	ops := make([]uploadOp, 0, len(variants)*2)
	for _, v := range variants {
		ops = append(ops,
			uploadOp{
				label:       strconv.Itoa(v.Width),
				path:        fmt.Sprintf("%s/%s@%d.%s", collection, baseName, v.Width, v.Format.Extension()),
				contentType: v.NativeContentType(),
				payload:     v.Native,
			},
			uploadOp{
				label:       fmt.Sprintf("%d-webp", v.Width),
				path:        fmt.Sprintf("%s/%s@%d.webp", collection, baseName, v.Width),
				contentType: domain.WebPContentType,
				payload:     v.WebP,
			},
		)
	}
	return ops
}

// uploadAll stores every payload concurrently with no fan-out limit
// and no fail-fast: every operation settles before the verdict, so the
// set of stored artifacts is exactly known. Results are merged
// single-threaded after the join; each task writes only its own slot.
func (u *MediaUsecase) uploadAll(ctx context.Context, ops []uploadOp) ([]domain.UploadedArtifact, bool) {
	type outcome struct {
		artifact domain.UploadedArtifact
		ok       bool
	}

	outcomes := make([]outcome, len(ops))

	var wg sync.WaitGroup
	for i, op := range ops {
		wg.Add(1)
		go func() {
			defer wg.Done()

			url, err := u.fileRepo.Put(ctx, op.path, bytes.NewReader(op.payload), int64(len(op.payload)), op.contentType)
			if err != nil {
				u.logger.Error().Err(err).Str("path", op.path).Msg("Failed to upload variant")
				return
			}

			outcomes[i] = outcome{
				artifact: domain.UploadedArtifact{
					Label:       op.label,
					URL:         url,
					StoragePath: op.path,
					ContentType: op.contentType,
				},
				ok: true,
			}
		}()
	}
	wg.Wait()

	artifacts := make([]domain.UploadedArtifact, 0, len(ops))
	for _, o := range outcomes {
		if o.ok {
			artifacts = append(artifacts, o.artifact)
		}
	}
	return artifacts, len(artifacts) == len(ops)
}
