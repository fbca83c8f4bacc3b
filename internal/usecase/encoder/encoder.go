package encoder

import (
	"context"
	"errors"
	"image"
	"runtime"

	"github.com/wb-go/wbf/zlog"
	"golang.org/x/sync/errgroup"

	"media-cms/internal/domain"
	"media-cms/internal/usecase/encoder/codec"
)

// Encoder turns one source image and one variant matrix into the list
// of encoded variants. The source is decoded exactly once; each width
// is an independent task on a pool sized to the host parallelism.
type Encoder struct {
	codec       codec.Codec
	parallelism int
	logger      *zlog.Zerolog
}

func NewEncoder(c codec.Codec, logger *zlog.Zerolog) *Encoder {
	return &Encoder{
		codec:       c,
		parallelism: runtime.NumCPU(),
		logger:      logger,
	}
}

// Encode is fail-fast: the first decode, resize or encode error
// cancels the remaining intent for the run and completed results are
// discarded. The pool is released on every exit path.
func (e *Encoder) Encode(ctx context.Context, source []byte, matrix domain.VariantMatrix) ([]domain.EncodedVariant, error) {
	src, err := e.codec.Decode(source)
	if err != nil {
		return nil, &EncodeError{Format: matrix.Format, Err: err}
	}

	pool := codec.NewPool(ctx, e.parallelism)
	defer pool.Close()

	variants := make([]domain.EncodedVariant, len(matrix.Specs))
	for i, spec := range matrix.Specs {
		pool.Go(func(ctx context.Context) error {
			v, err := e.encodeOne(ctx, src, spec)
			if err != nil {
				return err
			}
			variants[i] = v
			return nil
		})
	}

	if err := pool.Wait(); err != nil {
		var encErr *EncodeError
		if !errors.As(err, &encErr) {
			err = &EncodeError{Format: matrix.Format, Err: err}
		}
		e.logger.Error().Err(err).Str("base_name", matrix.BaseName).Msg("Variant encoding aborted")
		return nil, err
	}

	return variants, nil
}

// encodeOne resizes once per width and runs the native and WebP
// encodes concurrently.
func (e *Encoder) encodeOne(ctx context.Context, src image.Image, spec domain.VariantSpec) (domain.EncodedVariant, error) {
	resized := e.codec.Resize(src, spec.Width, spec.Filter)

	var native, secondary []byte
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		native, err = e.codec.EncodeNative(resized, spec.Format, spec.Options)
		return err
	})
	g.Go(func() error {
		var err error
		secondary, err = e.codec.EncodeWebP(resized, spec.Options)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.EncodedVariant{}, &EncodeError{Width: spec.Width, Format: spec.Format, Err: err}
	}

	return domain.EncodedVariant{
		Width:  spec.Width,
		Format: spec.Format,
		Native: native,
		WebP:   secondary,
	}, nil
}
