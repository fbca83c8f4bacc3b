package codec

import (
	"image"

	"media-cms/internal/domain"
)

// Codec is the capability the variant encoder programs against:
// decode once, resize per target, encode into the native format and
// into WebP. The default backend wraps imaging and libwebp; tests plug
// a stub.
type Codec interface {
	Decode(data []byte) (image.Image, error)
	Resize(img image.Image, width int, filter domain.ResampleFilter) image.Image
	EncodeNative(img image.Image, format domain.SourceFormat, opts domain.EncodeOptions) ([]byte, error)
	EncodeWebP(img image.Image, opts domain.EncodeOptions) ([]byte, error)
}
