package domain

// SourceFormat is the image family of an uploaded file. Only formats
// listed here are accepted; everything else is rejected before any
// encode or storage work starts.
type SourceFormat string

const (
	FormatJpeg SourceFormat = "jpeg"
	FormatPng  SourceFormat = "png"
)

// MediaType returns the MIME type recorded on the registered asset.
func (f SourceFormat) MediaType() string {
	switch f {
	case FormatJpeg:
		return "image/jpeg"
	case FormatPng:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the storage extension of the native encoding.
func (f SourceFormat) Extension() string {
	switch f {
	case FormatJpeg:
		return "jpg"
	case FormatPng:
		return "png"
	default:
		return ""
	}
}

// ResampleFilter selects the resize algorithm used for a source format.
type ResampleFilter string

const (
	FilterLanczos  ResampleFilter = "lanczos3"
	FilterMitchell ResampleFilter = "mitchell"
)

// EncodeOptions carries the codec parameters derived from the source
// format. Native options and the secondary WebP options travel
// together so a VariantSpec is self-contained.
type EncodeOptions struct {
	JPEGQuality int
	PNGLevel    int
	QuantColors int
	QuantDither float64
	WebPQuality float32
}

const (
	DefaultJPEGQuality = 75
	DefaultPNGLevel    = 6
	DefaultQuantColors = 128
	DefaultQuantDither = 0.9
	DefaultWebPQuality = 50
)

// VariantSpec is one (width, format) target of the matrix. Derived
// deterministically from the source format, never mutated.
type VariantSpec struct {
	Width   int
	Format  SourceFormat
	Filter  ResampleFilter
	Options EncodeOptions
}

// VariantMatrix is the full ordered set of targets for one run,
// largest width first, plus the collision-free base name.
type VariantMatrix struct {
	BaseName string
	Format   SourceFormat
	Specs    []VariantSpec
}

// EncodedVariant holds both payloads produced for one width. Transient:
// exists only until uploaded.
type EncodedVariant struct {
	Width  int
	Format SourceFormat
	Native []byte
	WebP   []byte
}

// NativeContentType is the MIME type of the native payload.
func (v EncodedVariant) NativeContentType() string {
	return v.Format.MediaType()
}

const WebPContentType = "image/webp"

// DefaultWidths is the fixed descending width sequence of the matrix.
var DefaultWidths = []int{2000, 1600, 1200, 800}
