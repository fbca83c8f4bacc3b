package encoder

import (
	"path/filepath"
	"strings"

	"media-cms/internal/domain"
)

// Resolve classifies an upload by filename suffix, case-insensitively.
// Unknown suffixes fail with ErrUnsupportedFormat before any encode or
// storage resource is allocated.
func Resolve(filename string) (domain.SourceFormat, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return domain.FormatJpeg, nil
	case ".png":
		return domain.FormatPng, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// paramsFor selects the per-format resize filter and codec options.
func paramsFor(format domain.SourceFormat) (domain.ResampleFilter, domain.EncodeOptions) {
	switch format {
	case domain.FormatPng:
		return domain.FilterMitchell, domain.EncodeOptions{
			PNGLevel:    domain.DefaultPNGLevel,
			QuantColors: domain.DefaultQuantColors,
			QuantDither: domain.DefaultQuantDither,
			WebPQuality: domain.DefaultWebPQuality,
		}
	default:
		return domain.FilterLanczos, domain.EncodeOptions{
			JPEGQuality: domain.DefaultJPEGQuality,
			WebPQuality: domain.DefaultWebPQuality,
		}
	}
}
