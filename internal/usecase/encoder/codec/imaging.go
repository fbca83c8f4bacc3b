package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"media-cms/internal/domain"
)

// ImagingCodec is the production backend: imaging for decode/resize
// and the native encodes, libwebp for the secondary encode.
type ImagingCodec struct{}

func NewImagingCodec() *ImagingCodec {
	return &ImagingCodec{}
}

func (c *ImagingCodec) Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func (c *ImagingCodec) Resize(img image.Image, width int, filter domain.ResampleFilter) image.Image {
	return imaging.Resize(img, width, 0, resampleFilter(filter))
}

func (c *ImagingCodec) EncodeNative(img image.Image, format domain.SourceFormat, opts domain.EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case domain.FormatJpeg:
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(opts.JPEGQuality)); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	case domain.FormatPng:
		out := img
		if opts.QuantColors > 0 {
			out = quantizePalette(img, opts.QuantColors)
		}
		enc := png.Encoder{CompressionLevel: pngLevel(opts.PNGLevel)}
		if err := enc.Encode(&buf, out); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	default:
		return nil, fmt.Errorf("no native encoder for format %q", format)
	}

	return buf.Bytes(), nil
}

func (c *ImagingCodec) EncodeWebP(img image.Image, opts domain.EncodeOptions) ([]byte, error) {
	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, opts.WebPQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to create webp encoder options: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func resampleFilter(filter domain.ResampleFilter) imaging.ResampleFilter {
	switch filter {
	case domain.FilterMitchell:
		return imaging.MitchellNetravali
	default:
		return imaging.Lanczos
	}
}

// quantizePalette reduces the image to a dithered palette before the
// PNG encode.
func quantizePalette(img image.Image, colors int) image.Image {
	q := quantize.MedianCutQuantizer{}
	palette := q.Quantize(make(color.Palette, 0, colors), img)

	paletted := image.NewPaletted(img.Bounds(), palette)
	draw.FloydSteinberg.Draw(paletted, img.Bounds(), img, image.Point{})
	return paletted
}

func pngLevel(level int) png.CompressionLevel {
	switch {
	case level >= 5:
		return png.BestCompression
	case level >= 2:
		return png.DefaultCompression
	case level >= 1:
		return png.BestSpeed
	default:
		return png.NoCompression
	}
}
