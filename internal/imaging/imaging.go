// Package imaging normalizes uploaded listing and banner images.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"

	"github.com/numera-market/numera/internal/apperr"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultMaxDimension = 1024
	DefaultQuality      = 85
	DefaultMaxBytes     = 10 << 20
)

// OutputMIME is the type of every processed image.
const OutputMIME = "image/jpeg"

var acceptedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Options tunes Process.
type Options struct {
	// MaxDimension bounds the longer side of the output.
	MaxDimension int
	Quality      int
	// MaxBytes bounds the input size.
	MaxBytes int64
}

func (o Options) withDefaults() Options {
	if o.MaxDimension <= 0 {
		o.MaxDimension = DefaultMaxDimension
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	return o
}

// Image is a processed upload.
type Image struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Process sniffs r as JPEG or PNG, flattens transparency onto white,
// shrinks it to fit opts.MaxDimension and re-encodes it as JPEG. Bad input
// is reported as a validation error.
func Process(r io.Reader, opts Options) (*Image, error) {
	const op = "imaging.process"
	opts = opts.withDefaults()

	data, err := io.ReadAll(io.LimitReader(r, opts.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if int64(len(data)) > opts.MaxBytes {
		return nil, apperr.Validation(op, fmt.Sprintf("image larger than %d bytes", opts.MaxBytes),
			map[string]string{"image": "is too large"})
	}

	// Client headers are not trusted.
	if detected := http.DetectContentType(data); !acceptedMIME[detected] {
		return nil, apperr.Validation(op, "unsupported image format "+detected+", use JPEG or PNG",
			map[string]string{"image": "must be JPEG or PNG"})
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Validation(op, "image could not be decoded", map[string]string{"image": "is corrupt"})
	}

	dst := fit(src, opts.MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := dst.Bounds()
	return &Image{Data: buf.Bytes(), MIME: OutputMIME, Width: b.Dx(), Height: b.Dy()}, nil
}

// fit draws src onto a white canvas no larger than maxDim on either side,
// keeping the aspect ratio. Images are never enlarged.
func fit(src image.Image, maxDim int) *image.RGBA {
	sb := src.Bounds()
	w, h := scaled(sb.Dx(), sb.Dy(), maxDim)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Over)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	return dst
}

func scaled(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w >= h {
		return maxDim, max(1, h*maxDim/w)
	}
	return max(1, w*maxDim/h), maxDim
}
