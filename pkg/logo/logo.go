// Package logo recolors single-color logo images: light background pixels
// become transparent, everything else takes a replacement color, and the
// result is cropped to content and fitted into a bounding box as PNG.
//
// The filter shares nothing with the migration pipeline; it exists because
// project logos exported from design tools tend to arrive as dark marks on
// white canvases.
package logo

import (
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"

	"github.com/brunolnetto/barmaid/pkg/errors"
)

// Defaults for Options zero values.
const (
	DefaultMaxSize   = 300
	DefaultThreshold = 240
	DefaultUpscale   = 4
)

const (
	sharpenSigma = 1.0 // pre-mask sharpening strength
	smoothSigma  = 0.6 // post-mask edge smoothing
)

// Options control the filter.
type Options struct {
	// Color replaces every non-background pixel. Zero value means the first
	// palette entry (blue).
	Color color.NRGBA

	// MaxSize bounds the final width and height. The image is scaled down
	// preserving aspect ratio and never scaled up.
	MaxSize int

	// Threshold is the background cutoff: pixels whose red, green, and blue
	// channels all exceed it turn transparent.
	Threshold uint8

	// Enhance upscales and sharpens before masking and smooths the mask
	// edges afterwards. Helps small or antialiased sources.
	Enhance bool

	// Upscale is the enhancement scale factor.
	Upscale int
}

func (o *Options) setDefaults() {
	if (o.Color == color.NRGBA{}) {
		o.Color = DefaultPalette[0].Color
	}
	if o.MaxSize == 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Upscale == 0 {
		o.Upscale = DefaultUpscale
	}
}

// Result reports the dimensions of the written image.
type Result struct {
	Width  int
	Height int
}

// Process reads the image at inputPath, applies the filter, and writes a PNG
// to outputPath.
func Process(inputPath, outputPath string, opts Options) (*Result, error) {
	opts.setDefaults()

	src, err := imaging.Open(inputPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageDecode, err, "open %s", inputPath)
	}
	img := imaging.Clone(src)

	if opts.Enhance && opts.Upscale > 1 {
		img = imaging.Resize(img, img.Bounds().Dx()*opts.Upscale, 0, imaging.Lanczos)
		img = imaging.Sharpen(img, sharpenSigma)
	}

	mask(img, opts.Color, opts.Threshold)

	if opts.Enhance {
		img = imaging.Blur(img, smoothSigma)
	}

	content, ok := contentBounds(img)
	if !ok {
		return nil, errors.New(errors.ErrCodeImageEmpty,
			"every pixel is above threshold %d; the output would be empty", opts.Threshold)
	}
	img = imaging.Crop(img, content)
	img = imaging.Fit(img, opts.MaxSize, opts.MaxSize, imaging.Lanczos)

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", outputPath)
	}
	defer out.Close()

	// Always PNG, whatever the output extension says: the result needs an
	// alpha channel.
	if err := imaging.Encode(out, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageEncode, err, "encode %s", outputPath)
	}
	if err := out.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageEncode, err, "write %s", outputPath)
	}

	return &Result{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}, nil
}

// mask rewrites img in place: background pixels (all channels above
// threshold) become fully transparent, every other pixel becomes c at full
// opacity. Source alpha is ignored.
func mask(img *image.NRGBA, c color.NRGBA, threshold uint8) {
	for i := 0; i < len(img.Pix); i += 4 {
		r, g, b := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
		if r > threshold && g > threshold && b > threshold {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0, 0, 0, 0
		} else {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, 255
		}
	}
}

// contentBounds returns the bounding box of pixels with non-zero alpha.
func contentBounds(img *image.NRGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		offset := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[offset+3] != 0 {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
			offset += 4
		}
	}

	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
