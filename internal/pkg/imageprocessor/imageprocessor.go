package imageprocessor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync/atomic"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	// register the webp decoder for image.Decode
	_ "golang.org/x/image/webp"
)

// Default limits, overridable through IMAGE_* settings.
const (
	DefaultMaxWidth    = 1200
	DefaultMaxHeight   = 800
	DefaultQuality     = 85
	DefaultMaxParallel = 2

	// OutputExt is the extension of every processed image.
	OutputExt = ".jpg"
)

// ErrDecode wraps every failure to read the uploaded bytes as an image.
var ErrDecode = errors.New("file is not a readable image")

type Options struct {
	MaxWidth    int
	MaxHeight   int
	Quality     int
	MaxParallel int
}

func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = DefaultMaxHeight
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.MaxParallel <= 0 {
		o.MaxParallel = DefaultMaxParallel
	}
	return o
}

// Processor resizes and re-encodes uploads. At most MaxParallel images are
// decoded at a time, further callers wait or give up with their context.
type Processor struct {
	opts   Options
	sem    *semaphore.Weighted
	active atomic.Int32
}

func New(opts Options) *Processor {
	opts = opts.withDefaults()
	return &Processor{
		opts: opts,
		sem:  semaphore.NewWeighted(int64(opts.MaxParallel)),
	}
}

func (p *Processor) Options() Options {
	return p.opts
}

// Active returns the number of images currently being processed.
func (p *Processor) Active() int {
	return int(p.active.Load())
}

// Process decodes r, shrinks it into the MaxWidth x MaxHeight box keeping the
// aspect ratio, flattens transparency onto white and encodes it as JPEG.
// Smaller images are not scaled up.
func (p *Processor) Process(ctx context.Context, r io.Reader) ([]byte, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)
	p.active.Add(1)
	defer p.active.Add(-1)

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img = imaging.Fit(img, p.opts.MaxWidth, p.opts.MaxHeight, imaging.Lanczos)
	img = Flatten(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.opts.Quality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	b := img.Bounds()
	zap.L().Debug("image processed",
		zap.Int("width", b.Dx()), zap.Int("height", b.Dy()), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// Flatten draws images that may carry transparency onto a white background.
func Flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
