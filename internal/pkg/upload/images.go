package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/ManuelReschke/PixelPress/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PixelPress/internal/pkg/metrics"
	"github.com/ManuelReschke/PixelPress/internal/pkg/storage"
)

var ErrTooLarge = errors.New("image is too large")

// Images validates, processes and stores uploaded pictures.
type Images struct {
	proc     *imageprocessor.Processor
	store    storage.Store
	maxBytes int64
}

func NewImages(proc *imageprocessor.Processor, store storage.Store, maxBytes int64) *Images {
	return &Images{proc: proc, store: store, maxBytes: maxBytes}
}

// SaveFile stores the uploaded form file and returns its public reference.
func (u *Images) SaveFile(ctx context.Context, kind string, fh *multipart.FileHeader) (string, error) {
	if u.maxBytes > 0 && fh.Size > u.maxBytes {
		return "", ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return u.Save(ctx, kind, fh.Filename, f)
}

// Save checks filename and content, then resizes, re-encodes and stores r.
func (u *Images) Save(ctx context.Context, kind, filename string, r io.Reader) (string, error) {
	if u.maxBytes > 0 {
		r = io.LimitReader(r, u.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if u.maxBytes > 0 && int64(len(data)) > u.maxBytes {
		return "", ErrTooLarge
	}

	head := data
	if len(head) > SniffLen {
		head = head[:SniffLen]
	}
	if _, err := ValidateImageBySniff(filename, head); err != nil {
		return "", err
	}

	start := time.Now()
	out, err := u.proc.Process(ctx, bytes.NewReader(data))
	metrics.ImageProcessing.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	return u.store.Save(ctx, kind, imageprocessor.OutputExt, out)
}

// Discard removes a stored image again, e.g. when saving the post failed.
func (u *Images) Discard(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	return u.store.Delete(ctx, ref)
}

// IsUserError reports whether err should be shown to the uploader.
func IsUserError(err error) bool {
	return errors.Is(err, ErrExtension) || errors.Is(err, ErrScriptable) ||
		errors.Is(err, ErrContentType) || errors.Is(err, ErrTooLarge) ||
		errors.Is(err, imageprocessor.ErrDecode)
}
