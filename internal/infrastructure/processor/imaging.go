package processor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	_defaultThumbWidth  = 500
	_defaultThumbHeight = 500
)

// ImageProcessor derives thumbnails from fetched assets. Thumbnails are
// cover-fit into a fixed box and always re-encoded as JPEG, whatever the
// source format was.
type ImageProcessor struct {
	thumbWidth  int
	thumbHeight int
}

func New(opts ...Option) *ImageProcessor {
	p := &ImageProcessor{
		thumbWidth:  _defaultThumbWidth,
		thumbHeight: _defaultThumbHeight,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *ImageProcessor) Thumbnail(ctx context.Context, data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Thumbnail - imaging.Decode: %w", err)
	}

	thumb := imaging.Fill(img, p.thumbWidth, p.thumbHeight, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	err = imaging.Encode(&buf, thumb, imaging.JPEG)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Thumbnail - imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}
