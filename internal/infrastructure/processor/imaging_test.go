package processor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestThumbnail_CoverFitsBox(t *testing.T) {
	p := New()

	thumb, err := p.Thumbnail(context.Background(), encodePNG(t, 800, 600))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("thumbnail is not valid jpeg: %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() != 500 || bounds.Dy() != 500 {
		t.Fatalf("thumbnail = %dx%d, want 500x500", bounds.Dx(), bounds.Dy())
	}
}

func TestThumbnail_CustomBox(t *testing.T) {
	p := New(ThumbnailBox(128, 96))

	thumb, err := p.Thumbnail(context.Background(), encodePNG(t, 640, 480))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("thumbnail is not valid jpeg: %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() != 128 || bounds.Dy() != 96 {
		t.Fatalf("thumbnail = %dx%d, want 128x96", bounds.Dx(), bounds.Dy())
	}
}

func TestThumbnail_RejectsGarbage(t *testing.T) {
	p := New()

	if _, err := p.Thumbnail(context.Background(), []byte("not an image")); err == nil {
		t.Fatalf("garbage input must not decode")
	}
}
