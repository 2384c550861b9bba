// Package frames turns full-page screenshots into fixed-size zoomed frames.
package frames

import (
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ErrEmptyCrop is returned when the zoom box lies entirely outside the screenshot
var ErrEmptyCrop = errors.New("crop box is empty")

// Geometry is the crop and canvas sizes used to compose a frame
type Geometry struct {
	ZoomWidth   int
	ZoomHeight  int
	FrameWidth  int
	FrameHeight int
}

// CropRect centers a zoomW x zoomH box on (cx, cy), clamped to bounds.
// The left and top edges are truncated toward zero and clamped at the image
// origin. The right and bottom edges are clamped at the image size.
func CropRect(cx, cy float64, zoomW, zoomH int, bounds image.Rectangle) image.Rectangle {
	left := int(cx - float64(zoomW)/2)
	upper := int(cy - float64(zoomH)/2)
	if left < 0 {
		left = 0
	}
	if upper < 0 {
		upper = 0
	}

	right := min(left+zoomW, bounds.Dx())
	lower := min(upper+zoomH, bounds.Dy())
	if right <= left || lower <= upper {
		// image.Rect would swap the edges
		return image.Rectangle{}
	}

	return image.Rectangle{
		Min: image.Pt(left, upper),
		Max: image.Pt(right, lower),
	}.Add(bounds.Min)
}

// FitSize scales srcW x srcH to fit frameW x frameH, preserving aspect ratio
func FitSize(srcW, srcH, frameW, frameH int) (w, h int) {
	ratio := float64(srcW) / float64(srcH)
	if ratio > float64(frameW)/float64(frameH) {
		return frameW, int(float64(frameW) / ratio)
	}
	return int(float64(frameH) * ratio), frameH
}

// Compose crops src around (cx, cy), resizes the crop with Lanczos to fit the
// frame and pastes it centered on a white canvas
func Compose(src image.Image, cx, cy float64, g Geometry) (*image.NRGBA, error) {
	rect := CropRect(cx, cy, g.ZoomWidth, g.ZoomHeight, src.Bounds())
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return nil, ErrEmptyCrop
	}

	cropped := imaging.Crop(src, rect)

	w, h := FitSize(cropped.Bounds().Dx(), cropped.Bounds().Dy(), g.FrameWidth, g.FrameHeight)
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyCrop
	}
	resized := imaging.Resize(cropped, w, h, imaging.Lanczos)

	canvas := imaging.New(g.FrameWidth, g.FrameHeight, color.White)
	offset := image.Pt((g.FrameWidth-w)/2, (g.FrameHeight-h)/2)

	return imaging.Paste(canvas, resized, offset), nil
}
