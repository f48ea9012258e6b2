// Package images bridges Go's image.Image world and the OpenCV Mat world the
// motion pipeline operates in, including the optional downscale applied to
// oversized frames before conversion.
package images

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ToMat converts an image.Image to a BGR gocv.Mat.
//
// Arguments:
//   - img: The source image; must be non-nil with positive dimensions.
//
// Returns:
//   - gocv.Mat: A CV8UC3 Mat in BGR channel order (OpenCV convention).
//   - error: An error when the image is nil or degenerate.
func ToMat(img image.Image) (gocv.Mat, error) {
	if img == nil {
		return gocv.NewMat(), errors.New("input image is nil")
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return gocv.NewMat(), errors.Errorf("invalid image dimensions %dx%d", width, height)
	}

	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// Convert from 16-bit to 8-bit and BGR order for OpenCV.
			mat.SetUCharAt(y-bounds.Min.Y, (x-bounds.Min.X)*3+0, uint8(b>>8))
			mat.SetUCharAt(y-bounds.Min.Y, (x-bounds.Min.X)*3+1, uint8(g>>8))
			mat.SetUCharAt(y-bounds.Min.Y, (x-bounds.Min.X)*3+2, uint8(r>>8))
		}
	}

	return mat, nil
}

// ToMatScaled converts an image to a Mat, first downscaling it so its width
// does not exceed maxWidth. Aspect ratio is preserved; images already within
// the limit convert unchanged. A maxWidth of 0 disables scaling.
func ToMatScaled(img image.Image, maxWidth int) (gocv.Mat, error) {
	if img == nil {
		return gocv.NewMat(), errors.New("input image is nil")
	}
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = resize.Resize(uint(maxWidth), 0, img, resize.Bilinear)
	}
	return ToMat(img)
}

// NewGrayMat creates a single-channel Mat of the given size filled with the
// provided intensity. Used to synthesize frames in tests and tooling.
func NewGrayMat(width, height int, fill uint8) gocv.Mat {
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC1)
	mat.SetTo(gocv.NewScalar(float64(fill), 0, 0, 0))
	return mat
}

// FillRect paints a filled rectangle of the given intensity into a
// single-channel Mat, clamped to the Mat bounds.
func FillRect(mat *gocv.Mat, r image.Rectangle, fill uint8) {
	r = r.Canon().Intersect(image.Rect(0, 0, mat.Cols(), mat.Rows()))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			mat.SetUCharAt(y, x, fill)
		}
	}
}
