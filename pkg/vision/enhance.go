package vision

import (
	"image"

	"gocv.io/x/gocv"
)

// Unsharp mask parameters for the live view.
const (
	SharpenAmount = 0.7
	SharpenGamma  = 2.2
)

// Enhance upscales a decoded frame 2x and applies an unsharp mask so the
// live view stays readable at the camera's modest resolution. dst is
// overwritten.
func Enhance(src gocv.Mat, dst *gocv.Mat) {
	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(src, &scaled, image.Point{}, 2, 2, gocv.InterpolationLanczos4)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(scaled, &blurred, image.Pt(3, 3), 0, 0, gocv.BorderDefault)

	gocv.AddWeighted(scaled, 1+SharpenAmount, blurred, -SharpenAmount, SharpenGamma, dst)
}
