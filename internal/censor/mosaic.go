package censor

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

const (
	// BlurSigma is the Gaussian sigma; imaging sizes the kernel to
	// 2*ceil(3*sigma)+1 = 31 taps.
	BlurSigma = 5.0
	// Ratio is the linear downscale factor of the pixelate step.
	Ratio = 0.1
)

// Apply censors r in place: blur, shrink to Ratio, enlarge back, both
// resizes nearest-neighbour. Pixels outside r are left untouched.
func Apply(img *image.NRGBA, r Region) error {
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return fmt.Errorf("%w: %s", ErrEmptyRegion, r)
	}
	rect := r.Rect()
	if !rect.In(img.Bounds()) {
		return fmt.Errorf("%w: %s not within %v", ErrOutOfBounds, r, img.Bounds())
	}

	patch := imaging.Crop(img, rect)
	censored := Mosaic(patch)
	draw.Copy(img, rect.Min, censored, censored.Bounds(), draw.Src, nil)
	return nil
}

// Mosaic returns the blurred and pixelated copy of patch, always the same
// size as patch.
func Mosaic(patch image.Image) *image.NRGBA {
	w, h := patch.Bounds().Dx(), patch.Bounds().Dy()
	if w == 0 || h == 0 {
		return imaging.Clone(patch)
	}

	blurred := imaging.Blur(patch, BlurSigma)
	sw, sh := ShrinkSize(w, h)
	small := imaging.Resize(blurred, sw, sh, imaging.NearestNeighbor)
	return imaging.Resize(small, w, h, imaging.NearestNeighbor)
}

// ShrinkSize is the intermediate size of the pixelate step: each side
// scaled by Ratio, rounded, never below one pixel.
func ShrinkSize(w, h int) (int, int) {
	return shrink(w), shrink(h)
}

func shrink(n int) int {
	s := int(math.Round(float64(n) * Ratio))
	if s < 1 {
		return 1
	}
	return s
}
