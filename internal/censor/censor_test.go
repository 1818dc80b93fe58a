package censor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/censor/internal/predict"
)

func vertices(x1, y1, x2, y2 float64) []predict.Vertex {
	return []predict.Vertex{predict.NewVertex(x1, y1), predict.NewVertex(x2, y2)}
}

// checkerboard draws 1px black/white cells so that any blur changes every pixel.
func checkerboard(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{A: 255}
			if (x+y)%2 == 0 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8((x * y) % 251), A: 255})
		}
	}
	return img
}

func clone(img *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	return out
}

func TestMapVertices(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		verts         []predict.Vertex
		want          Region
	}{
		{"end to end box", 200, 100, vertices(0.25, 0.2, 0.75, 0.8), Region{50, 20, 150, 80}},
		{"full image", 640, 480, vertices(0, 0, 1, 1), Region{0, 0, 640, 480}},
		{"truncates", 10, 10, vertices(0.19, 0.19, 0.99, 0.99), Region{1, 1, 9, 9}},
		{"swapped is not reordered", 100, 100, vertices(0.8, 0.8, 0.2, 0.2), Region{80, 80, 20, 20}},
		{"extra vertices ignored", 100, 100, append(vertices(0.1, 0.1, 0.5, 0.5), predict.NewVertex(0.9, 0.9)), Region{10, 10, 50, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapVertices(tt.width, tt.height, tt.verts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapVerticesMalformed(t *testing.T) {
	half := 0.5
	tests := []struct {
		name  string
		verts []predict.Vertex
	}{
		{"no vertices", nil},
		{"one vertex", []predict.Vertex{predict.NewVertex(0.1, 0.1)}},
		{"missing x", []predict.Vertex{{Y: &half}, predict.NewVertex(1, 1)}},
		{"missing y", []predict.Vertex{predict.NewVertex(0, 0), {X: &half}}},
		{"negative", vertices(-0.1, 0, 1, 1)},
		{"above one", vertices(0, 0, 1.2, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MapVertices(100, 100, tt.verts)
			assert.ErrorIs(t, err, ErrMalformedVertex)
		})
	}
}

func TestMapVerticesStaysInBounds(t *testing.T) {
	steps := []float64{0, 0.001, 0.1, 0.25, 0.333, 0.5, 0.77, 0.999, 1}
	sizes := [][2]int{{1, 1}, {3, 7}, {200, 100}, {1921, 1079}}

	for _, size := range sizes {
		w, h := size[0], size[1]
		for _, a := range steps {
			for _, b := range steps {
				if a > b {
					continue
				}
				r, err := MapVertices(w, h, vertices(a, a, b, b))
				require.NoError(t, err)
				assert.True(t, 0 <= r.X1 && r.X1 <= r.X2 && r.X2 <= w, "x %v in %dx%d", r, w, h)
				assert.True(t, 0 <= r.Y1 && r.Y1 <= r.Y2 && r.Y2 <= h, "y %v in %dx%d", r, w, h)
			}
		}
	}
}

func TestShrinkSize(t *testing.T) {
	tests := []struct {
		w, h, wantW, wantH int
	}{
		{100, 100, 10, 10},
		{200, 60, 20, 6},
		{3, 3, 1, 1},
		{15, 1, 2, 1},
	}
	for _, tt := range tests {
		w, h := ShrinkSize(tt.w, tt.h)
		assert.Equal(t, tt.wantW, w, "%dx%d", tt.w, tt.h)
		assert.Equal(t, tt.wantH, h, "%dx%d", tt.w, tt.h)
	}
}

func TestMosaicKeepsSize(t *testing.T) {
	sizes := [][2]int{{100, 100}, {1, 1}, {7, 3}, {3, 250}, {123, 45}, {640, 360}}
	for _, size := range sizes {
		t.Run(fmt.Sprintf("%dx%d", size[0], size[1]), func(t *testing.T) {
			out := Mosaic(gradient(size[0], size[1]))
			assert.Equal(t, size[0], out.Bounds().Dx())
			assert.Equal(t, size[1], out.Bounds().Dy())
		})
	}
}

func TestMosaicPixelates(t *testing.T) {
	out := Mosaic(gradient(100, 100))

	// 10x10 intermediate enlarged 10 times: each 10x10 cell is flat
	for cy := 0; cy < 10; cy++ {
		for cx := 0; cx < 10; cx++ {
			ref := out.NRGBAAt(cx*10, cy*10)
			for y := cy * 10; y < cy*10+10; y++ {
				for x := cx * 10; x < cx*10+10; x++ {
					require.Equal(t, ref, out.NRGBAAt(x, y), "cell (%d,%d) pixel (%d,%d)", cx, cy, x, y)
				}
			}
		}
	}
}

func TestApplyDeterministic(t *testing.T) {
	src := gradient(120, 90)
	a, b := clone(src), clone(src)
	r := Region{10, 5, 110, 85}

	require.NoError(t, Apply(a, r))
	require.NoError(t, Apply(b, r))
	assert.True(t, bytes.Equal(a.Pix, b.Pix))
}

func TestApplyEndToEndRegion(t *testing.T) {
	original := checkerboard(200, 100)
	img := clone(original)

	r, err := MapVertices(200, 100, vertices(0.25, 0.2, 0.75, 0.8))
	require.NoError(t, err)
	require.Equal(t, Region{50, 20, 150, 80}, r)
	require.NoError(t, Apply(img, r))

	inside := image.Rect(50, 20, 150, 80)
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			got, want := img.NRGBAAt(x, y), original.NRGBAAt(x, y)
			if image.Pt(x, y).In(inside) {
				require.NotEqual(t, want, got, "pixel (%d,%d) inside region unchanged", x, y)
			} else {
				require.Equal(t, want, got, "pixel (%d,%d) outside region changed", x, y)
			}
		}
	}
}

func TestApplyOverlappingRegions(t *testing.T) {
	img := gradient(100, 100)
	require.NoError(t, Apply(img, Region{0, 0, 60, 60}))
	once := clone(img)
	require.NoError(t, Apply(img, Region{40, 40, 100, 100}))

	// the second pass only touches its own rectangle
	assert.Equal(t, once.NRGBAAt(10, 10), img.NRGBAAt(10, 10))
}

func TestApplyInvalidRegion(t *testing.T) {
	tests := []struct {
		name    string
		region  Region
		wantErr error
	}{
		{"zero width", Region{10, 10, 10, 50}, ErrEmptyRegion},
		{"zero height", Region{10, 30, 50, 30}, ErrEmptyRegion},
		{"swapped", Region{50, 50, 10, 10}, ErrEmptyRegion},
		{"past right edge", Region{50, 0, 101, 10}, ErrOutOfBounds},
		{"negative origin", Region{-1, 0, 10, 10}, ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := gradient(100, 100)
			before := clone(img)

			err := Apply(img, tt.region)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, before.Pix, img.Pix)
		})
	}
}
