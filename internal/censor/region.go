package censor

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/ivlev/censor/internal/predict"
)

var (
	ErrMalformedVertex = errors.New("malformed vertex")
	ErrEmptyRegion     = errors.New("empty region")
	ErrOutOfBounds     = errors.New("region out of image bounds")
)

// Region is a pixel rectangle [X1,X2) x [Y1,Y2). Unlike image.Rectangle it
// is never canonicalized, so a swapped box stays visibly invalid.
type Region struct {
	X1, Y1, X2, Y2 int
}

func (r Region) Dx() int { return r.X2 - r.X1 }
func (r Region) Dy() int { return r.Y2 - r.Y1 }

func (r Region) Rect() image.Rectangle {
	return image.Rectangle{Min: image.Pt(r.X1, r.Y1), Max: image.Pt(r.X2, r.Y2)}
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
}

// MapVertices converts the first two normalized vertices of a bounding box
// into pixel coordinates, truncating toward zero. Ordering is not checked.
func MapVertices(width, height int, vertices []predict.Vertex) (Region, error) {
	if len(vertices) < 2 {
		return Region{}, fmt.Errorf("%w: need 2 vertices, got %d", ErrMalformedVertex, len(vertices))
	}

	x1, err := scale(vertices[0].X, width, "vertices[0].x")
	if err != nil {
		return Region{}, err
	}
	y1, err := scale(vertices[0].Y, height, "vertices[0].y")
	if err != nil {
		return Region{}, err
	}
	x2, err := scale(vertices[1].X, width, "vertices[1].x")
	if err != nil {
		return Region{}, err
	}
	y2, err := scale(vertices[1].Y, height, "vertices[1].y")
	if err != nil {
		return Region{}, err
	}

	return Region{X1: x1, Y1: y1, X2: x2, Y2: y2}, nil
}

func scale(v *float64, size int, key string) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformedVertex, key)
	}
	if math.IsNaN(*v) || *v < 0 || *v > 1 {
		return 0, fmt.Errorf("%w: %s=%v outside [0,1]", ErrMalformedVertex, key, *v)
	}
	return int(math.Floor(float64(size) * *v)), nil
}
