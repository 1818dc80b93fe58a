package source

import (
	"image"

	"github.com/disintegration/imaging"
)

// Source is the decodable content of one job: a single image or the pages
// of a document.
type Source interface {
	PageCount() int
	// PageBytes is the encoded page as submitted to the detector.
	PageBytes(index int) ([]byte, error)
	// DecodePage returns a fresh, fully opaque buffer the caller may mutate.
	DecodePage(index int) (*image.NRGBA, error)
	Close() error
}

// Open picks the source implementation by file extension.
func Open(path string, dpi int) (Source, error) {
	if IsPDF(path) {
		return NewFitzPDFSource(path, dpi)
	}
	return NewImageSource(path), nil
}

// decodeOpaque copies img into a new buffer and discards its alpha channel,
// keeping the stored colour of transparent pixels.
func decodeOpaque(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}
