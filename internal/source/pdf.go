package source

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
)

// FitzPDFSource renders document pages; each page is censored like an image.
type FitzPDFSource struct {
	doc *fitz.Document
	dpi int

	// the last rendered page, since bytes and buffer are asked for in turn
	cached   int
	rendered image.Image
}

func NewFitzPDFSource(path string, dpi int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzPDFSource{doc: doc, dpi: dpi, cached: -1}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) render(index int) (image.Image, error) {
	if f.cached == index && f.rendered != nil {
		return f.rendered, nil
	}
	img, err := f.doc.ImageDPI(index, float64(f.dpi))
	if err != nil {
		return nil, err
	}
	f.cached, f.rendered = index, img
	return img, nil
}

func (f *FitzPDFSource) PageBytes(index int) ([]byte, error) {
	img, err := f.render(index)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *FitzPDFSource) DecodePage(index int) (*image.NRGBA, error) {
	img, err := f.render(index)
	if err != nil {
		return nil, err
	}
	return decodeOpaque(img), nil
}

func (f *FitzPDFSource) Close() error {
	f.rendered = nil
	return f.doc.Close()
}
