package source

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

type ImageSource struct {
	path string
	data []byte
}

func NewImageSource(path string) *ImageSource {
	return &ImageSource{path: path}
}

func (s *ImageSource) PageCount() int {
	return 1
}

func (s *ImageSource) PageBytes(index int) ([]byte, error) {
	if index != 0 {
		return nil, fmt.Errorf("page %d out of range", index)
	}
	if s.data == nil {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return nil, err
		}
		s.data = data
	}
	return s.data, nil
}

func (s *ImageSource) DecodePage(index int) (*image.NRGBA, error) {
	data, err := s.PageBytes(index)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return decodeOpaque(img), nil
}

func (s *ImageSource) Close() error {
	s.data = nil
	return nil
}
