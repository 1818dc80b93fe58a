package imageio

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

// Quality is the JPEG quality of every written image.
const Quality = 100

// SaveJPEG encodes img as JPEG to path, replacing any existing file. The
// extension of path is not consulted.
func SaveJPEG(img image.Image, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(Quality)); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}
