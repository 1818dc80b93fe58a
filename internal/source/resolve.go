package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Suffix is inserted before the extension of every derived output name.
const Suffix = "_censored"

var ErrInputNotFound = errors.New("input not found")

// Job is one (input, output) unit of work.
type Job struct {
	Input  string
	Output string
}

// Resolve turns the command-line argument into jobs. A file yields one job,
// written to output when given. A directory yields one job per direct child
// file in directory order; output is ignored there.
func Resolve(path, output string) ([]Job, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, err
	}

	if !fi.IsDir() {
		if output == "" {
			output = OutputPath(path)
		}
		return []Job{{Input: path, Output: output}}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var jobs []Job
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		input := filepath.Join(path, entry.Name())
		jobs = append(jobs, Job{Input: input, Output: OutputPath(input)})
	}
	return jobs, nil
}

// OutputPath inserts Suffix before the extension: photo.png -> photo_censored.png.
// PDFs are written as page images, so they get a .jpg extension.
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(input, ext)
	if IsPDF(input) {
		ext = ".jpg"
	}
	return stem + Suffix + ext
}

// PageOutputPath numbers the output of page index (0-based) of a
// multi-page source: doc_censored.jpg -> doc_censored_p2.jpg.
func PageOutputPath(output string, index int) string {
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s_p%d%s", strings.TrimSuffix(output, ext), index+1, ext)
}

func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
