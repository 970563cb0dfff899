package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// loadImage decodes PNG, JPEG, GIF, BMP or QOI.
func loadImage(path string) (image.Image, string, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer in.Close()

	img, format, err := image.Decode(in)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return img, format, nil
}

// saveImage encodes img by the extension of path. Only lossless formats are
// accepted: a lossy encoder would shift the palette colors the shares rely on.
func saveImage(img image.Image, path string) error {
	return writeOutputs([]outputFile{imageOutput(img, path)})
}

func encodeImage(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".qoi":
		return qoi.Encode(w, img)
	}
	return fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
}

// outputFile is one file of a run's output set.
type outputFile struct {
	path  string
	write func(io.Writer) error
}

func imageOutput(img image.Image, path string) outputFile {
	return outputFile{path: path, write: func(w io.Writer) error {
		return encodeImage(w, img, filepath.Ext(path))
	}}
}

func bytesOutput(data []byte, path string) outputFile {
	return outputFile{path: path, write: func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}}
}

// writeOutputs writes every file under a temporary name next to its
// destination and renames them into place only once all of them were
// written. If any write fails, the temporaries are removed and no
// destination is touched.
func writeOutputs(files []outputFile) error {
	tmps := make([]string, 0, len(files))
	cleanup := func() {
		for _, t := range tmps {
			os.Remove(t)
		}
	}

	for _, f := range files {
		tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
		if err != nil {
			cleanup()
			return err
		}
		tmps = append(tmps, tmp.Name())

		err = f.write(tmp)
		if err == nil {
			err = tmp.Chmod(0o644)
		}
		if cerr := tmp.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			cleanup()
			return fmt.Errorf("%s: %w", f.path, err)
		}
	}

	for i, f := range files {
		if err := os.Rename(tmps[i], f.path); err != nil {
			cleanup()
			return err
		}
	}
	return nil
}

// resizeTo scales img to w×h with Catmull-Rom. The kernel is fixed so that
// the same seed always sees the same targets. Transparent pixels are
// flattened onto white first; an image already at w×h is otherwise copied
// unchanged.
func resizeTo(img image.Image, w, h int) *image.RGBA {
	flat := flattenOverWhite(img)
	if flat.Rect.Dx() == w && flat.Rect.Dy() == h {
		return flat
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), flat, flat.Bounds(), draw.Src, nil)
	return dst
}
