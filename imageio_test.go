package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, err := Split(makeSecret(12, 8), makeTestImage(12, 8), makeTestImage(12, 8), Options{Seed: 9})
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	dir := t.TempDir()

	for _, tc := range []struct {
		name, ext, format string
	}{
		{name: "png", ext: ".png", format: "png"},
		{name: "bmp", ext: ".bmp", format: "bmp"},
		{name: "qoi", ext: ".qoi", format: "qoi"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, "share1"+tc.ext)
			if err := saveImage(s.Share1, path); err != nil {
				t.Fatalf("saveImage: %v", err)
			}
			img, format, err := loadImage(path)
			if err != nil {
				t.Fatalf("loadImage: %v", err)
			}
			if format != tc.format {
				t.Fatalf("format: got %q want %q", format, tc.format)
			}
			if got := ImageToRGBA(img); !bytes.Equal(got.Pix, s.Share1.Pix) {
				t.Fatalf("pixels changed through %s", tc.format)
			}
		})
	}
}

func TestSaveImage_Unsupported(t *testing.T) {
	img := makeTestImage(2, 2)
	for _, name := range []string{"out.jpg", "out.gif", "out"} {
		path := filepath.Join(t.TempDir(), name)
		if err := saveImage(img, path); !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("%s: got %v, want ErrUnsupportedFormat", name, err)
		}
	}
}

func TestLoadImage_Missing(t *testing.T) {
	if _, _, err := loadImage(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestResizeTo(t *testing.T) {
	src := makeTestImage(10, 6)

	same := resizeTo(src, 10, 6)
	if !bytes.Equal(same.Pix, src.Pix) {
		t.Fatalf("resize to the same size changed pixels")
	}

	for _, sz := range []image.Point{{4, 3}, {25, 17}, {1, 1}} {
		got := resizeTo(src, sz.X, sz.Y)
		if got.Bounds() != image.Rect(0, 0, sz.X, sz.Y) {
			t.Fatalf("resize to %v: got %v", sz, got.Bounds())
		}
	}

	// A solid cover stays solid after resampling.
	solid := makeSolidImage(7, 7, color.RGBA{10, 200, 30, 255})
	up := resizeTo(solid, 13, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 13; x++ {
			if c := up.RGBAAt(x, y); c != (color.RGBA{10, 200, 30, 255}) {
				t.Fatalf("(%d,%d): got %v", x, y, c)
			}
		}
	}
}

func TestBinarize(t *testing.T) {
	img := image.NewGray(image.Rect(3, 3, 7, 4))
	for i, v := range []uint8{0, 127, 128, 255} {
		img.SetGray(3+i, 3, color.Gray{Y: v})
	}
	g := binarize(img, defaultThreshold)
	want := []bool{true, true, false, false}
	for x, w := range want {
		if g.Black(x, 0) != w {
			t.Fatalf("x=%d: got %v want %v", x, g.Black(x, 0), w)
		}
	}
}

func TestBinarize_Transparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 0})
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 0})
	img.SetNRGBA(2, 0, color.NRGBA{0, 0, 0, 255})
	img.SetNRGBA(3, 0, color.NRGBA{0, 0, 0, 40})

	g := binarize(img, defaultThreshold)
	want := []bool{false, false, true, false}
	for x, w := range want {
		if g.Black(x, 0) != w {
			t.Fatalf("x=%d: got %v want %v", x, g.Black(x, 0), w)
		}
	}
}

func TestResizeTo_FlattensTransparency(t *testing.T) {
	transparent := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range transparent.Pix {
		transparent.Pix[i] = 255
	}
	for i := 3; i < len(transparent.Pix); i += 4 {
		transparent.Pix[i] = 0
	}

	white := color.RGBA{255, 255, 255, 255}
	for _, sz := range []image.Point{{4, 4}, {3, 5}} {
		got := resizeTo(transparent, sz.X, sz.Y)
		for y := 0; y < sz.Y; y++ {
			for x := 0; x < sz.X; x++ {
				if c := got.RGBAAt(x, y); c != white {
					t.Fatalf("%v (%d,%d): got %v want white", sz, x, y, c)
				}
			}
		}
	}
}

func TestWriteOutputs_AllOrNothing(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "share1.png")
	second := filepath.Join(dir, "share2.png")
	failing := outputFile{path: second, write: func(w io.Writer) error {
		return errors.New("disk full")
	}}

	err := writeOutputs([]outputFile{imageOutput(makeTestImage(4, 4), first), failing})
	if err == nil {
		t.Fatalf("expected error from failing writer")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("files left behind: %v", entries)
	}

	// An unsupported extension late in the set also leaves nothing behind.
	err = writeOutputs([]outputFile{
		imageOutput(makeTestImage(4, 4), first),
		imageOutput(makeTestImage(4, 4), filepath.Join(dir, "reconstructed.jpg")),
	})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Fatalf("files left behind: %v", entries)
	}

	if err := writeOutputs([]outputFile{bytesOutput([]byte("ok"), first)}); err != nil {
		t.Fatalf("writeOutputs: %v", err)
	}
	if data, err := os.ReadFile(first); err != nil || string(data) != "ok" {
		t.Fatalf("committed file: %q, %v", data, err)
	}
}
