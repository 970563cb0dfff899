package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/draw"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	ErrInvalidMagic      = errors.New("bundle: invalid magic")
	ErrTruncatedBundle   = errors.New("bundle: truncated payload")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrEmptyImage        = errors.New("empty image")
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// ImageToRGBA copies any image.Image into an *image.RGBA with bounds starting at (0,0).
func ImageToRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// flattenOverWhite composites src onto opaque white, the way a transparent
// region of a print shows the paper. The result starts at (0,0).
func flattenOverWhite(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// bundleHeader: magic(4) + width(uint32) + height(uint32) + seed(uint64).
// Width and height are those of the share canvas.
type bundleHeader struct {
	w, h uint32
	seed uint64
}

const bundleHeaderSize = len(magicBundle) + 4 + 4 + 8

func WriteHeader(b *bytes.Buffer, hdr bundleHeader) error {
	if _, err := b.WriteString(magicBundle); err != nil {
		return err
	}
	if err := binary.Write(b, binary.BigEndian, hdr.w); err != nil {
		return err
	}
	if err := binary.Write(b, binary.BigEndian, hdr.h); err != nil {
		return err
	}
	return binary.Write(b, binary.BigEndian, hdr.seed)
}

func ReadHeader(r *bytes.Reader) (hdr bundleHeader, err error) {
	magic := make([]byte, len(magicBundle))
	if _, err = r.Read(magic); err != nil {
		return
	}
	if string(magic) != magicBundle {
		return hdr, ErrInvalidMagic
	}
	if err = binary.Read(r, binary.BigEndian, &hdr.w); err != nil {
		return
	}
	if err = binary.Read(r, binary.BigEndian, &hdr.h); err != nil {
		return
	}
	err = binary.Read(r, binary.BigEndian, &hdr.seed)
	return
}

// --- ZSTD helpers ---

func mustNewZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

var zstdEncPool = sync.Pool{
	New: func() any {
		return mustNewZstdEncoder()
	},
}

func compressZstd(data []byte) []byte {
	enc := zstdEncPool.Get().(*zstd.Encoder)
	out := enc.EncodeAll(data, nil)
	zstdEncPool.Put(enc)
	return out
}

// zstdWindowAllowance covers the largest window our own encoder emits.
const zstdWindowAllowance = 16 << 20

// decompressZstdLimit decodes at most limit+1 bytes, so a caller can tell an
// oversized payload apart without inflating all of it.
func decompressZstdLimit(data []byte, limit int) ([]byte, error) {
	dec, err := zstd.NewReader(
		bytes.NewReader(data),
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
		zstd.WithDecoderMaxMemory(uint64(limit)+zstdWindowAllowance),
	)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out bytes.Buffer
	if _, err := io.Copy(&out, io.LimitReader(dec, int64(limit)+1)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
