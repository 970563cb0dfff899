package main

import (
	"bytes"
	"fmt"
	"math"
)

// A bundle stores a share pair losslessly as palette codes:
//
//	header (see bundleHeader) | zstd(codes1 ++ codes2)
//
// Codes are packed two per byte, high nibble first.
const magicBundle = "VCS1"

// maxBundleCodes caps the canvas area a bundle header may declare.
const maxBundleCodes = math.MaxInt32

// EncodeBundle serializes both shares of s.
func EncodeBundle(s *Shares) ([]byte, error) {
	n := 2 * s.Width * s.Height
	if len(s.Codes1) != n || len(s.Codes2) != n {
		return nil, fmt.Errorf("bundle: %d/%d codes for %dx%d: %w", len(s.Codes1), len(s.Codes2), s.Width, s.Height, ErrDimensionMismatch)
	}

	b := &bytes.Buffer{}
	hdr := bundleHeader{w: uint32(2 * s.Width), h: uint32(s.Height), seed: s.Seed}
	if err := WriteHeader(b, hdr); err != nil {
		return nil, err
	}

	raw := make([]byte, 0, n)
	raw = packNibbles(raw, s.Codes1)
	raw = packNibbles(raw, s.Codes2)
	b.Write(compressZstd(raw))
	return b.Bytes(), nil
}

// DecodeBundle parses data produced by EncodeBundle and re-renders both
// canvases. Out-of-table codes render as black.
func DecodeBundle(data []byte) (*Shares, error) {
	r := bytes.NewReader(data)
	hdr, err := ReadHeader(r)
	if err != nil {
		if err == ErrInvalidMagic {
			return nil, err
		}
		return nil, fmt.Errorf("%w: header: %v", ErrTruncatedBundle, err)
	}
	if hdr.w == 0 || hdr.w%2 != 0 || hdr.h == 0 {
		return nil, fmt.Errorf("bundle: canvas %dx%d: %w", hdr.w, hdr.h, ErrDimensionMismatch)
	}
	// One code per canvas pixel per share; both fit in uint64 without overflow.
	codes := uint64(hdr.w) * uint64(hdr.h)
	if codes > maxBundleCodes {
		return nil, fmt.Errorf("bundle: canvas %dx%d too large: %w", hdr.w, hdr.h, ErrDimensionMismatch)
	}

	w, h := int(hdr.w/2), int(hdr.h)
	n := int(codes)
	plane := n / 2

	plain, err := decompressZstdLimit(data[bundleHeaderSize:], 2*plane)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	if len(plain) < 2*plane {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrTruncatedBundle, len(plain), 2*plane)
	}
	if len(plain) > 2*plane {
		return nil, fmt.Errorf("bundle: payload exceeds %d bytes: %w", 2*plane, ErrDimensionMismatch)
	}

	s := &Shares{
		Codes1: unpackNibbles(plain[:plane], n),
		Codes2: unpackNibbles(plain[plane:2*plane], n),
		Width:  w,
		Height: h,
		Seed:   hdr.seed,
	}
	s.Share1 = renderCodes(s.Codes1, w, h)
	s.Share2 = renderCodes(s.Codes2, w, h)
	return s, nil
}

func packNibbles(dst []byte, codes []ColorCode) []byte {
	for i := 0; i < len(codes); i += 2 {
		v := byte(codes[i]&0x0f) << 4
		if i+1 < len(codes) {
			v |= byte(codes[i+1] & 0x0f)
		}
		dst = append(dst, v)
	}
	return dst
}

func unpackNibbles(src []byte, n int) []ColorCode {
	codes := make([]ColorCode, n)
	for i := range codes {
		v := src[i/2]
		if i%2 == 0 {
			v >>= 4
		}
		codes[i] = ColorCode(v & 0x0f)
	}
	return codes
}
