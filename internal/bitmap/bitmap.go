// Package bitmap decodes and preprocesses the PNG sprites that feed the
// packer: discovery, decoding, alpha premultiplication, tight-bounds
// trimming, and content fingerprinting for deduplication.
package bitmap

import "bytes"

// Bitmap is a decoded, possibly-trimmed sprite. It is created once by a
// Loader and never mutated afterwards.
type Bitmap struct {
	// Name is a stable identifier derived from the source path relative to
	// its input root, without extension, using '/' as separator.
	Name string

	// Pixels holds the trimmed content in 8-bit RGBA order, premultiplied
	// if Loader.Premultiply was set. len(Pixels) == Width*Height*4.
	Pixels []byte

	Width, Height int

	// FrameX/FrameY/FrameW/FrameH describe the bitmap's placement inside
	// the untrimmed source image (see trim in loader.go).
	FrameX, FrameY, FrameW, FrameH int

	// ContentHash is a 64-bit fingerprint of (Width, Height, Pixels), used
	// as a filter before a full pixel comparison in Equals.
	ContentHash uint64
}

// Equals reports whether b and o have pixel-identical content. ContentHash
// is checked first as a cheap filter; it is not itself sufficient proof.
func (b *Bitmap) Equals(o *Bitmap) bool {
	if b == o {
		return true
	}
	if b.ContentHash != o.ContentHash {
		return false
	}
	if b.Width != o.Width || b.Height != o.Height {
		return false
	}
	return bytes.Equal(b.Pixels, o.Pixels)
}

// Area returns Width*Height, the sort key the packer orders bitmaps by.
func (b *Bitmap) Area() int {
	return b.Width * b.Height
}
