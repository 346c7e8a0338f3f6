// Package emit renders packed atlas pages to PNG and serializes their
// metadata as XML, JSON, binary, and the supplemental engine descriptor
// formats. Every serializer walks Placements in their packer-assigned
// order: that order is load-bearing for byte-reproducible output.
package emit

import (
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/psucodervn/atlaspacker/internal/packing"
)

// PageName returns "<name><i>" when there is more than one page, or
// plain "<name>" for a single page, matching the filesystem layout in
// the CLI contract.
func PageName(name string, index, total int) string {
	if total == 1 {
		return name
	}
	return name + itoa(index)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// RenderPage draws every non-duplicate placement from page onto a fresh
// transparent RGBA canvas and encodes it as PNG.
func RenderPage(w io.Writer, page *packing.Page) error {
	canvas := image.NewRGBA(image.Rect(0, 0, page.Width, page.Height))

	for _, pl := range page.Placements {
		if pl.DupOf >= 0 {
			continue
		}
		if pl.Rotated {
			blitRotated(canvas, pl)
		} else {
			blitStraight(canvas, pl)
		}
	}

	return png.Encode(w, canvas)
}

func blitStraight(dst *image.RGBA, pl packing.Placement) {
	b := pl.Bitmap
	src := &image.RGBA{
		Pix:    b.Pixels,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
	draw.Draw(dst, image.Rect(pl.X, pl.Y, pl.X+b.Width, pl.Y+b.Height), src, image.Point{}, draw.Src)
}

// blitRotated performs the clockwise quarter-turn transpose: source
// (u,v) lands at (x+(height-1-v), y+u).
func blitRotated(dst *image.RGBA, pl packing.Placement) {
	b := pl.Bitmap
	for v := 0; v < b.Height; v++ {
		for u := 0; u < b.Width; u++ {
			si := (v*b.Width + u) * 4
			tx := pl.X + (b.Height - 1 - v)
			ty := pl.Y + u
			di := dst.PixOffset(tx, ty)
			copy(dst.Pix[di:di+4], b.Pixels[si:si+4])
		}
	}
}
