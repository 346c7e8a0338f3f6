// Package packing implements the MaxRects bin-packing engine: the
// insertion-loop driver (sort-by-area, dedup, multi-page overflow,
// shrink-to-fit) on top of the MaxRects bin in maxrects.go.
package packing

import (
	"fmt"
	"sort"

	"github.com/psucodervn/atlaspacker/internal/bitmap"
)

// Placement is the packer's decision for one bitmap on one page.
type Placement struct {
	Bitmap  *bitmap.Bitmap
	X, Y    int
	Rotated bool
	// DupOf is the index (within the same Page.Placements) of another
	// Placement whose Bitmap is content-identical, or -1 if this is an
	// original (non-duplicate) placement.
	DupOf int
}

// Page is one atlas page: final canvas size plus every placement on it, in
// insertion order (load-bearing for reproducible emission, spec §4.4).
type Page struct {
	Width, Height int
	Placements    []Placement
}

// PackError reports a bitmap that cannot fit on any fresh page.
type PackError struct {
	Bitmap *bitmap.Bitmap
}

func (e *PackError) Error() string {
	return fmt.Sprintf("packing failed, could not fit bitmap: %s", e.Bitmap.Name)
}

// ByArea sorts bitmaps by ascending width*height, the ordering the packer
// requires before it starts (it consumes from the back, largest first).
// Bitmaps of equal area are ordered by Name, so the result does not depend
// on the order the loader returned them in.
type ByArea []*bitmap.Bitmap

func (a ByArea) Len() int { return len(a) }
func (a ByArea) Less(i, j int) bool {
	if a[i].Area() != a[j].Area() {
		return a[i].Area() < a[j].Area()
	}
	return a[i].Name < a[j].Name
}
func (a ByArea) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }

// Packer drives the MaxRects insertion loop across as many pages as
// needed. It is strictly sequential — see spec §5.
type Packer struct {
	Size    int
	Pad     int
	Rotate  bool
	Unique  bool
}

// New creates a Packer for the given max page size, padding, and feature
// flags.
func New(size, pad int, rotate, unique bool) *Packer {
	return &Packer{Size: size, Pad: pad, Rotate: rotate, Unique: unique}
}

// PackAll sorts bitmaps by area and packs them into as many pages as
// needed. It returns PackError if some bitmap cannot fit on any fresh
// page (always the largest bitmap still unplaced, per spec §4.3).
func (p *Packer) PackAll(bitmaps []*bitmap.Bitmap) ([]*Page, error) {
	remaining := make([]*bitmap.Bitmap, len(bitmaps))
	copy(remaining, bitmaps)
	sort.Sort(ByArea(remaining))

	var pages []*Page
	for len(remaining) > 0 {
		page, rest := p.packOnePage(remaining)
		if len(page.Placements) == 0 {
			return pages, &PackError{Bitmap: rest[len(rest)-1]}
		}
		pages = append(pages, page)
		remaining = rest
	}
	return pages, nil
}

// packOnePage packs as many bitmaps as fit (from the back of remaining,
// largest first) into one fresh page, then shrinks the page to the
// smallest power-of-two canvas containing every placement.
func (p *Packer) packOnePage(remaining []*bitmap.Bitmap) (*Page, []*bitmap.Bitmap) {
	bin := NewMaxRects(p.Size, p.Size)
	page := &Page{Width: p.Size, Height: p.Size}
	dupIndex := make(map[uint64]int)
	ww, hh := 0, 0

	for len(remaining) > 0 {
		b := remaining[len(remaining)-1]

		if p.Unique {
			if idx, ok := dupIndex[b.ContentHash]; ok && page.Placements[idx].Bitmap.Equals(b) {
				hit := page.Placements[idx]
				page.Placements = append(page.Placements, Placement{
					Bitmap: b, X: hit.X, Y: hit.Y, Rotated: hit.Rotated, DupOf: idx,
				})
				remaining = remaining[:len(remaining)-1]
				continue
			}
		}

		rect, ok := bin.Insert(b.Width+p.Pad, b.Height+p.Pad, p.Rotate)
		if !ok {
			break
		}

		rotated := p.Rotate && b.Width != (rect.W-p.Pad)
		idx := len(page.Placements)
		page.Placements = append(page.Placements, Placement{
			Bitmap: b, X: rect.X, Y: rect.Y, Rotated: rotated, DupOf: -1,
		})
		if p.Unique {
			dupIndex[b.ContentHash] = idx
		}
		remaining = remaining[:len(remaining)-1]

		if rect.X+rect.W > ww {
			ww = rect.X + rect.W
		}
		if rect.Y+rect.H > hh {
			hh = rect.Y + rect.H
		}
	}

	if len(page.Placements) > 0 {
		w, h := p.Size, p.Size
		for w/2 >= ww {
			w /= 2
		}
		for h/2 >= hh {
			h /= 2
		}
		page.Width, page.Height = w, h
	}

	return page, remaining
}
