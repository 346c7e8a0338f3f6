package packing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psucodervn/atlaspacker/internal/bitmap"
	"github.com/psucodervn/atlaspacker/internal/packing"
)

func mustBitmap(name string, w, h int, fill byte) *bitmap.Bitmap {
	pix := make([]byte, w*h*4)
	for i := range pix {
		pix[i] = fill
	}
	return &bitmap.Bitmap{
		Name: name, Width: w, Height: h, Pixels: pix,
		FrameX: 0, FrameY: 0, FrameW: w, FrameH: h,
		ContentHash: contentHashFor(w, h, fill),
	}
}

func contentHashFor(w, h int, fill byte) uint64 {
	// Cheap stand-in content hash for test fixtures: identical
	// (w, h, fill) bitmaps must collide so dedup can be exercised.
	return uint64(w)<<32 | uint64(h)<<8 | uint64(fill)
}

func TestPackAllSingleSprite(t *testing.T) {
	p := packing.New(16, 1, false, false)
	pages, err := p.PackAll([]*bitmap.Bitmap{mustBitmap("red", 10, 10, 255)})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	require.Equal(t, 16, pages[0].Width)
	require.Equal(t, 16, pages[0].Height)
	require.Len(t, pages[0].Placements, 1)
	require.Equal(t, 0, pages[0].Placements[0].X)
	require.Equal(t, 0, pages[0].Placements[0].Y)
	require.False(t, pages[0].Placements[0].Rotated)
}

func TestPackAllDeduplicatesIdenticalContent(t *testing.T) {
	a := mustBitmap("a", 32, 32, 7)
	b := mustBitmap("b", 32, 32, 7)
	p := packing.New(64, 0, false, true)
	pages, err := p.PackAll([]*bitmap.Bitmap{a, b})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	require.Len(t, pages[0].Placements, 2)

	first, second := pages[0].Placements[0], pages[0].Placements[1]
	require.Equal(t, -1, first.DupOf)
	require.Equal(t, 0, second.DupOf)
	require.Equal(t, first.X, second.X)
	require.Equal(t, first.Y, second.Y)
}

func TestPackAllOverflowsToSecondPage(t *testing.T) {
	// Three unpadded 48x48 sprites won't all fit on one 64x64 page.
	p := packing.New(64, 0, false, false)
	bitmaps := []*bitmap.Bitmap{
		mustBitmap("a", 48, 48, 1),
		mustBitmap("b", 48, 48, 2),
		mustBitmap("c", 48, 48, 3),
	}
	pages, err := p.PackAll(bitmaps)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(pages), 2)
}

func TestPackAllFailsWhenSpriteTooLargeForPage(t *testing.T) {
	p := packing.New(64, 0, true, false)
	_, err := p.PackAll([]*bitmap.Bitmap{mustBitmap("huge", 128, 16, 1)})
	require.Error(t, err)
	var packErr *packing.PackError
	require.ErrorAs(t, err, &packErr)
	require.Equal(t, "huge", packErr.Bitmap.Name)
}

func TestPackAllRotatesWhenItFits(t *testing.T) {
	p := packing.New(256, 0, true, false)
	pages, err := p.PackAll([]*bitmap.Bitmap{mustBitmap("wide", 128, 16, 1)})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	placement := pages[0].Placements[0]
	require.True(t, placement.Rotated)
}

func TestPackAllNoOverlapInvariant(t *testing.T) {
	p := packing.New(256, 2, true, false)
	var bitmaps []*bitmap.Bitmap
	sizes := [][2]int{{10, 10}, {20, 15}, {5, 40}, {60, 60}, {33, 12}, {12, 33}}
	for i, s := range sizes {
		bitmaps = append(bitmaps, mustBitmap(string(rune('a'+i)), s[0], s[1], byte(i+1)))
	}
	pages, err := p.PackAll(bitmaps)
	require.NoError(t, err)
	for _, page := range pages {
		type box struct{ x0, y0, x1, y1 int }
		var boxes []box
		for _, pl := range page.Placements {
			if pl.DupOf >= 0 {
				continue
			}
			w, h := pl.Bitmap.Width, pl.Bitmap.Height
			if pl.Rotated {
				w, h = h, w
			}
			boxes = append(boxes, box{pl.X, pl.Y, pl.X + w + p.Pad, pl.Y + h + p.Pad})
			require.LessOrEqual(t, pl.X+w+p.Pad, page.Width)
			require.LessOrEqual(t, pl.Y+h+p.Pad, page.Height)
		}
		for i := range boxes {
			for j := range boxes {
				if i == j {
					continue
				}
				a, b := boxes[i], boxes[j]
				overlap := a.x0 < b.x1 && a.x1 > b.x0 && a.y0 < b.y1 && a.y1 > b.y0
				require.False(t, overlap)
			}
		}
	}
}
