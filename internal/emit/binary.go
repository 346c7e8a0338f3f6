package emit

import (
	"encoding/binary"
	"io"

	"github.com/psucodervn/atlaspacker/internal/packing"
)

// WriteBinary serializes every page into the compact little-endian
// format: length-prefixed strings, i16 coordinates, conditional trim and
// rotation fields gated by the same flags used at pack time.
func WriteBinary(w io.Writer, name string, pages []*packing.Page, trim, rotate bool) error {
	bw := &binWriter{w: w}

	bw.writeI16(len(pages))
	for i, page := range pages {
		bw.writeStr(PageName(name, i, len(pages)))
		bw.writeI16(len(page.Placements))
		for _, pl := range page.Placements {
			w, h := packedDims(pl)
			bw.writeStr(pl.Bitmap.Name)
			bw.writeI16(pl.X)
			bw.writeI16(pl.Y)
			bw.writeI16(w)
			bw.writeI16(h)
			if trim {
				bw.writeI16(pl.Bitmap.FrameX)
				bw.writeI16(pl.Bitmap.FrameY)
				bw.writeI16(pl.Bitmap.FrameW)
				bw.writeI16(pl.Bitmap.FrameH)
			}
			if rotate {
				bw.writeU8(boolToInt(pl.Rotated))
			}
		}
	}

	return bw.err
}

type binWriter struct {
	w   io.Writer
	err error
}

func (bw *binWriter) writeI16(v int) {
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(bw.w, binary.LittleEndian, int16(v))
}

func (bw *binWriter) writeU8(v int) {
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(bw.w, binary.LittleEndian, uint8(v))
}

func (bw *binWriter) writeStr(s string) {
	if bw.err != nil {
		return
	}
	if bw.err = binary.Write(bw.w, binary.LittleEndian, uint16(len(s))); bw.err != nil {
		return
	}
	_, bw.err = io.WriteString(bw.w, s)
}
