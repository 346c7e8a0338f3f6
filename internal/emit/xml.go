package emit

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/psucodervn/atlaspacker/internal/packing"
)

// WriteXML serializes every page of name into a single <atlas> document.
// trim and rotate gate the optional fx/fy/fw/fh and r attributes. The tags
// are hand-written rather than produced via encoding/xml's Encoder, which
// never emits the self-closing <img .../> form the wire format requires
// (it always writes explicit open/close tags) — matching the original
// ofstream-based writer byte-for-byte requires writing them directly.
func WriteXML(w io.Writer, name string, pages []*packing.Page, trim, rotate bool) error {
	buf := &bytes.Buffer{}
	buf.WriteString(xml.Header)
	buf.WriteString("<atlas>\n")

	for i, page := range pages {
		fmt.Fprintf(buf, "  <tex n=%q>\n", PageName(name, i, len(pages)))
		for _, pl := range page.Placements {
			packedW, packedH := packedDims(pl)
			buf.WriteString("    <img")
			fmt.Fprintf(buf, " n=%s", escapeAttr(pl.Bitmap.Name))
			fmt.Fprintf(buf, " x=%q y=%q w=%q h=%q", itoa(pl.X), itoa(pl.Y), itoa(packedW), itoa(packedH))
			if trim {
				fmt.Fprintf(buf, " fx=%q fy=%q fw=%q fh=%q",
					itoa(pl.Bitmap.FrameX), itoa(pl.Bitmap.FrameY), itoa(pl.Bitmap.FrameW), itoa(pl.Bitmap.FrameH))
			}
			if rotate {
				fmt.Fprintf(buf, " r=%q", itoa(boolToInt(pl.Rotated)))
			}
			buf.WriteString("/>\n")
		}
		buf.WriteString("  </tex>\n")
	}

	buf.WriteString("</atlas>\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// escapeAttr renders s as a double-quoted, XML-escaped attribute value.
func escapeAttr(s string) string {
	var buf bytes.Buffer
	buf.WriteByte('"')
	xml.EscapeText(&buf, []byte(s))
	buf.WriteByte('"')
	return buf.String()
}

func packedDims(pl packing.Placement) (w, h int) {
	w, h = pl.Bitmap.Width, pl.Bitmap.Height
	if pl.Rotated {
		w, h = h, w
	}
	return w, h
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
