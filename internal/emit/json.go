package emit

import (
	"encoding/json"
	"io"

	"github.com/psucodervn/atlaspacker/internal/packing"
)

type jsonImage struct {
	Name             string `json:"Name"`
	X                int    `json:"X"`
	Y                int    `json:"Y"`
	W                int    `json:"W"`
	H                int    `json:"H"`
	TrimOffsetX      int    `json:"TrimOffsetX"`
	TrimOffsetY      int    `json:"TrimOffsetY"`
	UntrimmedWidth   int    `json:"UntrimmedWidth"`
	UntrimmedHeight  int    `json:"UntrimmedHeight"`
}

type jsonPage struct {
	Name   string      `json:"Name"`
	Width  int         `json:"Width"`
	Height int         `json:"Height"`
	Images []jsonImage `json:"Images"`
}

// WritePageJSON serializes one page's metadata. Trim fields are always
// present: they equal the packed dimensions with zero offsets when trim
// is off.
func WritePageJSON(w io.Writer, name string, index, total int, page *packing.Page) error {
	pn := jsonPage{
		Name:   PageName(name, index, total) + "_atlas",
		Width:  page.Width,
		Height: page.Height,
	}
	for _, pl := range page.Placements {
		w, h := packedDims(pl)
		pn.Images = append(pn.Images, jsonImage{
			Name:            pl.Bitmap.Name + ".png",
			X:               pl.X,
			Y:               pl.Y,
			W:               w,
			H:               h,
			TrimOffsetX:     pl.Bitmap.FrameX,
			TrimOffsetY:     pl.Bitmap.FrameY,
			UntrimmedWidth:  pl.Bitmap.FrameW,
			UntrimmedHeight: pl.Bitmap.FrameH,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(pn)
}
