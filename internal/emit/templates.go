package emit

import (
	"io"
	"text/template"

	"github.com/psucodervn/atlaspacker/internal/packing"
)

// spriteView is the per-placement data exposed to the supplemental
// descriptor templates below.
type spriteView struct {
	Name    string
	X, Y    int
	W, H    int
}

// pageView is the page-level data exposed to the supplemental descriptor
// templates; it mirrors the fields the teacher's target package passed to
// its Lua/Spine/Starling generators, renamed for this atlas's model.
type pageView struct {
	ImageFilename string
	Width, Height int
	Sprites       []spriteView
}

func newPageView(imageFilename string, page *packing.Page) pageView {
	pv := pageView{ImageFilename: imageFilename, Width: page.Width, Height: page.Height}
	for _, pl := range page.Placements {
		w, h := packedDims(pl)
		pv.Sprites = append(pv.Sprites, spriteView{Name: pl.Bitmap.Name, X: pl.X, Y: pl.Y, W: w, H: h})
	}
	return pv
}

var luaTemplate = template.Must(template.New("lua").Parse(`local quads = {}

{{range .Sprites -}}
quads['{{.Name}}'] = love.graphics.newQuad({{.X}},{{.Y}},{{.W}},{{.H}},{{$.Width}},{{$.Height}})
{{end -}}
return quads
`))

var spineTemplate = template.Must(template.New("spine").Parse(`{{.ImageFilename}}
size:{{.Width}},{{.Height}}
format: RGBA8888
filter: Linear,Linear
repeat: none
{{- range .Sprites}}
{{.Name}}
  bounds: {{.X}}, {{.Y}}, {{.W}}, {{.H}}
{{- end}}
`))

var starlingTemplate = template.Must(template.New("starling").Parse(`<TextureAtlas imagePath="{{.ImageFilename}}">
{{- range .Sprites}}
    <SubTexture name="{{.Name}}" x="{{.X}}" y="{{.Y}}" width="{{.W}}" height="{{.H}}"/>
{{- end}}
</TextureAtlas>
`))

// WriteLua renders the Lua quad descriptor for one page.
func WriteLua(w io.Writer, imageFilename string, page *packing.Page) error {
	return luaTemplate.Execute(w, newPageView(imageFilename, page))
}

// WriteSpine renders the Spine atlas descriptor for one page.
func WriteSpine(w io.Writer, imageFilename string, page *packing.Page) error {
	return spineTemplate.Execute(w, newPageView(imageFilename, page))
}

// WriteStarling renders the Starling/Sparrow XML descriptor for one page.
func WriteStarling(w io.Writer, imageFilename string, page *packing.Page) error {
	return starlingTemplate.Execute(w, newPageView(imageFilename, page))
}
