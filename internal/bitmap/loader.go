package bitmap

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/png" // PngCodec collaborator: registers the PNG decoder
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/psucodervn/atlaspacker/internal/fphash"
	"github.com/psucodervn/atlaspacker/internal/obslog"
)

// numDecoders mirrors the sibling decode-pool pattern this loader is
// adapted from: a small fixed worker count is plenty since a run packs at
// most a few thousand sprites.
const numDecoders = 5

// Loader discovers and decodes the PNG sprites under a set of input roots.
type Loader struct {
	Premultiply bool
	Trim        bool
	Log         *obslog.Logger
}

type fileEntry struct {
	path string
	name string
}

// Load enumerates every PNG below inputs (each already normalized by
// options.Parse) and decodes them concurrently, returning bitmaps in no
// particular order — callers must impose their own ordering (the packer
// sorts by area before use).
func (l *Loader) Load(ctx context.Context, inputs []string) ([]*Bitmap, error) {
	var entries []fileEntry
	for _, root := range inputs {
		found, err := discover(root)
		if err != nil {
			// Input dir cannot open: diagnostic, continue (the run may
			// simply find no PNGs), per the error handling table.
			if l.Log != nil {
				l.Log.Warn(fmt.Sprintf("error opening input %q: %v", root, err))
			}
			continue
		}
		entries = append(entries, found...)
	}

	if len(entries) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := make(chan fileEntry)
	type result struct {
		bmp *Bitmap
		err error
	}
	out := make(chan result)

	var wg sync.WaitGroup
	wg.Add(numDecoders)
	for i := 0; i < numDecoders; i++ {
		go func() {
			defer wg.Done()
			for e := range in {
				bmp, err := l.decodeOne(e)
				select {
				case out <- result{bmp, err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(in)
		for _, e := range entries {
			select {
			case in <- e:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	bitmaps := make([]*Bitmap, 0, len(entries))
	for r := range out {
		if r.err != nil {
			cancel()
			return nil, r.err
		}
		bitmaps = append(bitmaps, r.bmp)
	}

	return bitmaps, nil
}

func (l *Loader) decodeOne(e fileEntry) (*Bitmap, error) {
	if l.Log != nil {
		l.Log.Debug(e.path)
	}

	f, err := os.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %q: %w", e.path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", e.path, err)
	}

	nrgba := toStraightRGBA(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()

	if l.Premultiply {
		premultiply(nrgba.Pix)
	}

	bmp := &Bitmap{Name: e.name}
	if l.Trim {
		trim(bmp, nrgba, w, h)
	} else {
		bmp.Pixels = nrgba.Pix
		bmp.Width, bmp.Height = w, h
		bmp.FrameX, bmp.FrameY, bmp.FrameW, bmp.FrameH = 0, 0, w, h
	}

	bmp.ContentHash = contentHash(bmp.Width, bmp.Height, bmp.Pixels)
	return bmp, nil
}

// toStraightRGBA normalizes any decoded image.Image into a tightly packed
// (stride == width*4) *image.NRGBA buffer: straight (non-premultiplied)
// 8-bit RGBA, matching the Bitmap.Pixels contract.
func toStraightRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == n.Rect.Dx()*4 {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// premultiply replaces each (r,g,b) channel in an RGBA pixel buffer with
// round(channel*alpha/255), lossless at alpha 0 and 255, monotone between.
func premultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := int(pix[i+3])
		pix[i+0] = byte((int(pix[i+0])*a + 127) / 255)
		pix[i+1] = byte((int(pix[i+1])*a + 127) / 255)
		pix[i+2] = byte((int(pix[i+2])*a + 127) / 255)
	}
}

// trim computes the tight bounding box of non-transparent pixels and fills
// in bmp's trimmed buffer plus its untrimmed frame dimensions.
func trim(bmp *Bitmap, src *image.NRGBA, w, h int) {
	minX, minY, maxX, maxY := w, h, -1, -1
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			if row[x*4+3] != 0 {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	if maxX < 0 {
		// Fully transparent: 1x1 transparent bitmap, frame = original dims.
		bmp.Pixels = make([]byte, 4)
		bmp.Width, bmp.Height = 1, 1
		bmp.FrameX, bmp.FrameY = 0, 0
		bmp.FrameW, bmp.FrameH = w, h
		return
	}

	tw, th := maxX-minX+1, maxY-minY+1
	out := make([]byte, tw*th*4)
	for y := 0; y < th; y++ {
		srcRow := src.Pix[(minY+y)*src.Stride+minX*4 : (minY+y)*src.Stride+(minX+tw)*4]
		copy(out[y*tw*4:(y+1)*tw*4], srcRow)
	}

	bmp.Pixels = out
	bmp.Width, bmp.Height = tw, th
	bmp.FrameX, bmp.FrameY = minX, minY
	bmp.FrameW, bmp.FrameH = w, h
}

func contentHash(width, height int, pixels []byte) uint64 {
	h := fphash.CombineInt(0, width)
	h = fphash.CombineInt(h, height)
	h = fphash.CombineBytes(h, pixels)
	return h
}

// discover enumerates the PNGs reachable from root: a single file (if its
// last path segment contains a '.') or a recursively-walked directory.
func discover(root string) ([]fileEntry, error) {
	last := root
	if idx := strings.LastIndex(root, "/"); idx >= 0 {
		last = root[idx+1:]
	}
	if strings.Contains(last, ".") {
		if ext(root) != "png" {
			return nil, nil
		}
		return []fileEntry{{path: root, name: stem(last)}}, nil
	}
	return discoverDir(root)
}

func discoverDir(root string) ([]fileEntry, error) {
	var entries []fileEntry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		base := d.Name()
		if ext(base) != "png" {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.ToSlash(rel), ".png")
		entries = append(entries, fileEntry{path: path, name: name})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ext returns the file's extension without the leading dot, exactly as it
// appears — case-sensitive, per the discovery contract ("png" != "PNG").
func ext(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return name[idx+1:]
}

// stem returns the filename without its final extension.
func stem(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return name
	}
	return name[:idx]
}
