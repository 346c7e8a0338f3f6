// Command atlaspacker packs directories of PNG sprites into one or more
// composite atlas pages plus XML/JSON/binary sidecar metadata, short-
// circuiting the whole pipeline when a fingerprint of the inputs and
// options matches the previous run.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/psucodervn/atlaspacker/internal/bitmap"
	"github.com/psucodervn/atlaspacker/internal/cache"
	"github.com/psucodervn/atlaspacker/internal/emit"
	"github.com/psucodervn/atlaspacker/internal/obslog"
	"github.com/psucodervn/atlaspacker/internal/options"
	"github.com/psucodervn/atlaspacker/internal/packing"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := options.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, options.Usage)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log := obslog.New(os.Stderr, opts.Verbose)

	fingerprint, err := cache.Fingerprint(opts)
	if err != nil {
		log.Error(err, "failed to compute fingerprint")
		return 1
	}

	if cache.Hit(opts, fingerprint) {
		fmt.Fprintln(os.Stdout, "atlas is unchanged: "+opts.Name)
		return 0
	}

	if err := cache.CleanStale(opts); err != nil {
		log.Error(err, "failed to clean stale outputs")
		return 1
	}

	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			log.Error(err, "failed to create output directory")
			return 1
		}
	}

	loader := &bitmap.Loader{Premultiply: opts.Premultiply, Trim: opts.Trim, Log: log.With("component", "loader")}
	bitmaps, err := loader.Load(context.Background(), opts.Inputs)
	if err != nil {
		log.Error(err, "failed to load bitmaps")
		return 1
	}

	if len(bitmaps) == 0 {
		// Empty-run policy (spec's own documented open question): write
		// the fingerprint and exit clean even though no pages exist.
		if err := cache.Save(opts, fingerprint); err != nil {
			log.Error(err, "failed to save fingerprint")
			return 1
		}
		return 0
	}

	packer := packing.New(opts.Size, opts.Padding, opts.Rotate, opts.Unique)
	pages, err := packer.PackAll(bitmaps)
	if err != nil {
		fmt.Fprintln(os.Stdout, err.Error())
		return 1
	}

	if err := writeOutputs(opts, pages, log); err != nil {
		log.Error(err, "failed to write outputs")
		return 1
	}

	if err := cache.Save(opts, fingerprint); err != nil {
		log.Error(err, "failed to save fingerprint")
		return 1
	}

	return 0
}

func writeOutputs(opts *options.Options, pages []*packing.Page, log *obslog.Logger) error {
	for i, page := range pages {
		pageName := emit.PageName(opts.Name, i, len(pages))

		if err := writeFile(opts, pageName+".png", func(f *os.File) error {
			return emit.RenderPage(f, page)
		}); err != nil {
			return fmt.Errorf("writing page png %q: %w", pageName, err)
		}

		if opts.JSON {
			if err := writeFile(opts, pageName+".json", func(f *os.File) error {
				return emit.WritePageJSON(f, opts.Name, i, len(pages), page)
			}); err != nil {
				// Per-page JSON failures are diagnostic-and-skip, not fatal.
				log.Warn(fmt.Sprintf("failed to write %s.json: %v", pageName, err))
			}
		}

		if opts.Lua {
			if err := writeFile(opts, pageName+".lua", func(f *os.File) error {
				return emit.WriteLua(f, pageName+".png", page)
			}); err != nil {
				log.Warn(fmt.Sprintf("failed to write %s.lua: %v", pageName, err))
			}
		}
		if opts.Spine {
			if err := writeFile(opts, pageName+".spine.txt", func(f *os.File) error {
				return emit.WriteSpine(f, pageName+".png", page)
			}); err != nil {
				log.Warn(fmt.Sprintf("failed to write %s.spine.txt: %v", pageName, err))
			}
		}
		if opts.Starling {
			if err := writeFile(opts, pageName+".starling.xml", func(f *os.File) error {
				return emit.WriteStarling(f, pageName+".png", page)
			}); err != nil {
				log.Warn(fmt.Sprintf("failed to write %s.starling.xml: %v", pageName, err))
			}
		}

		log.PackingPage(pageName, page.Width, page.Height, len(page.Placements))
	}

	if opts.XML {
		if err := writeFile(opts, opts.Name+".xml", func(f *os.File) error {
			return emit.WriteXML(f, opts.Name, pages, opts.Trim, opts.Rotate)
		}); err != nil {
			return fmt.Errorf("writing xml: %w", err)
		}
	}

	if opts.Binary {
		if err := writeFile(opts, opts.Name+".bin", func(f *os.File) error {
			return emit.WriteBinary(f, opts.Name, pages, opts.Trim, opts.Rotate)
		}); err != nil {
			return fmt.Errorf("writing binary: %w", err)
		}
	}

	return nil
}

func writeFile(opts *options.Options, name string, fn func(*os.File) error) error {
	path := name
	if opts.OutputDir != "" {
		path = filepath.Join(opts.OutputDir, name)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}
