// Package cache implements the incremental build cache: a single
// fingerprint over every option and input byte that gates the whole
// pipeline, plus the sidecar load/save and stale-output cleanup.
package cache

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/psucodervn/atlaspacker/internal/fphash"
	"github.com/psucodervn/atlaspacker/internal/options"
)

// maxCleanupPages bounds the per-page file cleanup sweep (spec §4.1).
const maxCleanupPages = 16

// Fingerprint computes the single accumulator value that changes iff any
// input byte or option token feeding this run changes. Feed order is
// exactly: output prefix, sorted+concatenated input roots, sorted flag
// tokens, then (in original, unsorted CLI order) every input root's PNG
// content.
func Fingerprint(opts *options.Options) (uint64, error) {
	var h uint64

	h = fphash.CombineString(h, opts.OutputPrefix())

	sortedInputs := opts.SortedInputs()
	h = fphash.CombineString(h, strings.Join(sortedInputs, ""))

	for _, tok := range opts.FlagTokens {
		h = fphash.CombineString(h, tok)
	}

	for _, root := range opts.Inputs {
		var err error
		if isSingleFile(root) {
			h, err = hashFile(h, root)
		} else {
			h, err = hashDir(h, root)
		}
		if err != nil {
			return 0, err
		}
	}

	return h, nil
}

func isSingleFile(root string) bool {
	last := root
	if idx := strings.LastIndex(root, "/"); idx >= 0 {
		last = root[idx+1:]
	}
	return strings.Contains(last, ".")
}

func hashFile(h uint64, path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fphash.CombineBytes(h, data), nil
}

func hashDir(h uint64, root string) (uint64, error) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Input dir cannot open: skipped without a message here (the
			// loader reports it) and treated like a directory that simply
			// yields no PNGs.
			if os.IsNotExist(err) || os.IsPermission(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(d.Name()) != ".png" {
			return nil
		}
		var ferr error
		h, ferr = hashFile(h, path)
		return ferr
	})
	if err != nil {
		return 0, err
	}
	return h, nil
}

// sidecarPath returns "<outDir>/<name>.hash".
func sidecarPath(opts *options.Options) string {
	return joinOutput(opts, opts.Name+".hash")
}

func joinOutput(opts *options.Options, file string) string {
	if opts.OutputDir == "" {
		return file
	}
	return opts.OutputDir + "/" + file
}

// Load reads the previous fingerprint. A missing sidecar is a miss, not an
// error (spec §7).
func Load(opts *options.Options) (value uint64, ok bool, err error) {
	data, err := os.ReadFile(sidecarPath(opts))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	n, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		// A corrupt sidecar is treated the same as a missing one: force a
		// rebuild rather than fail the run.
		return 0, false, nil
	}
	return n, true, nil
}

// Save writes the new fingerprint. Per spec §5, this must be the very
// last file written in a successful run.
func Save(opts *options.Options, value uint64) error {
	return os.WriteFile(sidecarPath(opts), []byte(strconv.FormatUint(value, 10)), 0o644)
}

// Hit reports whether the cache should short-circuit this run: the
// sidecar is present, matches the new fingerprint, and --force was not
// given.
func Hit(opts *options.Options, newFingerprint uint64) bool {
	if opts.Force {
		return false
	}
	old, ok, err := Load(opts)
	return err == nil && ok && old == newFingerprint
}

// CleanStale removes every output file a previous run might have left
// behind, in preparation for a fresh pack. It is best-effort: a file that
// doesn't exist is not an error.
func CleanStale(opts *options.Options) error {
	name := opts.Name
	remove := func(file string) {
		_ = os.Remove(joinOutput(opts, file))
	}

	remove(name + ".hash")
	remove(name + ".bin")
	remove(name + ".xml")
	remove(name + ".json")
	remove(name + ".lua")

	for i := 0; i < maxCleanupPages; i++ {
		idx := strconv.Itoa(i)
		remove(name + idx + ".json")
		remove(name + idx + ".png")
		remove(name + idx + ".lua")
		remove(name + idx + ".spine.txt")
		remove(name + idx + ".starling.xml")
	}
	remove(name + ".spine.txt")
	remove(name + ".starling.xml")
	remove(name + ".png")

	return nil
}
