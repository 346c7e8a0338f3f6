package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psucodervn/atlaspacker/internal/cache"
	"github.com/psucodervn/atlaspacker/internal/options"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func baseOpts(t *testing.T, root string) *options.Options {
	t.Helper()
	return &options.Options{
		OutputDir:  root,
		Name:       "atlas",
		Inputs:     []string{filepath.Join(root, "in")},
		FlagTokens: []string{"-p4", "-s256"},
	}
}

func TestFingerprintStableAcrossRuns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "in", "a.png"), []byte{1, 2, 3})
	opts := baseOpts(t, root)

	h1, err := cache.Fingerprint(opts)
	require.NoError(t, err)
	h2, err := cache.Fingerprint(opts)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestFingerprintChangesWhenInputContentChanges(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "in", "a.png"), []byte{1, 2, 3})
	opts := baseOpts(t, root)
	h1, err := cache.Fingerprint(opts)
	require.NoError(t, err)

	writeFile(t, filepath.Join(root, "in", "a.png"), []byte{1, 2, 4})
	h2, err := cache.Fingerprint(opts)
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestFingerprintChangesWhenFlagTokensChange(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "in", "a.png"), []byte{1, 2, 3})
	opts := baseOpts(t, root)
	h1, err := cache.Fingerprint(opts)
	require.NoError(t, err)

	opts.FlagTokens = []string{"-p8", "-s256"}
	h2, err := cache.Fingerprint(opts)
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestLoadMissingSidecarIsMissNotError(t *testing.T) {
	root := t.TempDir()
	opts := baseOpts(t, root)
	_, ok, err := cache.Load(opts)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	root := t.TempDir()
	opts := baseOpts(t, root)
	require.NoError(t, cache.Save(opts, 123456789))
	v, ok, err := cache.Load(opts)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(123456789), v)
}

func TestHitRequiresMatchingFingerprintAndNoForce(t *testing.T) {
	root := t.TempDir()
	opts := baseOpts(t, root)
	require.NoError(t, cache.Save(opts, 42))

	require.True(t, cache.Hit(opts, 42))
	require.False(t, cache.Hit(opts, 43))

	opts.Force = true
	require.False(t, cache.Hit(opts, 42))
}

func TestCleanStaleRemovesKnownOutputs(t *testing.T) {
	root := t.TempDir()
	opts := baseOpts(t, root)
	files := []string{"atlas.hash", "atlas.bin", "atlas.xml", "atlas.json", "atlas0.png", "atlas0.json", "atlas.lua"}
	for _, f := range files {
		writeFile(t, filepath.Join(root, f), []byte("x"))
	}
	require.NoError(t, cache.CleanStale(opts))
	for _, f := range files {
		_, err := os.Stat(filepath.Join(root, f))
		require.True(t, os.IsNotExist(err), "expected %s to be removed", f)
	}
}
