package shader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapFetcher serves shader files from memory and counts reads per path.
type mapFetcher struct {
	files map[string]string
	reads map[string]int
}

func newMapFetcher(files map[string]string) *mapFetcher {
	return &mapFetcher{files: files, reads: make(map[string]int)}
}

func (f *mapFetcher) fetch(_ context.Context, path string) ([]byte, error) {
	f.reads[path]++
	src, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	return []byte(src), nil
}

func TestLoadResolvesImports(t *testing.T) {
	f := newMapFetcher(map[string]string{
		filepath.Join("shaders", "main.wgsl"):          "@import \"common/camera.wgsl\";\nfn main() {}",
		filepath.Join("shaders", "common", "camera.wgsl"): "struct Camera { view: mat4x4<f32> }",
	})
	l := NewLoader(WithFetcher(f.fetch))

	src, err := l.Load(context.Background(), filepath.Join("shaders", "main.wgsl"))
	require.NoError(t, err)
	assert.Equal(t, "struct Camera { view: mat4x4<f32> }\nfn main() {}", src)
}

func TestLoadCachesByPath(t *testing.T) {
	f := newMapFetcher(map[string]string{"a.wgsl": "fn a() {}"})
	l := NewLoader(WithFetcher(f.fetch))

	for range 3 {
		_, err := l.Load(context.Background(), "a.wgsl")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.reads["a.wgsl"])
	assert.Equal(t, 1, l.Len())

	l.Invalidate("a.wgsl")
	assert.Equal(t, 0, l.Len())
	_, err := l.Load(context.Background(), "a.wgsl")
	require.NoError(t, err)
	assert.Equal(t, 2, f.reads["a.wgsl"])
}

func TestDiamondImportIncludedOnce(t *testing.T) {
	f := newMapFetcher(map[string]string{
		"main.wgsl":   "@import \"left.wgsl\"\n@import \"right.wgsl\"\nfn main() {}",
		"left.wgsl":   "@import \"shared.wgsl\"\nfn left() {}",
		"right.wgsl":  "@import \"shared.wgsl\"\nfn right() {}",
		"shared.wgsl": "struct Shared { x: f32 }",
	})
	l := NewLoader(WithFetcher(f.fetch))

	src, err := l.Load(context.Background(), "main.wgsl")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(src, "struct Shared"))
	assert.Equal(t, "struct Shared { x: f32 }\nfn left() {}\nfn right() {}\nfn main() {}", src)
}

func TestImportCycle(t *testing.T) {
	f := newMapFetcher(map[string]string{
		"a.wgsl": "@import \"b.wgsl\"",
		"b.wgsl": "@import \"a.wgsl\"",
	})
	l := NewLoader(WithFetcher(f.fetch))

	_, err := l.Load(context.Background(), "a.wgsl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import cycle")
	assert.Equal(t, 0, l.Len())
}

func TestMissingImport(t *testing.T) {
	f := newMapFetcher(map[string]string{"a.wgsl": "fn a() {}\n@import \"gone.wgsl\""})
	l := NewLoader(WithFetcher(f.fetch))

	_, err := l.Load(context.Background(), "a.wgsl")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "line 2")
}

func TestProcessDoesNotCache(t *testing.T) {
	f := newMapFetcher(map[string]string{"lib.wgsl": "fn lib() {}"})
	l := NewLoader(WithFetcher(f.fetch))

	src, err := l.Process(context.Background(), "inline.wgsl", "@import \"lib.wgsl\"\nfn main() {}")
	require.NoError(t, err)
	assert.Equal(t, "fn lib() {}\nfn main() {}", src)
	assert.Equal(t, 0, l.Len())
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.wgsl"), []byte("fn lib() {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.wgsl"), []byte("@import \"lib.wgsl\"\nfn main() {}"), 0o644))

	src, err := NewLoader().Load(context.Background(), filepath.Join(dir, "main.wgsl"))
	require.NoError(t, err)
	assert.Equal(t, "fn lib() {}\nfn main() {}", src)
}

func TestValidation(t *testing.T) {
	f := newMapFetcher(map[string]string{
		"ok.wgsl":     "@compute @workgroup_size(1)\nfn main() {}",
		"broken.wgsl": "fn main( {",
	})
	l := NewLoader(WithFetcher(f.fetch), WithValidation(true))

	_, err := l.Load(context.Background(), "ok.wgsl")
	assert.NoError(t, err)

	_, err = l.Load(context.Background(), "broken.wgsl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")
}
