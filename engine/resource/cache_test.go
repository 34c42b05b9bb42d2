package resource

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/Carmen-Shannon/voidstar-go/common"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFragmentSource = `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
//@oxy:ifdef BRIGHT
    return vec4<f32>(1.0);
//@oxy:else
    return vec4<f32>(0.0);
//@oxy:endif
}
`

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, common.FillImage(w, h, color.RGBA{R: 10, G: 20, B: 30, A: 255})))
}

func writeShader(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "flat.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(testFragmentSource), 0o644))
	return path
}

func TestGetShaderMemoizesVariants(t *testing.T) {
	path := writeShader(t, t.TempDir())
	c := NewCache()

	a, err := c.GetShader(path, shader.ShaderTypeFragment, "BRIGHT", "DEBUG")
	require.NoError(t, err)
	b, err := c.GetShader(path, shader.ShaderTypeFragment, "DEBUG", "BRIGHT", "DEBUG")
	require.NoError(t, err)
	assert.Same(t, a, b)

	plain, err := c.GetShader(path, shader.ShaderTypeFragment)
	require.NoError(t, err)
	assert.NotSame(t, a, plain)
	assert.Contains(t, a.Source(), "vec4<f32>(1.0)")
	assert.NotContains(t, plain.Source(), "vec4<f32>(1.0)")
	assert.Equal(t, 2, c.Stats().Shaders)
}

func TestGetShaderErrorsAreNotCached(t *testing.T) {
	c := NewCache()

	_, err := c.GetShader("", shader.ShaderTypeVertex)
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = c.GetShader(filepath.Join(t.TempDir(), "missing.wgsl"), shader.ShaderTypeVertex)
	assert.Error(t, err)

	// a fragment-only file has no vertex entry point
	path := writeShader(t, t.TempDir())
	_, err = c.GetShader(path, shader.ShaderTypeVertex)
	assert.Error(t, err)
	assert.Zero(t, c.Stats().Shaders)
}

func TestGetTextureDecodesAndCaches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.png")
	writePNG(t, path, 4, 2)
	c := NewCache()

	tex := c.GetTexture(path)
	assert.Equal(t, uint32(4), tex.Width)
	assert.Equal(t, uint32(2), tex.Height)
	assert.Len(t, tex.Pixels, 4*2*4)

	require.NoError(t, os.Remove(path))
	again := c.GetTexture(path)
	assert.Equal(t, tex.Width, again.Width)
	assert.Equal(t, 1, c.Stats().Textures)
}

func TestGetTextureFallsBackToPlaceholder(t *testing.T) {
	c := NewCache(WithPlaceholderColor(1, 2, 3, 4))

	tex := c.GetTexture(filepath.Join(t.TempDir(), "missing.png"))
	assert.Equal(t, uint32(1), tex.Width)
	assert.Equal(t, uint32(1), tex.Height)
	assert.Equal(t, []byte{1, 2, 3, 4}, tex.Pixels)

	empty := c.GetTexture("")
	assert.Equal(t, uint32(1), empty.Width)
}

func TestGetCubemapRescalesFacesToFirst(t *testing.T) {
	dir := t.TempDir()
	var faces CubemapFaces
	for i := range faces {
		faces[i] = filepath.Join(dir, []string{"px", "nx", "py", "ny", "pz", "nz"}[i]+".png")
		size := 8
		if i%2 == 1 {
			size = 16
		}
		writePNG(t, faces[i], size, size)
	}

	c := NewCache()
	cube := c.GetCubemap(faces)
	assert.Equal(t, uint32(8), cube.Size())
	for _, f := range cube.Faces {
		assert.Equal(t, uint32(8), f.Width)
		assert.Equal(t, uint32(8), f.Height)
		assert.Len(t, f.Pixels, 8*8*4)
	}
}

func TestGetCubemapMissingFaceUsesPlaceholder(t *testing.T) {
	dir := t.TempDir()
	var faces CubemapFaces
	for i := range faces {
		faces[i] = filepath.Join(dir, "face.png")
	}
	writePNG(t, faces[0], 4, 4)
	faces[3] = filepath.Join(dir, "missing.png")

	cube := NewCache().GetCubemap(faces)
	for _, f := range cube.Faces {
		assert.Equal(t, uint32(1), f.Width)
	}
}

func TestPreloadFillsCache(t *testing.T) {
	dir := t.TempDir()
	var textures []string
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		p := filepath.Join(dir, name)
		writePNG(t, p, 2, 2)
		textures = append(textures, p)
	}
	var faces CubemapFaces
	for i := range faces {
		faces[i] = textures[0]
	}

	c := NewCache(WithWorkers(2))
	c.Preload(textures, []CubemapFaces{faces})

	stats := c.Stats()
	assert.Equal(t, 3, stats.Textures)
	assert.Equal(t, 1, stats.Cubemaps)
}

func TestInvalidateDropsEntriesForPath(t *testing.T) {
	dir := t.TempDir()
	shaderPath := writeShader(t, dir)
	texPath := filepath.Join(dir, "disk.png")
	writePNG(t, texPath, 2, 2)
	var faces CubemapFaces
	for i := range faces {
		faces[i] = texPath
	}

	c := NewCache()
	_, err := c.GetShader(shaderPath, shader.ShaderTypeFragment)
	require.NoError(t, err)
	_, err = c.GetShader(shaderPath, shader.ShaderTypeFragment, "BRIGHT")
	require.NoError(t, err)
	c.GetTexture(texPath)
	c.GetCubemap(faces)

	assert.Equal(t, 2, c.Invalidate(shaderPath))
	assert.Equal(t, 2, c.Invalidate(texPath))
	assert.Equal(t, Stats{}, c.Stats())
	assert.Zero(t, c.Invalidate(texPath))
}

func TestInvalidateAll(t *testing.T) {
	c := NewCache()
	c.GetTexture("")
	require.Equal(t, 1, c.Stats().Textures)

	c.InvalidateAll()
	assert.Equal(t, Stats{}, c.Stats())
}

func TestWatchReportsChangedShader(t *testing.T) {
	dir := t.TempDir()
	path := writeShader(t, dir)

	c := NewCache()
	defer c.Close()
	_, err := c.GetShader(path, shader.ShaderTypeFragment)
	require.NoError(t, err)
	assert.Nil(t, c.PollChanges())

	require.NoError(t, c.Watch(dir))
	require.NoError(t, os.WriteFile(path, []byte(testFragmentSource+"\n"), 0o644))

	var changed []string
	assert.Eventually(t, func() bool {
		changed = append(changed, c.PollChanges()...)
		return slices.Contains(changed, normalizePath(path))
	}, 2*time.Second, 20*time.Millisecond)
	assert.Zero(t, c.Stats().Shaders)
}

func TestCloseWithoutWatch(t *testing.T) {
	c := NewCache()
	assert.NoError(t, c.Close())
	assert.Nil(t, c.PollChanges())
}
