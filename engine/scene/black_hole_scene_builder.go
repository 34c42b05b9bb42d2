package scene

import (
	"path/filepath"

	"github.com/Carmen-Shannon/voidstar-go/engine/blackhole"
	"github.com/Carmen-Shannon/voidstar-go/engine/resource"
)

// skyboxFaceNames lists the cubemap face files in +X, -X, +Y, -Y, +Z, -Z order.
var skyboxFaceNames = [6]string{"px.png", "nx.png", "py.png", "ny.png", "pz.png", "nz.png"}

// BlackHoleSceneOption is a functional option for configuring the black hole scene.
type BlackHoleSceneOption func(*blackHoleScene)

// WithAssetsDir points the scene at an assets directory holding shaders/ and textures/.
//
// Parameters:
//   - dir: the assets root
//
// Returns:
//   - BlackHoleSceneOption: option function to apply
func WithAssetsDir(dir string) BlackHoleSceneOption {
	return func(s *blackHoleScene) {
		applyAssetsDir(s, dir)
	}
}

func applyAssetsDir(s *blackHoleScene, dir string) {
	s.shaderDir = filepath.Join(dir, "shaders")
	textures := filepath.Join(dir, "textures")
	for i, name := range skyboxFaceNames {
		s.skyboxFaces[i] = filepath.Join(textures, name)
	}
	s.diskTexture = filepath.Join(textures, "accretion_disk.jpg")
}

// WithShaderDir overrides the directory the WGSL sources are read from.
func WithShaderDir(dir string) BlackHoleSceneOption {
	return func(s *blackHoleScene) {
		s.shaderDir = dir
	}
}

// WithSkybox overrides the six skybox face paths.
func WithSkybox(faces resource.CubemapFaces) BlackHoleSceneOption {
	return func(s *blackHoleScene) {
		s.skyboxFaces = faces
	}
}

// WithDiskTexture overrides the accretion disk texture path.
func WithDiskTexture(path string) BlackHoleSceneOption {
	return func(s *blackHoleScene) {
		s.diskTexture = path
	}
}

// WithBlackHole uses a pre-configured BlackHole instead of a default one.
//
// Parameters:
//   - bh: the black hole to render
//
// Returns:
//   - BlackHoleSceneOption: option function to apply
func WithBlackHole(bh blackhole.BlackHole) BlackHoleSceneOption {
	return func(s *blackHoleScene) {
		s.bh = bh
	}
}

// WithPreset applies the named preset when the scene is created.
// An unknown name makes NewBlackHoleScene fail with blackhole.ErrUnknownPreset.
func WithPreset(name string) BlackHoleSceneOption {
	return func(s *blackHoleScene) {
		s.preset = name
	}
}

// WithBlurPasses sets the number of separable blur steps per frame. Zero or less disables the
// blur chain, leaving the composite to read the raw bright pass.
func WithBlurPasses(n int) BlackHoleSceneOption {
	return func(s *blackHoleScene) {
		s.blurPasses = max(n, 0)
	}
}

// WithViewport sets the initial render target size in pixels.
//
// Parameters:
//   - width, height: viewport size, ignored unless both are positive
//
// Returns:
//   - BlackHoleSceneOption: option function to apply
func WithViewport(width, height int) BlackHoleSceneOption {
	return func(s *blackHoleScene) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}
