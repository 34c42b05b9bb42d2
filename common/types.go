// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used in the BindGroupProvider to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// CubemapStagingData holds the six faces of a cube texture in +X, -X, +Y, -Y, +Z, -Z order.
// Every face must share the same square dimensions.
type CubemapStagingData struct {
	Faces [6]TextureStagingData
}

// Size returns the edge length shared by all faces.
func (c *CubemapStagingData) Size() uint32 {
	return c.Faces[0].Width
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// This is primarily used in the BindGroupProvider to stage sampler data before creating the GPU sampler and bind group.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// DecodeImage decodes a PNG, JPEG or WebP stream into tightly packed RGBA pixels.
//
// Parameters:
//   - r: the encoded image stream
//
// Returns:
//   - TextureStagingData: the decoded pixels and dimensions
//   - error: error if the stream is not a supported image
func DecodeImage(r io.Reader) (TextureStagingData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return toStaging(img, 0), nil
}

// LoadImage opens path and decodes it with DecodeImage.
// A non-zero size rescales the image to size x size, which is how cubemap faces of mismatched
// resolution are brought to a common edge length.
//
// Parameters:
//   - path: file path of the image
//   - size: target edge length in pixels, or 0 to keep the source dimensions
//
// Returns:
//   - TextureStagingData: the decoded pixels and dimensions
//   - error: error if the file cannot be opened or decoded
func LoadImage(path string, size uint32) (TextureStagingData, error) {
	f, err := os.Open(path)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return toStaging(img, size), nil
}

// SolidTexture builds a 1x1 texture of the given colour. It stands in for textures that failed to load.
func SolidTexture(r, g, b, a uint8) TextureStagingData {
	return TextureStagingData{Pixels: []byte{r, g, b, a}, Width: 1, Height: 1}
}

func toStaging(img image.Image, size uint32) TextureStagingData {
	bounds := img.Bounds()
	if size > 0 && (uint32(bounds.Dx()) != size || uint32(bounds.Dy()) != size) {
		dst := image.NewRGBA(image.Rect(0, 0, int(size), int(size)))
		draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
		return TextureStagingData{Pixels: dst.Pix, Width: size, Height: size}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return TextureStagingData{Pixels: rgba.Pix, Width: uint32(bounds.Dx()), Height: uint32(bounds.Dy())}
}

// FillImage is used by tests and placeholders to produce an image of a single colour.
func FillImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}
