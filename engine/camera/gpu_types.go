package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (192 bytes).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Each vec3 shares its 16-byte slot with a trailing scalar.
type GPUCameraUniform struct {
	ViewProj   mgl32.Mat4 // offset   0
	SkyboxView mgl32.Mat4 // offset  64
	Position   mgl32.Vec3 // offset 128
	TanHalfFov float32    // offset 140
	Right      mgl32.Vec3 // offset 144
	Aspect     float32    // offset 156
	Up         mgl32.Vec3 // offset 160
	Near       float32    // offset 172
	Look       mgl32.Vec3 // offset 176
	Far        float32    // offset 188
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (192)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	}
	for i := range 16 {
		put(i*4, g.ViewProj[i])
		put(64+i*4, g.SkyboxView[i])
	}
	vec4 := func(off int, v mgl32.Vec3, w float32) {
		put(off, v[0])
		put(off+4, v[1])
		put(off+8, v[2])
		put(off+12, w)
	}
	vec4(128, g.Position, g.TanHalfFov)
	vec4(144, g.Right, g.Aspect)
	vec4(160, g.Up, g.Near)
	vec4(176, g.Look, g.Far)
	return buf
}
