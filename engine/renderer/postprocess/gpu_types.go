package postprocess

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUBlurParamsSource is the canonical WGSL definition of the BlurParams struct.
// Matches GPUBlurParams layout exactly (16 bytes).
//
//go:embed assets/blur_params.wgsl
var GPUBlurParamsSource string

// GPUCompositeParamsSource is the canonical WGSL definition of the CompositeParams struct.
// Matches GPUCompositeParams layout exactly (16 bytes).
//
//go:embed assets/composite_params.wgsl
var GPUCompositeParamsSource string

// GPUQuadVertexSource is the canonical WGSL definition of the full-screen quad's VertexInput.
// Matches QuadVertex layout exactly (16 bytes per vertex).
//
//go:embed assets/quad_vertex.wgsl
var GPUQuadVertexSource string

// GPUBlurParams is the per-step uniform of the separable blur.
type GPUBlurParams struct {
	Direction [2]float32 // offset 0: UV offset of one texel along the blur axis
	Spread    float32    // offset 8: multiplier on the tap distance
	_pad0     float32    // offset 12
}

// NewBlurParams builds the uniform for one scheduled step.
//
// Parameters:
//   - step: the scheduled step
//   - width, height: size of the blurred texture in pixels
//
// Returns:
//   - GPUBlurParams: the uniform ready to Marshal
func NewBlurParams(step BlurStep, width, height uint32) GPUBlurParams {
	return GPUBlurParams{
		Direction: BlurDirection(step.Horizontal, width, height),
		Spread:    1,
	}
}

// Size returns the size of the GPUBlurParams struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (g *GPUBlurParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUBlurParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUBlurParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.Direction[0]))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(g.Direction[1]))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(g.Spread))
	return buf
}

// GPUCompositeParams is the uniform of the tone-mapping composite pass.
type GPUCompositeParams struct {
	Exposure      float32 // offset 0
	Gamma         float32 // offset 4
	BloomStrength float32 // offset 8
	BloomEnabled  uint32  // offset 12: 0 ignores the bloom input
}

// Size returns the size of the GPUCompositeParams struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (g *GPUCompositeParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCompositeParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCompositeParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.Exposure))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(g.Gamma))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(g.BloomStrength))
	binary.LittleEndian.PutUint32(buf[12:], g.BloomEnabled)
	return buf
}

// QuadVertex is one corner of the full-screen quad.
type QuadVertex struct {
	Position [2]float32 // clip space
	UV       [2]float32 // texture space, v grows downward
}

// quadVertices covers clip space with two counter-clockwise triangles.
var quadVertices = [4]QuadVertex{
	{Position: [2]float32{-1, -1}, UV: [2]float32{0, 1}},
	{Position: [2]float32{1, -1}, UV: [2]float32{1, 1}},
	{Position: [2]float32{1, 1}, UV: [2]float32{1, 0}},
	{Position: [2]float32{-1, 1}, UV: [2]float32{0, 0}},
}

var quadIndices = [6]uint32{0, 1, 2, 0, 2, 3}

// QuadIndexCount is the number of indices drawn for the full-screen quad.
const QuadIndexCount = len(quadIndices)

// QuadVertexData returns the full-screen quad's vertex buffer contents.
func QuadVertexData() []byte {
	buf := make([]byte, 0, len(quadVertices)*16)
	for _, v := range quadVertices {
		for _, f := range [4]float32{v.Position[0], v.Position[1], v.UV[0], v.UV[1]} {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}
	return buf
}

// QuadIndexData returns the full-screen quad's uint32 index buffer contents.
func QuadIndexData() []byte {
	buf := make([]byte, 0, len(quadIndices)*4)
	for _, i := range quadIndices {
		buf = binary.LittleEndian.AppendUint32(buf, i)
	}
	return buf
}
