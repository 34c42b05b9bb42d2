package blackhole

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUBlackHoleParamsSource is the canonical WGSL definition of the BlackHoleParams struct.
// Matches GPUBlackHoleParams layout exactly (192 bytes).
//
//go:embed assets/blackhole_params.wgsl
var GPUBlackHoleParamsSource string

// Bits of GPUBlackHoleParams.Flags.
const (
	FlagDebugDisk   uint32 = 1 << 0
	FlagDebugSphere uint32 = 1 << 1
)

// GPUBlackHoleParams is the uniform contract consumed by the ray-marching fragment shader.
// Colours occupy a full vec4 slot each; the alpha lane is unused.
type GPUBlackHoleParams struct {
	Mass          float32 // offset 0
	Spin          float32 // offset 4
	HorizonRadius float32 // offset 8
	ISCORadius    float32 // offset 12

	DiskInnerRadius   float32 // offset 16
	DiskOuterRadius   float32 // offset 20
	DiskRotationAngle float32 // offset 24
	MaxTemperature    float32 // offset 28

	AbsorptionCoefficient float32 // offset 32
	Tolerance             float32 // offset 36
	MaxSteps              uint32  // offset 40
	DrawDistance          float32 // offset 44

	Time                 float32 // offset 48
	BloomThreshold       float32 // offset 52
	BackgroundBrightness float32 // offset 56
	DiskBrightness       float32 // offset 60

	DopplerCoefficient   float32 // offset 64
	BlueshiftCoefficient float32 // offset 68
	Flags                uint32  // offset 72
	_pad0                float32 // offset 76

	ScreenSize [4]float32 // offset 80: x, y, width, height

	DiskDebugTop1    [4]float32 // offset 96
	DiskDebugTop2    [4]float32 // offset 112
	DiskDebugBottom1 [4]float32 // offset 128
	DiskDebugBottom2 [4]float32 // offset 144
	SphereDebug1     [4]float32 // offset 160
	SphereDebug2     [4]float32 // offset 176
}

// Size returns the size of the GPUBlackHoleParams struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (192)
func (g *GPUBlackHoleParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUBlackHoleParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUBlackHoleParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := 0
	putF := func(v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}
	putU := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[off:], v)
		off += 4
	}

	putF(g.Mass)
	putF(g.Spin)
	putF(g.HorizonRadius)
	putF(g.ISCORadius)
	putF(g.DiskInnerRadius)
	putF(g.DiskOuterRadius)
	putF(g.DiskRotationAngle)
	putF(g.MaxTemperature)
	putF(g.AbsorptionCoefficient)
	putF(g.Tolerance)
	putU(g.MaxSteps)
	putF(g.DrawDistance)
	putF(g.Time)
	putF(g.BloomThreshold)
	putF(g.BackgroundBrightness)
	putF(g.DiskBrightness)
	putF(g.DopplerCoefficient)
	putF(g.BlueshiftCoefficient)
	putU(g.Flags)
	putF(0)
	for _, v := range [][4]float32{
		g.ScreenSize,
		g.DiskDebugTop1, g.DiskDebugTop2,
		g.DiskDebugBottom1, g.DiskDebugBottom2,
		g.SphereDebug1, g.SphereDebug2,
	} {
		for _, c := range v {
			putF(c)
		}
	}
	return buf
}
