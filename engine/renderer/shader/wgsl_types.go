package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo holds the wgpu vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslTypeLayout holds the byte size and alignment of a WGSL type in host-shareable memory.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField is a single member of a WGSL struct.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is a WGSL struct block extracted from shader source.
type parsedStruct struct {
	name   string
	fields []parsedField
}

// bindingDecl is one resource declaration found in shader source.
type bindingDecl struct {
	group        int
	binding      int
	addressSpace string
	varName      string
	typeName     string
}
