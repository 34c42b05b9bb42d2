package shader

import (
	"fmt"
	"os"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// bindingVisibility is applied to every reflected binding. Using one visibility for both stages
// makes a layout reflected from either stage identical to the merged pipeline layout, so bind
// groups created from a single shader's descriptor stay compatible with the pipeline.
const bindingVisibility = wgpu.ShaderStageVertex | wgpu.ShaderStageFragment

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation and resource binding.
type shader struct {
	key                        string
	path                       string
	defines                    []string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout
	entryPoint                 string
	module                     *wgpu.ShaderModuleDescriptor
	declarations               []Annotation
}

// Shader defines the interface for a loaded and parsed WGSL shader variant. It exposes the
// shader's unique key, processed source code, entry point, bind group layout descriptors, vertex
// buffer layouts and pre-processor declarations needed for pipeline creation and resource wiring.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Path returns the file the source was read from, or an empty string for in-memory sources.
	//
	// Returns:
	//   - string: the source path
	Path() string

	// Defines returns the normalized defines this variant was processed with.
	//
	// Returns:
	//   - []string: a copy of the sorted define list
	Defines() []string

	// Source retrieves the pre-processed WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for a specific group.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor for the group, or an empty descriptor if the shader declares none
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors.
	// These are the CPU-side descriptors extracted from the shader source which can be
	// used by the renderer to create the actual wgpu.BindGroupLayout GPU objects.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name for a given group and binding index, if it exists.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name associated with the group and binding, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// BindGroupFromVarName retrieves the binding index for a given group and variable name, if it exists.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the variable name within the group
	//
	// Returns:
	//   - int: the binding index associated with the variable name, or -1 if not found
	//   - bool: true if the variable name was found, false otherwise
	BindGroupFromVarName(group int, varName string) (int, bool)

	// VertexLayouts retrieves the vertex buffer layouts of a vertex shader, indexed by buffer slot.
	// Fragment shaders return nil.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts in slot order
	VertexLayouts() []wgpu.VertexBufferLayout

	// EntryPoint returns the entry point name for this shader's stage.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// Module returns the wgpu.ShaderModuleDescriptor built from the processed source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// Declarations returns the group and provider annotations found in the active regions of the
	// source. The scene uses them to match bind groups with resource providers.
	//
	// Returns:
	//   - []Annotation: the declarations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader reads a WGSL file and builds the variant selected by defines.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the stage the shader is compiled for
//   - sourcePath: the file path to read WGSL source from
//   - defines: the variant's defines
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if the file cannot be read, pre-processing fails or the stage has no entry point
func NewShader(key string, shaderType ShaderType, sourcePath string, defines ...string) (Shader, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("shader %s: empty source path", key)
	}
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to read source file %q: %w", key, sourcePath, err)
	}
	s, err := newShader(key, shaderType, sourcePath, string(data), defines)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return s, nil
}

// NewShaderFromSource builds a shader variant from in-memory WGSL source.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage the shader is compiled for
//   - source: raw WGSL source with @oxy: annotations
//   - defines: the variant's defines
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if pre-processing fails or the stage has no entry point
func NewShaderFromSource(key string, shaderType ShaderType, source string, defines ...string) (Shader, error) {
	s, err := newShader(key, shaderType, "", source, defines)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Path() string {
	return s.path
}

func (s *shader) Defines() []string {
	return slices.Clone(s.defines)
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	if s.bindingVarNames[group] == nil {
		return -1, false
	}
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

// newShader pre-processes the source, builds the module descriptor and reflects the entry point,
// vertex layouts and bind group layouts from the processed text.
func newShader(key string, shaderType ShaderType, path, raw string, defines []string) (*shader, error) {
	s := &shader{
		key:        key,
		path:       path,
		defines:    NormalizeDefines(defines),
		shaderType: shaderType,
	}

	pp := NewPreProcessor()
	source, err := pp.Process(raw, s.defines...)
	if err != nil {
		return nil, fmt.Errorf("failed to pre-process source: %w", err)
	}
	s.source = source
	s.declarations = slices.Clone(pp.Declarations())

	s.entryPoint = parseEntryPoint(s.source, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("no @%s entry point found", shaderType)
	}

	s.module = &wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	if shaderType == ShaderTypeVertex {
		s.vertexLayouts = parseVertexLayouts(s.source)
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(s.source, bindingVisibility)
	return s, nil
}
