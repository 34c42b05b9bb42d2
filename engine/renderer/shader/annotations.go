// annotations.go defines the annotation types, argument constants and parser for the WGSL
// pre-processor. Annotations are single-line WGSL comments prefixed with @oxy: that drive
// struct injection, bind group declaration, provider registration and conditional compilation.
// The Scene consumes the parsed declarations to wire GPU resources to bind groups.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an annotation within a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct at the annotation site.
	//
	// Syntax: //@oxy:include <struct_type>
	//
	// Example: //@oxy:include camera
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a @group/@binding variable declaration for a registered
	// struct and records it, so the Scene can match the binding to a provider by struct type.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <type>
	//
	// Example: //@oxy:group 1 0 storage_uniform params blackhole_params
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider records the provider identity of a hand-written binding (textures,
	// samplers) without generating WGSL. An optional role names the binding's purpose within
	// the provider group so binding indices are never looked up by variable name.
	//
	// Syntax:
	//   //@oxy:provider <group> <binding> <provider_identity>
	//   //@oxy:provider <group> <binding> <provider_identity> <binding_role>
	//
	// Example: //@oxy:provider 2 0 environment skybox_texture
	AnnotationTypeProvider AnnotationType = "provider"

	// annotationTypeIfdef keeps the following lines only when the define is set.
	//
	// Syntax: //@oxy:ifdef <DEFINE>
	annotationTypeIfdef AnnotationType = "ifdef"

	// annotationTypeIfndef keeps the following lines only when the define is not set.
	//
	// Syntax: //@oxy:ifndef <DEFINE>
	annotationTypeIfndef AnnotationType = "ifndef"

	// annotationTypeElse flips the innermost open conditional.
	annotationTypeElse AnnotationType = "else"

	// annotationTypeEndif closes the innermost open conditional.
	annotationTypeEndif AnnotationType = "endif"
)

// Annotation represents a single parsed @oxy: annotation from a WGSL source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:  [0] = struct type key
	//   - group:    [0] = address space, [1] = var name, [2] = struct type key
	//   - provider: [0] = provider identity, [1] = binding role (optional)
	//   - ifdef, ifndef: [0] = define name
	Args []AnnotationArg

	// Line is the 1-based source line the annotation was found on.
	Line int

	// Group is the @group index for group and provider annotations, nil otherwise.
	Group *int

	// Binding is the @binding index for group and provider annotations, nil otherwise.
	Binding *int
}

// AnnotationArg is a typed string constant used as an annotation argument.
type AnnotationArg string

// ── Struct type arguments ──────────────────────────────────────────────────────
// Each maps to a Go GPU type with an embedded .wgsl asset file.

const (
	// AnnotationArgCamera identifies the CameraUniform struct.
	// Source: engine/camera/assets/camera_uniform.wgsl
	AnnotationArgCamera AnnotationArg = "camera"

	// AnnotationArgBlackHoleParams identifies the BlackHoleParams struct.
	// Source: engine/blackhole/assets/blackhole_params.wgsl
	AnnotationArgBlackHoleParams AnnotationArg = "blackhole_params"

	// AnnotationArgBlurParams identifies the BlurParams struct of one blur step.
	// Source: engine/renderer/postprocess/assets/blur_params.wgsl
	AnnotationArgBlurParams AnnotationArg = "blur_params"

	// AnnotationArgCompositeParams identifies the CompositeParams struct of the tone-map pass.
	// Source: engine/renderer/postprocess/assets/composite_params.wgsl
	AnnotationArgCompositeParams AnnotationArg = "composite_params"

	// annotationArgQuadVertex identifies the VertexInput struct of the full-screen quad.
	// Source: engine/renderer/postprocess/assets/quad_vertex.wgsl
	annotationArgQuadVertex AnnotationArg = "quad_vertex"
)

// ── Address space arguments ────────────────────────────────────────────────────

const (
	// annotationArgStorageTypeUniform maps to var<uniform> in WGSL.
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"

	// annotationArgStorageTypeRead maps to var<storage, read> in WGSL.
	annotationArgStorageTypeRead AnnotationArg = "storage_read"
)

// ── Provider identity arguments ────────────────────────────────────────────────
// These identify which Scene-level provider owns a bind group.

const (
	// AnnotationArgBlackHole identifies the black hole parameter provider.
	AnnotationArgBlackHole AnnotationArg = "blackhole"

	// AnnotationArgEnvironment identifies the skybox cubemap, disk texture and their sampler.
	AnnotationArgEnvironment AnnotationArg = "environment"

	// AnnotationArgBloomSource identifies the per-step blur input (source texture, sampler, params).
	AnnotationArgBloomSource AnnotationArg = "bloom_source"

	// AnnotationArgComposite identifies the composite inputs (scene colour, bloom, sampler, params).
	AnnotationArgComposite AnnotationArg = "composite"
)

// ── Binding role arguments ─────────────────────────────────────────────────────
// These qualify individual bindings within a provider group.

const (
	// AnnotationArgSkyboxTexture identifies the skybox cubemap binding.
	AnnotationArgSkyboxTexture AnnotationArg = "skybox_texture"

	// AnnotationArgDiskTexture identifies the accretion disk texture binding.
	AnnotationArgDiskTexture AnnotationArg = "disk_texture"

	// AnnotationArgSourceTexture identifies the texture a post-process pass reads from.
	AnnotationArgSourceTexture AnnotationArg = "source_texture"

	// AnnotationArgBloomTexture identifies the blurred bright-pass texture read by the composite.
	AnnotationArgBloomTexture AnnotationArg = "bloom_texture"

	// AnnotationArgLinearSampler identifies a filtering sampler binding.
	AnnotationArgLinearSampler AnnotationArg = "linear_sampler"
)

// validStructTypes lists the struct type keys accepted by include and group annotations.
// Each entry must have a registryEntry in the PreProcessor's structRegistry.
var validStructTypes = []AnnotationArg{
	AnnotationArgCamera,
	AnnotationArgBlackHoleParams,
	AnnotationArgBlurParams,
	AnnotationArgCompositeParams,
	annotationArgQuadVertex,
}

// validAddressSpaces lists the address space keys accepted by group annotations.
var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
}

// validProviderIdentities lists the identities accepted by provider annotations.
var validProviderIdentities = []AnnotationArg{
	AnnotationArgCamera,
	AnnotationArgBlackHole,
	AnnotationArgEnvironment,
	AnnotationArgBloomSource,
	AnnotationArgComposite,
}

// validBindingRoles lists the roles accepted as the optional last provider argument.
var validBindingRoles = []AnnotationArg{
	AnnotationArgSkyboxTexture,
	AnnotationArgDiskTexture,
	AnnotationArgSourceTexture,
	AnnotationArgBloomTexture,
	AnnotationArgLinearSampler,
}

// parseAnnotation attempts to parse a single line of WGSL source as an @oxy: annotation.
// Lines without the prefix return nil and no error.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy group annotation requires exactly five arguments (group, binding, address space, var name, struct type)", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @oxy group annotation", lineNum, args[3])
		}
		if !slices.Contains(validStructTypes, AnnotationArg(elementType(args[5]))) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy group annotation", lineNum, args[5])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	case AnnotationTypeProvider:
		if len(args) < 4 || len(args) > 5 {
			return nil, fmt.Errorf("line %d: @oxy provider annotation requires three or four arguments (group, binding, provider identity[, binding role])", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider identity %q in @oxy provider annotation", lineNum, args[3])
		}
		providerArgs := []AnnotationArg{AnnotationArg(args[3])}
		if len(args) == 5 {
			if !slices.Contains(validBindingRoles, AnnotationArg(args[4])) {
				return nil, fmt.Errorf("line %d: unknown binding role %q in @oxy provider annotation", lineNum, args[4])
			}
			providerArgs = append(providerArgs, AnnotationArg(args[4]))
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    providerArgs,
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	case annotationTypeIfdef, annotationTypeIfndef:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy %s requires exactly one define name", lineNum, args[0])
		}
		return &Annotation{
			Type: AnnotationType(args[0]),
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case annotationTypeElse, annotationTypeEndif:
		if len(args) != 1 {
			return nil, fmt.Errorf("line %d: @oxy %s takes no arguments", lineNum, args[0])
		}
		return &Annotation{Type: AnnotationType(args[0]), Line: lineNum}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}

func parseGroupBinding(groupArg, bindingArg string, lineNum int) (int, int, error) {
	group, err := strconv.Atoi(groupArg)
	if err != nil {
		return 0, 0, fmt.Errorf("line %d: invalid group number %q: %w", lineNum, groupArg, err)
	}
	binding, err := strconv.Atoi(bindingArg)
	if err != nil {
		return 0, 0, fmt.Errorf("line %d: invalid binding number %q: %w", lineNum, bindingArg, err)
	}
	return group, binding, nil
}

// elementType strips an array<> wrapper from a struct type argument.
func elementType(typeArg string) string {
	if inner, ok := strings.CutPrefix(typeArg, "array<"); ok {
		return strings.TrimSuffix(inner, ">")
	}
	return typeArg
}

// StructType returns the struct type key of a group annotation with any array<> wrapper
// removed, or an empty string for other annotation types.
//
// Returns:
//   - AnnotationArg: the struct type key
func (a Annotation) StructType() AnnotationArg {
	if a.Type != AnnotationTypeBindingGroup || len(a.Args) < 3 {
		return ""
	}
	return AnnotationArg(elementType(string(a.Args[2])))
}

// Provider returns the provider identity of a provider annotation, or an empty string.
func (a Annotation) Provider() AnnotationArg {
	if a.Type != AnnotationTypeProvider || len(a.Args) == 0 {
		return ""
	}
	return a.Args[0]
}

// Role returns the binding role of a provider annotation, or an empty string when none was given.
func (a Annotation) Role() AnnotationArg {
	if a.Type != AnnotationTypeProvider || len(a.Args) < 2 {
		return ""
	}
	return a.Args[1]
}

// FindRole returns the group and binding of the provider declaration carrying role.
//
// Parameters:
//   - decls: declarations collected by a PreProcessor
//   - role: the binding role to look for
//
// Returns:
//   - int: the group index
//   - int: the binding index
//   - bool: false if no declaration carries the role
func FindRole(decls []Annotation, role AnnotationArg) (int, int, bool) {
	for _, d := range decls {
		if d.Role() == role && d.Group != nil && d.Binding != nil {
			return *d.Group, *d.Binding, true
		}
	}
	return 0, 0, false
}

// FindStruct returns the group and binding of the group declaration bound to structType.
//
// Parameters:
//   - decls: declarations collected by a PreProcessor
//   - structType: the struct type key to look for
//
// Returns:
//   - int: the group index
//   - int: the binding index
//   - bool: false if no declaration binds that struct
func FindStruct(decls []Annotation, structType AnnotationArg) (int, int, bool) {
	for _, d := range decls {
		if d.StructType() == structType && d.Group != nil && d.Binding != nil {
			return *d.Group, *d.Binding, true
		}
	}
	return 0, 0, false
}
