// pre_processor.go implements the WGSL shader pre-processor. It scans shader source for @oxy:
// annotations, replaces them with generated WGSL declarations or injected struct source,
// evaluates ifdef/ifndef/else/endif blocks against a define set, and collects a declarations
// list that the Scene uses to wire GPU resources to bind groups without string lookups.
//
// The pre-processor maintains two registries:
//   - structRegistry: maps AnnotationArg keys to embedded WGSL struct sources and their
//     resolved type names. Used by @oxy:include (to inject the struct source) and
//     @oxy:group (to resolve the WGSL type name in the generated declaration).
//   - addressSpaceRegistry: maps address space argument keys to WGSL var<> syntax strings.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/voidstar-go/engine/blackhole"
	"github.com/Carmen-Shannon/voidstar-go/engine/camera"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer/postprocess"
)

// registryEntry pairs a WGSL struct source string (embedded from a .wgsl asset file)
// with the resolved WGSL type name used in generated @group/@binding declarations.
type registryEntry struct {
	// Source is the raw WGSL struct definition text injected by @oxy:include.
	Source string

	// Type is the WGSL type name emitted in @oxy:group declarations (e.g. "CameraUniform").
	Type string
}

// conditionalFrame is one open ifdef/ifndef block.
type conditionalFrame struct {
	line         int
	parentActive bool
	taken        bool
	seenElse     bool
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// structRegistry maps struct type argument keys to their embedded WGSL source and type name.
	structRegistry map[AnnotationArg]registryEntry

	// addressSpaceRegistry maps address space argument keys to WGSL var<> syntax strings.
	addressSpaceRegistry map[AnnotationArg]string

	// declarations accumulates annotations of type AnnotationTypeBindingGroup and
	// AnnotationTypeProvider from active regions during a Process call. Reset at the start of
	// each Process invocation.
	declarations []Annotation
}

// PreProcessor processes raw WGSL shader source code containing @oxy: annotations,
// replacing them with generated declarations or injected struct sources while collecting
// a declarations list for downstream resource wiring by the Scene.
type PreProcessor interface {
	// Process takes raw WGSL shader source code and pre-processes it. Conditional blocks are
	// resolved against defines first and lines in inactive branches are blanked rather than
	// removed. In active regions @oxy:include annotations are
	// replaced with embedded struct source text, @oxy:group annotations with generated
	// @group/@binding variable declarations, and @oxy:provider annotations are recorded only.
	//
	// A define of the form NAME=VALUE is also emitted as "const NAME = VALUE;" after the last
	// source line, so the same value can drive both branch selection and shader arithmetic.
	//
	// The declarations list is reset at the start of each call and can be retrieved
	// via Declarations() after Process returns.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing annotations to be processed
	//   - defines: the active define names, optionally with =VALUE suffixes
	//
	// Returns:
	//   - string: the processed WGSL shader source code with annotations replaced
	//   - error: an error if any annotation is malformed, references an unknown type,
	//     or the conditional blocks are unbalanced
	Process(source string, defines ...string) (string, error)

	// Declarations returns the list of AnnotationTypeBindingGroup and AnnotationTypeProvider
	// annotations collected during the most recent call to Process, in source-order.
	// Returns nil if Process has not been called.
	//
	// Returns:
	//   - []Annotation: the declarations collected during the last Process call
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor with all registered struct types and
// address space mappings pre-populated. The struct registry maps annotation argument
// keys to their embedded WGSL source and resolved WGSL type names from the engine's
// GPU type packages.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera:          {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
			AnnotationArgBlackHoleParams: {Source: blackhole.GPUBlackHoleParamsSource, Type: "BlackHoleParams"},
			AnnotationArgBlurParams:      {Source: postprocess.GPUBlurParamsSource, Type: "BlurParams"},
			AnnotationArgCompositeParams: {Source: postprocess.GPUCompositeParamsSource, Type: "CompositeParams"},
			annotationArgQuadVertex:      {Source: postprocess.GPUQuadVertexSource, Type: "VertexInput"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform: "var<uniform>",
			annotationArgStorageTypeRead:    "var<storage, read>",
		},
	}
}

func (p *preProcessor) Process(source string, defines ...string) (string, error) {
	p.declarations = p.declarations[:0]

	defined, constants := splitDefines(defines)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines)+len(constants))

	var stack []conditionalFrame
	active := true

	for i, line := range lines {
		lineNum := i + 1
		a, err := parseAnnotation(line, lineNum)
		if err != nil {
			return "", err
		}

		if a != nil {
			switch a.Type {
			case annotationTypeIfdef, annotationTypeIfndef:
				_, isSet := defined[string(a.Args[0])]
				taken := isSet == (a.Type == annotationTypeIfdef)
				stack = append(stack, conditionalFrame{line: lineNum, parentActive: active, taken: taken})
				active = active && taken
				out = append(out, "")
				continue
			case annotationTypeElse:
				if len(stack) == 0 {
					return "", fmt.Errorf("line %d: @oxy:else without matching ifdef", lineNum)
				}
				top := &stack[len(stack)-1]
				if top.seenElse {
					return "", fmt.Errorf("line %d: duplicate @oxy:else for block opened on line %d", lineNum, top.line)
				}
				top.seenElse = true
				active = top.parentActive && !top.taken
				out = append(out, "")
				continue
			case annotationTypeEndif:
				if len(stack) == 0 {
					return "", fmt.Errorf("line %d: @oxy:endif without matching ifdef", lineNum)
				}
				active = stack[len(stack)-1].parentActive
				stack = stack[:len(stack)-1]
				out = append(out, "")
				continue
			}
		}

		if !active {
			out = append(out, "")
			continue
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		// handle annotation based on its type and arguments
		switch a.Type {
		case annotationTypeInclude:
			entry, ok := p.structRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", lineNum, a.Args[0])
			}
			out = append(out, entry.Source)
		case AnnotationTypeBindingGroup:
			addrSpace := p.addressSpaceRegistry[a.Args[0]]
			varName := string(a.Args[1])
			entry, ok := p.structRegistry[a.StructType()]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:group struct type %q", lineNum, a.Args[2])
			}
			wgslType := entry.Type
			if strings.HasPrefix(string(a.Args[2]), "array<") {
				wgslType = fmt.Sprintf("array<%s>", entry.Type)
			}

			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, addrSpace, varName, wgslType))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			out = append(out, line)
			p.declarations = append(p.declarations, *a)
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", lineNum, a.Type)
		}
	}

	if len(stack) > 0 {
		return "", fmt.Errorf("line %d: @oxy:%s block is never closed", stack[len(stack)-1].line, annotationTypeIfdef)
	}
	out = append(out, constants...)
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

// splitDefines separates define names from NAME=VALUE pairs and renders the pairs as WGSL consts.
func splitDefines(defines []string) (map[string]struct{}, []string) {
	defined := make(map[string]struct{}, len(defines))
	var constants []string
	for _, d := range NormalizeDefines(defines) {
		name, value, hasValue := strings.Cut(d, "=")
		name = strings.TrimSpace(name)
		defined[name] = struct{}{}
		if hasValue {
			constants = append(constants, fmt.Sprintf("const %s = %s;", name, strings.TrimSpace(value)))
		}
	}
	return defined, constants
}
