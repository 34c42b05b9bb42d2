// Package postprocess describes the bloom chain that runs after the lensing pass: which texture
// each blur step reads and writes, and the uniform and vertex data the full-screen passes consume.
// It holds no GPU state, so the scene that owns the render targets decides how to execute it.
package postprocess

import "fmt"

// DefaultBlurPasses is the number of separable blur steps run per frame.
const DefaultBlurPasses = 10

// Attachment names one of the textures the blur chain reads from or writes to.
type Attachment int

const (
	// AttachmentBright is the bright-pass output of the lensing pass.
	AttachmentBright Attachment = iota

	// AttachmentPing receives every horizontal step.
	AttachmentPing

	// AttachmentPong receives every vertical step.
	AttachmentPong
)

func (a Attachment) String() string {
	switch a {
	case AttachmentBright:
		return "bright"
	case AttachmentPing:
		return "ping"
	case AttachmentPong:
		return "pong"
	default:
		return fmt.Sprintf("Attachment(%d)", int(a))
	}
}

// BlurStep is one direction of the separable Gaussian blur.
type BlurStep struct {
	Index      int
	Horizontal bool
	Source     Attachment
	Target     Attachment
}

// BlurSchedule lays out count alternating blur steps. The first step reads the bright-pass
// attachment and every later step reads the previous step's target. Horizontal steps write to
// ping and vertical steps write to pong, so a step never samples the texture it renders into.
//
// Parameters:
//   - count: number of steps; non-positive counts produce an empty schedule
//   - horizontalFirst: whether step 0 blurs horizontally
//
// Returns:
//   - []BlurStep: the steps in execution order
func BlurSchedule(count int, horizontalFirst bool) []BlurStep {
	if count <= 0 {
		return nil
	}
	steps := make([]BlurStep, count)
	source := AttachmentBright
	for i := range steps {
		horizontal := (i%2 == 0) == horizontalFirst
		target := AttachmentPong
		if horizontal {
			target = AttachmentPing
		}
		steps[i] = BlurStep{
			Index:      i,
			Horizontal: horizontal,
			Source:     source,
			Target:     target,
		}
		source = target
	}
	return steps
}

// FinalTarget returns the attachment holding the finished blur, which is the bright-pass
// attachment itself when the schedule is empty.
func FinalTarget(steps []BlurStep) Attachment {
	if len(steps) == 0 {
		return AttachmentBright
	}
	return steps[len(steps)-1].Target
}

// BlurDirection returns the texel step the blur shader walks along for one step.
//
// Parameters:
//   - horizontal: step direction
//   - width, height: size of the texture being blurred in pixels
//
// Returns:
//   - [2]float32: the UV offset of one texel along the blur axis
func BlurDirection(horizontal bool, width, height uint32) [2]float32 {
	if horizontal {
		if width == 0 {
			return [2]float32{}
		}
		return [2]float32{1 / float32(width), 0}
	}
	if height == 0 {
		return [2]float32{}
	}
	return [2]float32{0, 1 / float32(height)}
}
