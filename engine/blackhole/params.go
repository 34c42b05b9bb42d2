package blackhole

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Solver selects the ODE integrator the ray marcher is compiled with.
type Solver int

const (
	SolverEulerCromer Solver = iota
	SolverRK4
	SolverAdaptiveRK23
	SolverAdaptiveRK45
)

var solverNames = [...]string{"EulerCromer", "RK4", "AdaptiveRK23", "AdaptiveRK45"}
var solverDefines = [...]string{"SOLVER_EULER_CROMER", "SOLVER_RK4", "SOLVER_RK23", "SOLVER_RK45"}

func (s Solver) String() string {
	if s < 0 || int(s) >= len(solverNames) {
		return fmt.Sprintf("Solver(%d)", int(s))
	}
	return solverNames[s]
}

// Define returns the shader define that enables this solver.
func (s Solver) Define() string {
	if s < 0 || int(s) >= len(solverDefines) {
		return solverDefines[SolverRK4]
	}
	return solverDefines[s]
}

// Adaptive reports whether the solver controls its own step size against the tolerance.
func (s Solver) Adaptive() bool {
	return s == SolverAdaptiveRK23 || s == SolverAdaptiveRK45
}

// Metric selects the spacetime the ray marcher integrates through.
type Metric int

const (
	MetricSchwarzschild Metric = iota
	MetricKerr
)

func (m Metric) String() string {
	if m == MetricKerr {
		return "Kerr"
	}
	return "Schwarzschild"
}

// Define returns the shader define that enables this metric.
func (m Metric) Define() string {
	if m == MetricKerr {
		return "METRIC_KERR"
	}
	return "METRIC_SCHWARZSCHILD"
}

// InsideHorizonDefine is set while the camera is inside the event horizon.
const InsideHorizonDefine = "INSIDE_HORIZON"

// StepBudget bounds the ray marcher for one side of the horizon.
type StepBudget struct {
	MaxSteps  uint32
	Tolerance float32
}

// Params holds every tunable parameter of the black hole. The UI layer reads and edits it
// through BlackHole.Params and BlackHole.Edit.
type Params struct {
	Mass float32
	// Spin is clamped to [0, Mass) after every edit.
	Spin float32

	InnerRadius           float32
	OuterRadius           float32
	RotateDisk            bool
	RotationSpeed         float32
	MaxTemperature        float32
	AbsorptionCoefficient float32

	Solver Solver
	Metric Metric

	// OutsideBudget applies while the camera is outside the horizon, InsideBudget once it has crossed.
	OutsideBudget StepBudget
	InsideBudget  StepBudget

	DrawLensing bool

	BackgroundBrightness float32
	DiskBrightness       float32
	DopplerCoefficient   float32
	BlueshiftCoefficient float32

	BloomEnabled   bool
	BloomThreshold float32
	BloomStrength  float32
	Exposure       float32
	Gamma          float32

	UseDebugDisk      bool
	UseDebugSphere    bool
	DiskDebugTop1     mgl32.Vec3
	DiskDebugTop2     mgl32.Vec3
	DiskDebugBottom1  mgl32.Vec3
	DiskDebugBottom2  mgl32.Vec3
	SphereDebugColor1 mgl32.Vec3
	SphereDebugColor2 mgl32.Vec3
}

// Derived holds values computed from Params and the camera, never edited directly.
type Derived struct {
	HorizonRadius float32
	ISCORadius    float32
	InsideHorizon bool
	DrawDistance  float32
	RotationAngle float32
	MaxSteps      uint32
	Tolerance     float32
}

// DefaultParams returns the parameters a new black hole starts with.
// They match the "Default" entry of the embedded presets.
func DefaultParams() Params {
	return Params{
		Mass:                  1,
		Spin:                  0.5,
		InnerRadius:           6,
		OuterRadius:           16,
		RotateDisk:            true,
		RotationSpeed:         0.1,
		MaxTemperature:        10000,
		AbsorptionCoefficient: 0.5,
		Solver:                SolverRK4,
		Metric:                MetricKerr,
		OutsideBudget:         StepBudget{MaxSteps: 300, Tolerance: 1e-3},
		InsideBudget:          StepBudget{MaxSteps: 150, Tolerance: 1e-4},
		DrawLensing:           true,
		BackgroundBrightness:  1,
		DiskBrightness:        1,
		DopplerCoefficient:    1,
		BlueshiftCoefficient:  1,
		BloomEnabled:          true,
		BloomThreshold:        1,
		BloomStrength:         0.6,
		Exposure:              1,
		Gamma:                 2.2,
		DiskDebugTop1:         mgl32.Vec3{0.1, 0.8, 0.2},
		DiskDebugTop2:         mgl32.Vec3{0.02, 0.47, 0.87},
		DiskDebugBottom1:      mgl32.Vec3{0.98, 0.4, 0},
		DiskDebugBottom2:      mgl32.Vec3{1, 0.84, 0},
		SphereDebugColor1:     mgl32.Vec3{0.8, 0, 0},
		SphereDebugColor2:     mgl32.Vec3{0.30, 0.05, 0.46},
	}
}
