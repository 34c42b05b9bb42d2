package scene

import (
	"log"

	"github.com/Carmen-Shannon/voidstar-go/common"
	"github.com/Carmen-Shannon/voidstar-go/engine/blackhole"
)

// solverKeys maps the number row to the integrators in menu order.
var solverKeys = [...]struct {
	key    uint32
	solver blackhole.Solver
}{
	{common.Key1, blackhole.SolverEulerCromer},
	{common.Key2, blackhole.SolverRK4},
	{common.Key3, blackhole.SolverAdaptiveRK23},
	{common.Key4, blackhole.SolverAdaptiveRK45},
}

// handleHotkeys applies the scene's key bindings:
//
//	B      toggle bloom
//	L      toggle lensing
//	M      switch Schwarzschild/Kerr
//	N      next preset
//	T      debug disk texture
//	Y      debug sphere texture
//	1-4    select the integrator
//	F1     log a parameter summary
func (s *blackHoleScene) handleHotkeys() {
	if s.in == nil {
		return
	}

	for _, sk := range solverKeys {
		if s.in.ConsumeKeyPress(sk.key) {
			s.bh.SetSolver(sk.solver)
			log.Printf("[Scene] solver %s", sk.solver)
		}
	}

	if s.in.ConsumeKeyPress(common.KeyB) {
		s.bh.Edit(func(p *blackhole.Params) { p.BloomEnabled = !p.BloomEnabled })
	}
	if s.in.ConsumeKeyPress(common.KeyL) {
		s.bh.Edit(func(p *blackhole.Params) { p.DrawLensing = !p.DrawLensing })
	}
	if s.in.ConsumeKeyPress(common.KeyM) {
		metric := blackhole.MetricKerr
		if s.bh.Params().Metric == blackhole.MetricKerr {
			metric = blackhole.MetricSchwarzschild
		}
		s.bh.SetMetric(metric)
		log.Printf("[Scene] metric %s", metric)
	}
	if s.in.ConsumeKeyPress(common.KeyT) {
		s.bh.Edit(func(p *blackhole.Params) { p.UseDebugDisk = !p.UseDebugDisk })
	}
	if s.in.ConsumeKeyPress(common.KeyY) {
		s.bh.Edit(func(p *blackhole.Params) { p.UseDebugSphere = !p.UseDebugSphere })
	}
	if s.in.ConsumeKeyPress(common.KeyN) {
		s.nextPreset()
	}
	if s.in.ConsumeKeyPress(common.KeyF1) {
		s.showSummary = true
	}
}

func (s *blackHoleScene) nextPreset() {
	names := s.bh.Presets()
	if len(names) == 0 {
		return
	}
	s.presetIndex = (s.presetIndex + 1) % len(names)
	if err := s.bh.ApplyPreset(names[s.presetIndex]); err != nil {
		log.Printf("[Scene] %v", err)
	}
}
