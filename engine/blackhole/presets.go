package blackhole

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// ErrUnknownPreset is returned when a preset name is not in the loaded set.
var ErrUnknownPreset = errors.New("unknown preset")

//go:embed assets/presets.toml
var defaultPresetsSource []byte

// Preset is a named bundle of the fourteen parameters a preset controls.
type Preset struct {
	Name                  string  `toml:"name"`
	InnerRadius           float32 `toml:"inner_radius"`
	OuterRadius           float32 `toml:"outer_radius"`
	Spin                  float32 `toml:"spin"`
	RotationSpeed         float32 `toml:"rotation_speed"`
	MaxTemperature        float32 `toml:"max_temperature"`
	AbsorptionCoefficient float32 `toml:"absorption_coefficient"`
	BackgroundBrightness  float32 `toml:"background_brightness"`
	DiskBrightness        float32 `toml:"disk_brightness"`
	DopplerCoefficient    float32 `toml:"doppler_coefficient"`
	BlueshiftCoefficient  float32 `toml:"blueshift_coefficient"`
	BloomThreshold        float32 `toml:"bloom_threshold"`
	BloomStrength         float32 `toml:"bloom_strength"`
	Exposure              float32 `toml:"exposure"`
	Gamma                 float32 `toml:"gamma"`
}

type presetFile struct {
	Presets []Preset `toml:"preset"`
}

// ParsePresets decodes a TOML document of [[preset]] tables.
// Names must be present and unique.
//
// Parameters:
//   - data: the TOML source
//
// Returns:
//   - []Preset: presets in file order
//   - error: error if the document is malformed or a name is missing or repeated
func ParsePresets(data []byte) ([]Preset, error) {
	var f presetFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Presets))
	for i, p := range f.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d has no name", i)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("duplicate preset %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return f.Presets, nil
}

// DefaultPresets returns the presets embedded in the binary.
func DefaultPresets() []Preset {
	presets, err := ParsePresets(defaultPresetsSource)
	if err != nil {
		panic(fmt.Sprintf("blackhole: embedded presets are invalid: %v", err))
	}
	return presets
}

// presetOf extracts the preset-controlled fields from p.
func presetOf(name string, p Params) Preset {
	return Preset{
		Name:                  name,
		InnerRadius:           p.InnerRadius,
		OuterRadius:           p.OuterRadius,
		Spin:                  p.Spin,
		RotationSpeed:         p.RotationSpeed,
		MaxTemperature:        p.MaxTemperature,
		AbsorptionCoefficient: p.AbsorptionCoefficient,
		BackgroundBrightness:  p.BackgroundBrightness,
		DiskBrightness:        p.DiskBrightness,
		DopplerCoefficient:    p.DopplerCoefficient,
		BlueshiftCoefficient:  p.BlueshiftCoefficient,
		BloomThreshold:        p.BloomThreshold,
		BloomStrength:         p.BloomStrength,
		Exposure:              p.Exposure,
		Gamma:                 p.Gamma,
	}
}

// apply overwrites every preset-controlled field of p.
func (pr Preset) apply(p *Params) {
	p.InnerRadius = pr.InnerRadius
	p.OuterRadius = pr.OuterRadius
	p.Spin = pr.Spin
	p.RotationSpeed = pr.RotationSpeed
	p.MaxTemperature = pr.MaxTemperature
	p.AbsorptionCoefficient = pr.AbsorptionCoefficient
	p.BackgroundBrightness = pr.BackgroundBrightness
	p.DiskBrightness = pr.DiskBrightness
	p.DopplerCoefficient = pr.DopplerCoefficient
	p.BlueshiftCoefficient = pr.BlueshiftCoefficient
	p.BloomThreshold = pr.BloomThreshold
	p.BloomStrength = pr.BloomStrength
	p.Exposure = pr.Exposure
	p.Gamma = pr.Gamma
}
