package curve

import (
	"fmt"
	"math"
)

// Default sampling configuration
const (
	DefaultSampleCount = 300
	DefaultTMin        = -math.Pi
	DefaultTMax        = math.Pi
)

// Parameters holds the five values that define a Lissajous curve.
// Parameters is a value type: the model replaces it wholesale on every update.
type Parameters struct {
	AmplitudeA   float64 `json:"amplitude_a" yaml:"amplitude_a"`
	AmplitudeB   float64 `json:"amplitude_b" yaml:"amplitude_b"`
	AngularFreqA float64 `json:"angular_freq_a" yaml:"angular_freq_a"`
	AngularFreqB float64 `json:"angular_freq_b" yaml:"angular_freq_b"`
	PhaseOffset  float64 `json:"phase_offset" yaml:"phase_offset"`
}

// DefaultParameters returns the parameters a new model starts with
func DefaultParameters() Parameters {
	return Parameters{
		AmplitudeA:   5,
		AmplitudeB:   5,
		AngularFreqA: 5,
		AngularFreqB: 5,
		PhaseOffset:  5,
	}
}

// Point is a single (x, y) sample of the curve
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Samples is the ordered point sequence approximating the curve, in increasing t order
type Samples []Point

// Bounds returns the extent of the sequence. An empty sequence yields all zeros.
func (s Samples) Bounds() (minX, maxX, minY, maxY float64) {
	if len(s) == 0 {
		return 0, 0, 0, 0
	}
	minX, maxX = s[0].X, s[0].X
	minY, maxY = s[0].Y, s[0].Y
	for _, p := range s[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, maxX, minY, maxY
}

// Range is a closed numeric interval [Min, Max]
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Clamp returns v limited to the range
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Contains reports whether v lies inside the range
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Config holds the sampling grid and the valid parameter ranges
type Config struct {
	SampleCount int
	TMin        float64
	TMax        float64

	Amplitude   Range
	AngularFreq Range
	Phase       Range
}

// DefaultConfig returns N=300 samples over [-π, π] with amplitudes in [0, 10]
// and frequencies and phase in [-10, 10].
func DefaultConfig() Config {
	return Config{
		SampleCount: DefaultSampleCount,
		TMin:        DefaultTMin,
		TMax:        DefaultTMax,
		Amplitude:   Range{Min: 0, Max: 10},
		AngularFreq: Range{Min: -10, Max: 10},
		Phase:       Range{Min: -10, Max: 10},
	}
}

// Validate checks that the configuration describes a usable grid and that
// every sample computed within the configured ranges stays finite.
func (c Config) Validate() error {
	if c.SampleCount < 2 {
		return fmt.Errorf("sample count must be at least 2, got %d", c.SampleCount)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"t_min", c.TMin},
		{"t_max", c.TMax},
	} {
		if !isFinite(f.value) {
			return fmt.Errorf("%s must be finite, got %v", f.name, f.value)
		}
	}
	if c.TMin >= c.TMax {
		return fmt.Errorf("t_min (%v) must be less than t_max (%v)", c.TMin, c.TMax)
	}
	if span := c.TMax - c.TMin; !isFinite(span) {
		return fmt.Errorf("domain [%v, %v] is too wide", c.TMin, c.TMax)
	}
	for _, r := range []struct {
		name  string
		value Range
	}{
		{"amplitude", c.Amplitude},
		{"angular_freq", c.AngularFreq},
		{"phase", c.Phase},
	} {
		if !isFinite(r.value.Min) || !isFinite(r.value.Max) {
			return fmt.Errorf("%s range must be finite, got [%v, %v]", r.name, r.value.Min, r.value.Max)
		}
		if r.value.Min > r.value.Max {
			return fmt.Errorf("%s range is inverted: [%v, %v]", r.name, r.value.Min, r.value.Max)
		}
	}

	// Largest |ωt + φ| the grid can produce
	maxT := math.Max(math.Abs(c.TMin), math.Abs(c.TMax))
	if arg := c.AngularFreq.maxAbs()*maxT + c.Phase.maxAbs(); !isFinite(arg) {
		return fmt.Errorf("angular_freq and phase ranges overflow over domain [%v, %v]", c.TMin, c.TMax)
	}
	return nil
}

// Clamp limits every field of p to the configured ranges
func (c Config) Clamp(p Parameters) Parameters {
	return Parameters{
		AmplitudeA:   c.Amplitude.Clamp(p.AmplitudeA),
		AmplitudeB:   c.Amplitude.Clamp(p.AmplitudeB),
		AngularFreqA: c.AngularFreq.Clamp(p.AngularFreqA),
		AngularFreqB: c.AngularFreq.Clamp(p.AngularFreqB),
		PhaseOffset:  c.Phase.Clamp(p.PhaseOffset),
	}
}

// TimeGrid returns SampleCount evenly spaced values over [TMin, TMax].
// The first value is exactly TMin and the last exactly TMax.
func TimeGrid(cfg Config) []float64 {
	n := cfg.SampleCount
	if n < 2 {
		return nil
	}
	grid := make([]float64, n)
	step := (cfg.TMax - cfg.TMin) / float64(n-1)
	for i := range grid {
		grid[i] = cfg.TMin + float64(i)*step
	}
	grid[n-1] = cfg.TMax
	return grid
}

// Sample evaluates the curve for p over the configured grid:
// x = A·sin(ωA·t + φ), y = B·sin(ωB·t)
func Sample(cfg Config, p Parameters) Samples {
	grid := TimeGrid(cfg)
	samples := make(Samples, len(grid))
	for i, t := range grid {
		samples[i] = Point{
			X: p.AmplitudeA * math.Sin(p.AngularFreqA*t+p.PhaseOffset),
			Y: p.AmplitudeB * math.Sin(p.AngularFreqB*t),
		}
	}
	return samples
}

func (r Range) maxAbs() float64 {
	return math.Max(math.Abs(r.Min), math.Abs(r.Max))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
