package curve

import "fmt"

// ParametersChanged is the notification an input source sends when the user
// edits any of the five values. It always carries the full parameter set.
type ParametersChanged struct {
	AmplitudeA   float64
	AmplitudeB   float64
	AngularFreqA float64
	AngularFreqB float64
	PhaseOffset  float64
}

// Parameters converts the event into a parameter value
func (e ParametersChanged) Parameters() Parameters {
	return Parameters(e)
}

// Model owns the current parameters and the sample sequence derived from them.
// A Model has a single owner and is not safe for concurrent use.
type Model struct {
	cfg     Config
	params  Parameters
	samples Samples
}

// NewModel creates a model with DefaultParameters and computes its first sequence
func NewModel(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid curve config: %w", err)
	}
	m := &Model{cfg: cfg}
	m.replace(cfg.Clamp(DefaultParameters()))
	return m, nil
}

// NewModelWith creates a model and applies p as its initial parameters
func NewModelWith(cfg Config, p Parameters) (*Model, error) {
	m, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	if err := m.set(p); err != nil {
		return nil, err
	}
	return m, nil
}

// SetParameters replaces all five parameters and recomputes the samples.
// Finite values outside the configured ranges are clamped. A non-finite value
// returns an error wrapping ErrInvalidParameter and leaves the model unchanged.
func (m *Model) SetParameters(amplitudeA, amplitudeB, angularFreqA, angularFreqB, phaseOffset float64) error {
	return m.set(Parameters{
		AmplitudeA:   amplitudeA,
		AmplitudeB:   amplitudeB,
		AngularFreqA: angularFreqA,
		AngularFreqB: angularFreqB,
		PhaseOffset:  phaseOffset,
	})
}

// Apply handles a change notification from an input source
func (m *Model) Apply(e ParametersChanged) error {
	return m.set(e.Parameters())
}

// Parameters returns the current (clamped) parameters
func (m *Model) Parameters() Parameters {
	return m.params
}

// Config returns the sampling configuration
func (m *Model) Config() Config {
	return m.cfg
}

// CurrentSamples returns the sequence computed by the most recent successful update.
// The returned slice is a copy.
func (m *Model) CurrentSamples() Samples {
	out := make(Samples, len(m.samples))
	copy(out, m.samples)
	return out
}

func (m *Model) set(p Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.replace(m.cfg.Clamp(p))
	return nil
}

func (m *Model) replace(p Parameters) {
	m.params = p
	m.samples = Sample(m.cfg, p)
}
