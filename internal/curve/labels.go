package curve

import "fmt"

// Labels returns the two formula captions with the current values substituted,
// e.g. "x = 5.00·sin(5.00·t + 5.00)" and "y = 5.00·sin(5.00·t)".
func Labels(p Parameters) (x, y string) {
	x = fmt.Sprintf("x = %.2f·sin(%.2f·t %s)", p.AmplitudeA, p.AngularFreqA, signed(p.PhaseOffset))
	y = fmt.Sprintf("y = %.2f·sin(%.2f·t)", p.AmplitudeB, p.AngularFreqB)
	return x, y
}

// signed renders the phase term as "+ 1.50" or "- 1.50"
func signed(v float64) string {
	if v < 0 {
		return fmt.Sprintf("- %.2f", -v)
	}
	return fmt.Sprintf("+ %.2f", v)
}
