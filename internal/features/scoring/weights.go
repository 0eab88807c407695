package scoring

import (
	"fmt"
	"math"
)

// ModuleWeights is the explicit weighting scheme applied to module scores.
// Passed into the calculator rather than read from a package constant so
// tests can verify the sum invariant and alternate schemes can be swapped in.
type ModuleWeights struct {
	Authorization float64
	Debris        float64
	Cybersecurity float64
	Insurance     float64
	Environmental float64
	Reporting     float64
}

// DefaultModuleWeights reflects the regulatory urgency model: authorization
// carries the most weight, debris and cybersecurity next, then insurance
// and the reporting/environmental obligations.
func DefaultModuleWeights() ModuleWeights {
	return ModuleWeights{
		Authorization: 0.25,
		Debris:        0.20,
		Cybersecurity: 0.20,
		Insurance:     0.15,
		Environmental: 0.10,
		Reporting:     0.10,
	}
}

// Validate checks that the weights sum to exactly 1.0
func (w ModuleWeights) Validate() error {
	sum := w.Authorization + w.Debris + w.Cybersecurity + w.Insurance + w.Environmental + w.Reporting
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("module weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// For returns the weight of a module by id
func (w ModuleWeights) For(module string) float64 {
	switch module {
	case ModuleAuthorization:
		return w.Authorization
	case ModuleDebris:
		return w.Debris
	case ModuleCybersecurity:
		return w.Cybersecurity
	case ModuleInsurance:
		return w.Insurance
	case ModuleEnvironmental:
		return w.Environmental
	case ModuleReporting:
		return w.Reporting
	}
	return 0
}
