// Package tune finds a proposal step size whose acceptance ratio lands
// near a target, by scanning candidate steps with short pilot chains.
package tune

import (
	"fmt"
	"math"

	"github.com/sjfleming/ssDNA-MCMC/internal/mcmc"
)

// StepSearch scans candidate step values with short pilot runs.
type StepSearch struct {
	steps      []float64
	pilotSteps int
	target     float64 // desired overall acceptance, percent
}

// NewStepSearch builds a search over the given candidate steps. A target
// around 50% keeps the three move kernels productive for chains of this
// size.
func NewStepSearch(steps []float64, pilotSteps int, targetPercent float64) *StepSearch {
	return &StepSearch{steps: steps, pilotSteps: pilotSteps, target: targetPercent}
}

// Search builds a pilot sampler per candidate step and returns the step
// whose overall acceptance ratio is closest to the target, along with
// that ratio.
func (g *StepSearch) Search(build func(step float64) (*mcmc.Sampler, error)) (float64, float64, error) {
	if len(g.steps) == 0 {
		return 0, 0, fmt.Errorf("no candidate steps")
	}

	best := math.Inf(1)
	var bestStep, bestRatio float64

	for _, step := range g.steps {
		s, err := build(step)
		if err != nil {
			return 0, 0, err
		}
		s.Run(g.pilotSteps)

		ratio := s.AcceptanceRatios().Overall
		if math.IsNaN(ratio) {
			continue
		}
		if d := math.Abs(ratio - g.target); d < best {
			best = d
			bestStep = step
			bestRatio = ratio
		}
	}

	if math.IsInf(best, 1) {
		return 0, 0, fmt.Errorf("no candidate produced a defined acceptance ratio")
	}
	return bestStep, bestRatio, nil
}
