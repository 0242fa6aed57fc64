package mcmc

import (
	"fmt"
	"math"
	"strings"

	"github.com/sjfleming/ssDNA-MCMC/internal/moves"
)

// Ratios holds acceptance percentages. A kind that was never proposed
// has no defined ratio and is reported as NaN rather than treated as an
// error.
type Ratios struct {
	Overall float64
	ByKind  [moves.NumKinds]float64
}

// AcceptanceRatios returns the overall and per-kind accepted/proposed
// percentages for all steps since construction or the last ResetAll.
func (s *Sampler) AcceptanceRatios() Ratios {
	var r Ratios
	var proposed, accepted int
	for k, c := range s.counts {
		proposed += c.Proposed
		accepted += c.Accepted
		if c.Proposed == 0 {
			r.ByKind[k] = math.NaN()
			continue
		}
		r.ByKind[k] = 100 * float64(c.Accepted) / float64(c.Proposed)
	}
	if proposed == 0 {
		r.Overall = math.NaN()
	} else {
		r.Overall = 100 * float64(accepted) / float64(proposed)
	}
	return r
}

func (r Ratios) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "overall %s", formatRatio(r.Overall))
	for k, v := range r.ByKind {
		fmt.Fprintf(&b, ", %s %s", moves.Kind(k), formatRatio(v))
	}
	return b.String()
}

func formatRatio(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", v)
}
