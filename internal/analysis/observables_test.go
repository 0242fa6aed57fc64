package analysis

import (
	"math"
	"testing"

	"github.com/sjfleming/ssDNA-MCMC/internal/chain"
	"github.com/sjfleming/ssDNA-MCMC/internal/physics"
)

func TestEndToEnd(t *testing.T) {
	c := chain.StraightLine(5, 1.5)
	if got := EndToEnd(c); math.Abs(got-6.0) > 1e-12 {
		t.Errorf("expected end-to-end 6.0, got %f", got)
	}
	if got := EndToEnd(chain.Conformation{{X: 1}}); got != 0 {
		t.Errorf("single bead should have zero extension, got %f", got)
	}
}

func TestRadiusOfGyration(t *testing.T) {
	// Two beads a distance 2 apart: each is 1 from the centroid.
	c := chain.Conformation{{X: -1}, {X: 1}}
	if got := RadiusOfGyration(c); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("expected Rg 1.0, got %f", got)
	}
}

func TestEnergySeries(t *testing.T) {
	par := physics.Params{
		KuhnLength: 1.5, BendStiffness: 4.1, StretchModulus: 50,
		BaseLength: 0.5, Temperature: 298.15, Step: 1,
	}
	m := physics.NewModel(par, nil, nil, nil)
	trace := []chain.Conformation{
		chain.StraightLine(5, par.KuhnLength),
		chain.StraightLine(5, par.KuhnLength),
	}
	series := EnergySeries(m, trace)
	if len(series) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(series))
	}
	if series[0] != series[1] {
		t.Error("identical conformations should have identical energy")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, 2, 3, 4})
	if s.Mean != 2.5 || s.Min != 1 || s.Max != 4 {
		t.Errorf("wrong summary: %+v", s)
	}

	empty := Summarize(nil)
	if !math.IsNaN(empty.Mean) {
		t.Error("empty series should summarize to NaN")
	}
}

func TestAutocorrelation(t *testing.T) {
	// Alternating series: perfect anticorrelation at lag 1.
	series := []float64{1, -1, 1, -1, 1, -1, 1, -1}
	acf := Autocorrelation(series, 2)
	if math.Abs(acf[0]-1) > 1e-12 {
		t.Errorf("expected acf[0]=1, got %f", acf[0])
	}
	if acf[1] >= 0 {
		t.Errorf("expected negative acf at lag 1, got %f", acf[1])
	}
}

func TestIntegratedAutocorrelationTime(t *testing.T) {
	// An uncorrelated-looking alternating series truncates immediately.
	series := []float64{1, -1, 1, -1, 1, -1, 1, -1}
	tau := IntegratedAutocorrelationTime(series)
	if math.Abs(tau-1) > 1e-12 {
		t.Errorf("expected tau 1 for anticorrelated series, got %f", tau)
	}

	// A slowly varying ramp is strongly correlated.
	ramp := make([]float64, 100)
	for i := range ramp {
		ramp[i] = float64(i)
	}
	if tau := IntegratedAutocorrelationTime(ramp); tau <= 1 {
		t.Errorf("expected tau > 1 for a ramp, got %f", tau)
	}
}

func TestSeriesOverTrace(t *testing.T) {
	trace := []chain.Conformation{
		chain.StraightLine(3, 1),
		chain.StraightLine(3, 2),
	}
	got := Series(trace, EndToEnd)
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("wrong series: %v", got)
	}
}
