// Package analysis computes scalar observables over sampled traces:
// end-to-end distance, radius of gyration, energy series, and their
// summary statistics and autocorrelation.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/sjfleming/ssDNA-MCMC/internal/chain"
	"github.com/sjfleming/ssDNA-MCMC/internal/physics"
)

// EndToEnd returns the distance between the first and last beads.
func EndToEnd(c chain.Conformation) float64 {
	if len(c) < 2 {
		return 0
	}
	return r3.Norm(r3.Sub(c[len(c)-1], c[0]))
}

// RadiusOfGyration returns sqrt(mean squared bead distance from the
// centroid).
func RadiusOfGyration(c chain.Conformation) float64 {
	if len(c) == 0 {
		return 0
	}
	var centroid r3.Vec
	for _, b := range c {
		centroid = r3.Add(centroid, b)
	}
	centroid = r3.Scale(1/float64(len(c)), centroid)

	var sum float64
	for _, b := range c {
		sum += r3.Norm2(r3.Sub(b, centroid))
	}
	return math.Sqrt(sum / float64(len(c)))
}

// Series maps an observable over a trace.
func Series(trace []chain.Conformation, f func(chain.Conformation) float64) []float64 {
	out := make([]float64, len(trace))
	for i, c := range trace {
		out[i] = f(c)
	}
	return out
}

// EnergySeries scores every trace entry with the model's bonded plus
// interaction energy, matching what the sampler stores on acceptance.
func EnergySeries(m *physics.Model, trace []chain.Conformation) []float64 {
	return Series(trace, func(c chain.Conformation) float64 {
		return m.Bonded(c) + m.Interaction(c)
	})
}

// Summary holds basic statistics of a scalar series.
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{Mean: math.NaN(), StdDev: math.NaN(), Min: math.NaN(), Max: math.NaN()}
	}
	s := Summary{
		Mean:   stat.Mean(series, nil),
		StdDev: stat.StdDev(series, nil),
		Min:    series[0],
		Max:    series[0],
	}
	for _, v := range series {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	return s
}

// Autocorrelation returns the normalized autocorrelation of the series
// at lags 0..maxLag. Lag 0 is 1 for any non-constant series; a constant
// series has zero variance and yields NaN at every lag.
func Autocorrelation(series []float64, maxLag int) []float64 {
	if maxLag >= len(series) {
		maxLag = len(series) - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(series, nil)
	var denom float64
	for _, v := range series {
		d := v - mean
		denom += d * d
	}

	out := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		var num float64
		for i := 0; i+lag < len(series); i++ {
			num += (series[i] - mean) * (series[i+lag] - mean)
		}
		out[lag] = num / denom
	}
	return out
}

// IntegratedAutocorrelationTime estimates 1 + 2·Σρ(k), truncating the
// sum at the first non-positive autocorrelation.
func IntegratedAutocorrelationTime(series []float64) float64 {
	acf := Autocorrelation(series, len(series)/2)
	tau := 1.0
	for lag := 1; lag < len(acf); lag++ {
		if math.IsNaN(acf[lag]) || acf[lag] <= 0 {
			break
		}
		tau += 2 * acf[lag]
	}
	return tau
}
