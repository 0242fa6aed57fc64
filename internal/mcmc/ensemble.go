package mcmc

import "sync"

// Ensemble runs independent chains concurrently. Each run gets its own
// Sampler built from a consecutive seed, so no state is shared between
// chains and results are reproducible from seedStart.
type Ensemble struct {
	build     func(seed int64) (*Sampler, error)
	numRuns   int
	seedStart int64
}

func NewEnsemble(build func(seed int64) (*Sampler, error), numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// Run samples every chain for steps steps and returns the samplers,
// ordered by seed offset.
func (e *Ensemble) Run(steps int) ([]*Sampler, error) {
	samplers := make([]*Sampler, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			s.Run(steps)
			samplers[idx] = s
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return samplers, nil
}
