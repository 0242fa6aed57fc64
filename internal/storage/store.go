package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sjfleming/ssDNA-MCMC/internal/chain"
	"github.com/sjfleming/ssDNA-MCMC/internal/mcmc"
	"github.com/sjfleming/ssDNA-MCMC/internal/moves"
	"github.com/sjfleming/ssDNA-MCMC/internal/physics"
)

// Store persists sampling runs under a base directory, one directory per
// run holding metadata.json and trace.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type KindCounts struct {
	Proposed int `json:"proposed"`
	Accepted int `json:"accepted"`
}

type RunMetadata struct {
	ID             string                `json:"id"`
	Timestamp      time.Time             `json:"timestamp"`
	Seed           int64                 `json:"seed"`
	Beads          int                   `json:"beads"`
	Steps          int                   `json:"steps"`
	Params         physics.Params        `json:"params"`
	FinalEnergy    float64               `json:"final_energy"`
	Counts         map[string]KindCounts `json:"counts"`
	OverallRatio   float64               `json:"overall_ratio"`
	FixedPointMode string                `json:"fixed_point_mode"`
}

// Save writes the sampler's trace and bookkeeping to a fresh run
// directory and returns the run ID.
func (s *Store) Save(sampler *mcmc.Sampler, mode mcmc.FixedPointMode) (string, error) {
	runID := fmt.Sprintf("chain_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	counts := make(map[string]KindCounts, moves.NumKinds)
	for k, c := range sampler.Counts() {
		counts[moves.Kind(k).String()] = KindCounts{Proposed: c.Proposed, Accepted: c.Accepted}
	}

	meta := RunMetadata{
		ID:             runID,
		Timestamp:      time.Now(),
		Seed:           sampler.Seed(),
		Beads:          sampler.Beads(),
		Steps:          len(sampler.Trace()),
		Params:         sampler.Model().Params(),
		FinalEnergy:    sampler.CurrentEnergy(),
		Counts:         counts,
		OverallRatio:   sampler.AcceptanceRatios().Overall,
		FixedPointMode: mode.String(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"step"}
	for i := 0; i < sampler.Beads(); i++ {
		header = append(header,
			fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i), fmt.Sprintf("z%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for step, conf := range sampler.Trace() {
		row := []string{strconv.Itoa(step + 1)}
		for _, b := range conf {
			row = append(row,
				strconv.FormatFloat(b.X, 'g', -1, 64),
				strconv.FormatFloat(b.Y, 'g', -1, 64),
				strconv.FormatFloat(b.Z, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrace reads a saved trace back into conformations.
func (s *Store) LoadTrace(runID string) ([]chain.Conformation, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []chain.Conformation{}, nil
	}

	beads := (len(records[0]) - 1) / 3
	trace := make([]chain.Conformation, 0, len(records)-1)
	for _, record := range records[1:] {
		conf := make(chain.Conformation, beads)
		for i := 0; i < beads; i++ {
			x, err := strconv.ParseFloat(record[1+3*i], 64)
			if err != nil {
				return nil, err
			}
			y, err := strconv.ParseFloat(record[2+3*i], 64)
			if err != nil {
				return nil, err
			}
			z, err := strconv.ParseFloat(record[3+3*i], 64)
			if err != nil {
				return nil, err
			}
			conf[i] = r3.Vec{X: x, Y: y, Z: z}
		}
		trace = append(trace, conf)
	}
	return trace, nil
}
