package config

import (
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/sjfleming/ssDNA-MCMC/internal/chain"
	"github.com/sjfleming/ssDNA-MCMC/internal/mcmc"
	"github.com/sjfleming/ssDNA-MCMC/internal/physics"
)

// Domain errors for sampler construction.
var (
	// ErrInvalidConfiguration indicates an option failed its validation
	// predicate; the wrapped message names the offending field.
	ErrInvalidConfiguration = errors.New("config: invalid configuration")

	// ErrNotImplemented indicates a reserved option was supplied.
	ErrNotImplemented = errors.New("config: not implemented")
)

const (
	DefaultKuhnLength     = 1.5    // nm
	DefaultBendStiffness  = 4.1    // pN·nm
	DefaultStretchModulus = 50.0   // pN/nm
	DefaultBaseLength     = 0.5    // nm per base
	DefaultTemperature    = 298.15 // K
	DefaultBases          = 30
	DefaultStep           = 1.0
)

// FixedPoint anchors the bead holding a one-based base number to a
// position.
type FixedPoint struct {
	Base     int        `yaml:"base"`
	Position [3]float64 `yaml:"position"`
}

// Config collects every recognized sampler option. The callable options
// (boundary, force and interaction functions) are injected
// programmatically and do not round-trip through YAML.
type Config struct {
	KuhnLength     float64 `yaml:"l_k"`
	BendStiffness  float64 `yaml:"k_b"`
	StretchModulus float64 `yaml:"k_s"`
	BaseLength     float64 `yaml:"l_b"`
	Temperature    float64 `yaml:"temperature"`
	Bases          int     `yaml:"bases"`
	Step           float64 `yaml:"step"`
	Seed           int64   `yaml:"seed"`

	// FixedPointMode is "overwrite" (default) or "reject"; see
	// mcmc.FixedPointMode.
	FixedPointMode string `yaml:"fixed_point_mode"`

	InitialCoordinates [][3]float64 `yaml:"initial_coordinates"`
	FixedPoints        []FixedPoint `yaml:"fixed_points"`

	Boundary            physics.Boundary    `yaml:"-"`
	ForceFunction       physics.ForceField  `yaml:"-"`
	InteractionFunction physics.Interaction `yaml:"-"`

	// ForceValues is reserved; supplying it is an ErrNotImplemented, not
	// a silent no-op.
	ForceValues []float64 `yaml:"force_values"`
}

func DefaultConfig() *Config {
	return &Config{
		KuhnLength:     DefaultKuhnLength,
		BendStiffness:  DefaultBendStiffness,
		StretchModulus: DefaultStretchModulus,
		BaseLength:     DefaultBaseLength,
		Temperature:    DefaultTemperature,
		Bases:          DefaultBases,
		Step:           DefaultStep,
		FixedPointMode: "overwrite",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every option's constraint, returning an
// ErrInvalidConfiguration naming the first offending field. The
// callable options are probed (boundary and force at the origin, the
// interaction on a two-bead test array); a failure inside a user
// callable propagates to the caller unchanged.
func (c *Config) Validate() error {
	switch {
	case !(c.KuhnLength > 0.2):
		return fmt.Errorf("%w: l_k must be > 0.2 nm, got %g", ErrInvalidConfiguration, c.KuhnLength)
	case !(c.BendStiffness > 0):
		return fmt.Errorf("%w: k_b must be > 0, got %g", ErrInvalidConfiguration, c.BendStiffness)
	case !(c.StretchModulus > 0):
		return fmt.Errorf("%w: k_s must be > 0, got %g", ErrInvalidConfiguration, c.StretchModulus)
	case !(c.BaseLength > 0 && c.BaseLength < 1):
		return fmt.Errorf("%w: l_b must be in (0,1) nm, got %g", ErrInvalidConfiguration, c.BaseLength)
	case !(c.Temperature > 273.15 && c.Temperature < 373.15):
		return fmt.Errorf("%w: temperature must be in (273.15,373.15) K, got %g", ErrInvalidConfiguration, c.Temperature)
	case c.Bases <= 6:
		return fmt.Errorf("%w: bases must be > 6, got %d", ErrInvalidConfiguration, c.Bases)
	case !(c.Step > 0):
		return fmt.Errorf("%w: step must be > 0, got %g", ErrInvalidConfiguration, c.Step)
	}

	if c.ForceValues != nil {
		return fmt.Errorf("%w: force_values is reserved", ErrNotImplemented)
	}

	switch c.FixedPointMode {
	case "", "overwrite", "reject":
	default:
		return fmt.Errorf("%w: fixed_point_mode must be overwrite or reject, got %q", ErrInvalidConfiguration, c.FixedPointMode)
	}

	for _, fp := range c.FixedPoints {
		if fp.Base < 1 || fp.Base > c.Bases {
			return fmt.Errorf("%w: fixed_points base %d outside [1,%d]", ErrInvalidConfiguration, fp.Base, c.Bases)
		}
	}
	if n := c.beads(); c.InitialCoordinates != nil && len(c.InitialCoordinates) < n {
		return fmt.Errorf("%w: initial_coordinates has %d rows, chain needs %d beads", ErrInvalidConfiguration, len(c.InitialCoordinates), n)
	}

	if c.Boundary != nil {
		c.Boundary(r3.Vec{})
	}
	if c.ForceFunction != nil {
		c.ForceFunction(r3.Vec{})
	}
	if c.InteractionFunction != nil {
		c.InteractionFunction([]r3.Vec{{}, {X: c.KuhnLength}})
	}
	return nil
}

// Params returns the physical parameters implied by the configuration.
func (c *Config) Params() physics.Params {
	return physics.Params{
		KuhnLength:     c.KuhnLength,
		BendStiffness:  c.BendStiffness,
		StretchModulus: c.StretchModulus,
		BaseLength:     c.BaseLength,
		Temperature:    c.Temperature,
		Step:           c.Step,
	}
}

// Beads returns the bead count implied by bases, l_b and l_k.
func (c *Config) Beads() int { return c.beads() }

func (c *Config) beads() int {
	return chain.BeadCount(c.Bases, c.BaseLength, c.KuhnLength)
}

func (c *Config) fixedPoints() chain.FixedPoints {
	fixed := make(chain.FixedPoints, len(c.FixedPoints))
	for _, fp := range c.FixedPoints {
		idx := chain.BeadForBase(fp.Base, c.BaseLength, c.KuhnLength)
		fixed[idx] = r3.Vec{X: fp.Position[0], Y: fp.Position[1], Z: fp.Position[2]}
	}
	return fixed
}

func (c *Config) mode() mcmc.FixedPointMode {
	if c.FixedPointMode == "reject" {
		return mcmc.FixedReject
	}
	return mcmc.FixedOverwrite
}

// Build validates the configuration and constructs a sampler. Recoverable
// diagnostics (currently only initial-coordinate truncation) come back as
// warning strings.
func (c *Config) Build() (*mcmc.Sampler, []string, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	n := c.beads()
	fixed := c.fixedPoints()

	var warnings []string
	var initial chain.Conformation
	if c.InitialCoordinates != nil {
		rows := c.InitialCoordinates
		if len(rows) > n {
			warnings = append(warnings,
				fmt.Sprintf("initial_coordinates has %d rows, truncated to %d beads", len(rows), n))
			rows = rows[:n]
		}
		initial = make(chain.Conformation, n)
		for i, row := range rows {
			initial[i] = r3.Vec{X: row[0], Y: row[1], Z: row[2]}
		}
	} else {
		initial = chain.StraightLine(n, c.KuhnLength)
		// Anchor the auto-generated line so a fixed first bead already
		// holds its assigned position.
		if p, ok := fixed[0]; ok {
			chain.Translate(initial, r3.Sub(p, initial[0]))
		}
	}

	model := physics.NewModel(c.Params(), c.Boundary, c.ForceFunction, c.InteractionFunction)
	return mcmc.New(model, initial, fixed, c.mode(), c.Seed), warnings, nil
}
