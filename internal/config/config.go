// Package config loads and validates annealing problem files.
//
// A problem file is YAML. It names the number of groups, the cooling
// ratio, the annealing Policy and exactly one distance source:
//
//	groups: 2
//	ratio: 0.73
//	seed: 1
//	jitter: 0.1
//	policy:
//	  tolerance: 1e-6
//	  cooling_steps: 20
//	  max_inner_steps: 100000
//	  degeneracy_tol: 1e-12
//	  max_retries: 3
//	  retry_ratio: 0.9
//	distances:
//	  upper: [[0, 2.1, 0.1], [0, 0, 0.92], [0, 0, 0]]
//
// Struct tags are checked with go-playground/validator; cross-field rules
// (exactly one distance source, a non-zero jitter unless initial is given)
// are registered as struct-level validations.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalid wraps every validation failure of a problem file.
	ErrInvalid = errors.New("config: invalid problem")

	// ErrEmpty indicates a file with no YAML document.
	ErrEmpty = errors.New("config: empty problem file")
)

// Problem is one annealing problem as read from YAML.
type Problem struct {
	Name        string        `yaml:"name"`
	Groups      int           `yaml:"groups" validate:"gte=2"`
	Ratio       float64       `yaml:"ratio" validate:"gt=0,lt=1"`
	Temperature float64       `yaml:"temperature" validate:"gte=0"`
	Potential   string        `yaml:"potential" validate:"omitempty,oneof=mean exact"`
	Seed        int64         `yaml:"seed"`
	Jitter      float64       `yaml:"jitter" validate:"gte=0"`
	Initial     [][]float64   `yaml:"initial" validate:"omitempty,dive,min=2"`
	Labels      []string      `yaml:"labels" validate:"omitempty,dive,required"`
	Policy      PolicyConfig  `yaml:"policy"`
	Distances   DistanceInput `yaml:"distances"`
}

// PolicyConfig mirrors runner.Policy. Every field is explicit.
type PolicyConfig struct {
	Tolerance     float64 `yaml:"tolerance" validate:"gt=0"`
	CoolingSteps  int     `yaml:"cooling_steps" validate:"gte=0"`
	MaxInnerSteps int     `yaml:"max_inner_steps" validate:"gte=1"`
	DegeneracyTol float64 `yaml:"degeneracy_tol" validate:"gte=0,lt=0.5"`
	MaxRetries    int     `yaml:"max_retries" validate:"gte=0"`
	RetryRatio    float64 `yaml:"retry_ratio" validate:"gt=0,lt=1"`
}

// DistanceInput holds exactly one distance source.
type DistanceInput struct {
	Full    [][]float64   `yaml:"full"`
	Upper   [][]float64   `yaml:"upper"`
	Vectors *VectorSource `yaml:"vectors"`
	Series  *SeriesSource `yaml:"series"`
	Edges   *EdgeSource   `yaml:"edges"`
}

// VectorSource is a set of points compared under a metric.
type VectorSource struct {
	Points [][]float64 `yaml:"points" validate:"required,min=1"`
	Metric string      `yaml:"metric" validate:"omitempty,oneof=euclidean sqeuclidean manhattan cosine"`
}

// SeriesSource is a set of time series compared by Dynamic Time Warping.
type SeriesSource struct {
	Data         [][]float64 `yaml:"data" validate:"required,min=1,dive,min=1"`
	Window       int         `yaml:"window"`
	SlopePenalty float64     `yaml:"slope_penalty" validate:"gte=0"`
	Workers      int         `yaml:"workers" validate:"gte=0"`
}

// EdgeSource is an undirected weighted graph compared by shortest paths.
type EdgeSource struct {
	Nodes int          `yaml:"nodes" validate:"gte=1"`
	List  []EdgeConfig `yaml:"list" validate:"dive"`
}

// EdgeConfig is one undirected edge.
type EdgeConfig struct {
	U int     `yaml:"u" validate:"gte=0"`
	V int     `yaml:"v" validate:"gte=0"`
	W float64 `yaml:"w" validate:"gte=0"`
}

// problemValidate is the validator instance for problem files.
// Initialized in init() with struct-level rules.
var problemValidate *validator.Validate

func init() {
	problemValidate = validator.New()
	problemValidate.RegisterStructValidation(validateDistanceInput, DistanceInput{})
	problemValidate.RegisterStructValidation(validateProblem, Problem{})
}

// validateDistanceInput enforces exactly one distance source.
func validateDistanceInput(sl validator.StructLevel) {
	d := sl.Current().Interface().(DistanceInput)
	if d.sources() != 1 {
		sl.ReportError(d, "Distances", "Distances", "one_source", "")
	}
}

// validateProblem checks fields whose bounds depend on each other.
func validateProblem(sl validator.StructLevel) {
	p := sl.Current().Interface().(Problem)
	if p.Groups > 0 && p.Jitter >= 2/float64(p.Groups) {
		sl.ReportError(p.Jitter, "Jitter", "Jitter", "lt_two_over_groups", "")
	}
	// A uniform start is a fixed point of the update and never splits.
	if p.Initial == nil && p.Jitter == 0 {
		sl.ReportError(p.Jitter, "Jitter", "Jitter", "required_without_initial", "")
	}
	for _, row := range p.Initial {
		if len(row) != p.Groups {
			sl.ReportError(p.Initial, "Initial", "Initial", "groups_wide", "")
			break
		}
	}
}

func (d DistanceInput) sources() int {
	n := 0
	if d.Full != nil {
		n++
	}
	if d.Upper != nil {
		n++
	}
	if d.Vectors != nil {
		n++
	}
	if d.Series != nil {
		n++
	}
	if d.Edges != nil {
		n++
	}

	return n
}

// Validate checks p against its struct tags and cross-field rules.
// Failures wrap ErrInvalid and validator.ValidationErrors.
func (p *Problem) Validate() error {
	if err := problemValidate.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// Load reads and validates the problem file at path.
func Load(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load problem: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load problem %s: %w", path, err)
	}

	return p, nil
}

// Parse decodes one YAML document and validates it. Unknown keys are errors.
func Parse(data []byte) (*Problem, error) {
	var p Problem
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("parse problem: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}
