package epirt

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// ContactStratum is one piecewise-constant (beta, C, until) block of
// spec.md §7's contact_parameters array. TEnd is a pointer because the
// last stratum must omit it (open-ended); every other stratum must set
// it, per Validate.
type ContactStratum struct {
	Beta float64     `json:"beta"`
	C    [][]float64 `json:"C"`
	TEnd *float64    `json:"t_end,omitempty"`
}

// InfectedStateConfig is one entry of the infected_states array.
type InfectedStateConfig struct {
	Name          string      `json:"name"`
	Infectious    bool        `json:"infectious"`
	MeanDuration  float64     `json:"mean_duration"`
	GammaShape    float64     `json:"gamma_shape"`
	NextStates    []string    `json:"next_states"`
	Probabilities [][]float64 `json:"probabilities,omitempty"`
}

// Config is the JSON configuration schema spec.md §7 defines, decoded
// directly with encoding/json (SPEC_FULL.md's ambient-stack decision:
// no BurntSushi/toml, unlike the teacher).
type Config struct {
	// RngSeed is a pointer because an explicit "rng_seed": 0 in the config
	// JSON is a valid, distinct seed from an absent field — the driver
	// must tell "seed 0" from "no seed given" apart, the same optionality
	// engine.go's individual.hasTInfected tracks for t_infected.
	RngSeed         *uint32 `json:"rng_seed,omitempty"`
	OutputPath      string  `json:"output_path,omitempty"`
	WriteToStdout   bool    `json:"write_to_stdout"`
	RecordAllEvents bool    `json:"record_all_events"`

	// NumReplicates is the number of independent runs the driver performs
	// from this one config, each with its own ksuid and (if output_path is
	// set) its own suffixed output file — the teacher's multi-instance
	// loop (bin/contagion/main.go's conf.NumInstances()) generalized from
	// "genotype realizations" to "epidemic realizations". Defaults to 1.
	NumReplicates int `json:"num_replicates,omitempty"`

	TInitial float64 `json:"t_initial"`
	// TFinal is a pointer for the same reason as RngSeed: an explicit
	// "t_final": 0 is a legal (if unusual) horizon meaning "stop
	// immediately" and must not collapse into the absent-field default
	// of +Inf.
	TFinal *float64 `json:"t_final,omitempty"`

	NAgeclasses int `json:"n_ageclasses"`

	SusceptibleState     string                `json:"susceptible_state"`
	InitialInfectedState string                `json:"initial_infected_state"`
	FinalStates          []string              `json:"final_states"`
	InfectedStates       []InfectedStateConfig `json:"infected_states"`

	ContactParameters []ContactStratum `json:"contact_parameters"`

	// InitialCounts[state][ageclass] is the starting population, 0-based
	// on both axes in the decoded form (spec.md §9's 1-based age classes
	// are a sink/display boundary only).
	InitialCounts map[string][]int64 `json:"initial_counts"`
}

// LoadConfig decodes and validates a Config from r.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	var consumed bytes.Buffer
	dec := json.NewDecoder(io.TeeReader(r, &consumed))
	if err := dec.Decode(&cfg); err != nil {
		switch typed := err.(type) {
		case *json.SyntaxError:
			line, column := positionOf(consumed.Bytes(), typed.Offset)
			return nil, &InputError{Kind: InvalidJSON, Category: "syntax error", Line: line, Column: column}
		case *json.UnmarshalTypeError:
			line, column := positionOf(consumed.Bytes(), typed.Offset)
			return nil, &InputError{Kind: InvalidJSON, Category: "type error", Line: line, Column: column}
		case *json.InvalidUnmarshalError:
			return nil, &InputError{Kind: InvalidJSON, Category: err.Error()}
		default:
			if err == io.ErrUnexpectedEOF {
				return nil, &InputError{Kind: InvalidJSON, Category: "unexpected end of json input"}
			}
			// Any other error surfacing from Decode originates in the
			// underlying io.Reader itself (a genuine read failure), not
			// in the shape of the JSON it managed to read.
			return nil, &InputError{Kind: InputReadFailure, Category: err.Error()}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &InputError{Kind: InvalidJSON, Category: err.Error()}
	}
	return &cfg, nil
}

// positionOf converts a byte offset reported by encoding/json into a
// 1-based line and column within data, the bytes the decoder has read;
// encoding/json does not expose line/column directly.
func positionOf(data []byte, offset int64) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, column = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line, column = line+1, 1
		} else {
			column++
		}
	}
	return line, column
}

// Validate enforces the structural invariants spec.md §7 states for the
// config schema: exactly one contact stratum may omit t_end (and it must
// be the last one), and every infected state with more than one
// successor must carry a probabilities row per age class.
func (c *Config) Validate() error {
	if c.NumReplicates == 0 {
		c.NumReplicates = 1
	}
	if c.NumReplicates < 0 {
		return errors.New("num_replicates must be positive")
	}
	if c.NAgeclasses <= 0 {
		return errors.New("n_ageclasses must be positive")
	}
	if c.SusceptibleState == "" {
		return errors.New("susceptible_state is required")
	}
	if len(c.InfectedStates) == 0 {
		return errors.New("infected_states must be non-empty")
	}
	if len(c.ContactParameters) == 0 {
		return errors.New("contact_parameters must be non-empty")
	}

	openEnded := 0
	for i, stratum := range c.ContactParameters {
		if stratum.TEnd == nil {
			openEnded++
		}
		if len(stratum.C) != c.NAgeclasses {
			return errors.Errorf("contact_parameters[%d].C must have n_ageclasses rows", i)
		}
		for _, row := range stratum.C {
			if len(row) != c.NAgeclasses {
				return errors.Errorf("contact_parameters[%d].C rows must have n_ageclasses columns", i)
			}
		}
	}
	if openEnded != 1 {
		return errors.Errorf("exactly one contact stratum must omit t_end, found %d", openEnded)
	}
	if c.ContactParameters[len(c.ContactParameters)-1].TEnd != nil {
		return errors.New("the last contact stratum must be the one that omits t_end")
	}

	for i, infected := range c.InfectedStates {
		if infected.Name == "" {
			return errors.Errorf("infected_states[%d].name is required", i)
		}
		if infected.MeanDuration <= 0 || infected.GammaShape <= 0 {
			return errors.Errorf("infected_states[%d] must have positive mean_duration and gamma_shape", i)
		}
		if len(infected.NextStates) == 0 {
			return errors.Errorf("infected_states[%d].next_states must be non-empty", i)
		}
		if len(infected.NextStates) > 1 {
			if len(infected.Probabilities) != c.NAgeclasses {
				return errors.Errorf("infected_states[%d].probabilities must have one row per age class", i)
			}
			for _, row := range infected.Probabilities {
				if len(row) != len(infected.NextStates) && len(row) != len(infected.NextStates)-1 {
					return errors.Errorf("infected_states[%d].probabilities rows must match next_states length", i)
				}
			}
		}
	}

	return nil
}
