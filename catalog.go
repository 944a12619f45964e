package epirt

import "github.com/pkg/errors"

// Catalog resolves the state names a Config uses into the dense integer
// ids the engine operates on, mirroring sirsim.rs's parse_states /
// parse_initial_counts / parse_contact_parameters name-to-index pass.
// State ids are assigned susceptible first, then final states in
// declaration order, then infected states in declaration order.
type Catalog struct {
	States []State
	byName map[string]int
}

// BuildCatalog constructs the State catalog and initial population
// matrix from a validated Config.
func BuildCatalog(cfg *Config) (*Catalog, [][]int64, error) {
	cat := &Catalog{byName: make(map[string]int)}

	cat.declare(NewSusceptibleState(0, cfg.SusceptibleState))

	for _, name := range cfg.FinalStates {
		if _, exists := cat.byName[name]; exists {
			return nil, nil, errors.Errorf("duplicate state name %q", name)
		}
		cat.declare(NewFinalState(len(cat.States), name))
	}

	type pending struct {
		cfg InfectedStateConfig
		id  int
	}
	pendings := make([]pending, 0, len(cfg.InfectedStates))
	for _, infected := range cfg.InfectedStates {
		if _, exists := cat.byName[infected.Name]; exists {
			return nil, nil, errors.Errorf("duplicate state name %q", infected.Name)
		}
		id := len(cat.States)
		cat.declare(State{ID: id, Name: infected.Name, Variant: Infected})
		pendings = append(pendings, pending{cfg: infected, id: id})
	}

	// Second pass: next_states references may point forward, so resolve
	// NextStateIDs only after every name has an id.
	for _, p := range pendings {
		nextIDs := make([]int, len(p.cfg.NextStates))
		for i, name := range p.cfg.NextStates {
			id, ok := cat.byName[name]
			if !ok {
				return nil, nil, errors.Errorf("infected state %q: unknown next state %q", p.cfg.Name, name)
			}
			nextIDs[i] = id
		}
		cdfs := make([][]float64, cfg.NAgeclasses)
		if len(p.cfg.NextStates) == 1 {
			for a := range cdfs {
				cdfs[a] = nil
			}
		} else {
			for a, row := range p.cfg.Probabilities {
				if len(row) == len(p.cfg.NextStates)-1 {
					// The last successor's probability is implicit: keep the
					// remaining mass for it instead of normalising it away.
					cdfs[a] = cumulativeSum(row)
				} else {
					cdfs[a] = WeightsToCDF(row)
				}
			}
		}
		cat.States[p.id].Infected = &InfectedDetail{
			Infectious:     p.cfg.Infectious,
			MeanDuration:   p.cfg.MeanDuration,
			GammaShape:     p.cfg.GammaShape,
			NextStateIDs:   nextIDs,
			TransitionCDFs: cdfs,
		}
	}

	initialInfectedID, ok := cat.byName[cfg.InitialInfectedState]
	if !ok {
		return nil, nil, errors.Errorf("initial_infected_state %q is not a declared infected state", cfg.InitialInfectedState)
	}
	if cat.States[initialInfectedID].Variant != Infected {
		return nil, nil, errors.Errorf("initial_infected_state %q must be an infected state", cfg.InitialInfectedState)
	}

	counts := make([][]int64, len(cat.States))
	for i := range counts {
		counts[i] = make([]int64, cfg.NAgeclasses)
	}
	for name, byAge := range cfg.InitialCounts {
		id, ok := cat.byName[name]
		if !ok {
			return nil, nil, errors.Errorf("initial_counts references unknown state %q", name)
		}
		if len(byAge) != cfg.NAgeclasses {
			return nil, nil, errors.Errorf("initial_counts[%q] must have n_ageclasses entries", name)
		}
		copy(counts[id], byAge)
	}

	return cat, counts, nil
}

func (c *Catalog) declare(s State) int {
	c.States = append(c.States, s)
	c.byName[s.Name] = s.ID
	return s.ID
}

// ResolveID returns the id for a state name.
func (c *Catalog) ResolveID(name string) (int, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// SusceptibleID returns the id of the (unique) susceptible state.
func (c *Catalog) SusceptibleID() int {
	return 0
}

// NumStates returns the number of catalog entries.
func (c *Catalog) NumStates() int {
	return len(c.States)
}
