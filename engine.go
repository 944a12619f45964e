package epirt

import (
	"math"

	"github.com/pkg/errors"
)

// individual is the engine's private record of one live (non-final)
// person: which age class and state they occupy, and — for anyone
// infected after t=0 — the time they themselves were infected, which
// R_t's secondary-infection count needs when they go on to infect
// someone else (spec.md §4.3/§8).
type individual struct {
	id           int
	ageclass     int
	stateID      int
	tInfected    float64
	hasTInfected bool
}

// Engine is the single-threaded simulation core (spec.md §4.7): the
// state catalog, the dense Counts, the force-of-infection matrix, the
// event queue, and the live individuals, advanced one event at a time
// by Simulate. It is grounded directly on ibm.rs's Simulation struct
// and method set, generalized from that port's SQLite-only output to
// the abstract Sink interface.
type Engine struct {
	catalog *Catalog

	susceptibleStateID     int
	initialInfectedStateID int

	intervention *Intervention
	counts       *Counts
	foi          *ForceOfInfection

	t      float64
	nextID int

	individuals map[int]individual
	infectious  []*IndexedSet

	tContact  []float64
	queue     *EventQueue
	scheduler *Scheduler

	rng  *RNG
	sink Sink

	recordAllEvents bool
}

// NewEngine builds an Engine from a validated Config, its resolved
// Catalog, and the initial population matrix BuildCatalog produced. It
// opens the sink, seeds the initial infected individuals, and computes
// the first round of contact times — mirroring ibm.rs's Simulation::new.
func NewEngine(cfg *Config, cat *Catalog, initialCounts [][]int64, rng *RNG, sink Sink) (*Engine, error) {
	susceptibleID, _ := cat.ResolveID(cfg.SusceptibleState)
	initialInfectedID, _ := cat.ResolveID(cfg.InitialInfectedState)

	intervention, err := buildIntervention(cfg)
	if err != nil {
		return nil, err
	}

	nAge := cfg.NAgeclasses
	nStates := cat.NumStates()

	byAgeclassTotal := make([]float64, nAge)
	for state := range initialCounts {
		for a := 0; a < nAge; a++ {
			byAgeclassTotal[a] += float64(initialCounts[state][a])
		}
	}

	infectious := make([]*IndexedSet, nAge)
	for a := range infectious {
		infectious[a] = NewIndexedSet()
	}

	tContact := make([]float64, nAge)
	for a := range tContact {
		tContact[a] = math.Inf(1)
	}

	e := &Engine{
		catalog:                cat,
		susceptibleStateID:     susceptibleID,
		initialInfectedStateID: initialInfectedID,
		intervention:           intervention,
		counts:                 NewCounts(nStates, nAge),
		foi:                    NewForceOfInfection(intervention.ActiveC(), byAgeclassTotal),
		nextID:                 1,
		individuals:            make(map[int]individual),
		infectious:             infectious,
		tContact:               tContact,
		sink:                   sink,
		rng:                    rng,
		recordAllEvents:        cfg.RecordAllEvents,
	}
	e.queue = NewEventQueue()
	e.scheduler = NewScheduler(e.queue)

	if err := sink.Open(rng.Seed()); err != nil {
		return nil, errors.Wrap(err, "opening sink")
	}

	if err := e.initializeIndividuals(cat, initialCounts); err != nil {
		return nil, err
	}
	e.updateContact()

	return e, nil
}

// buildIntervention resolves a Config's contact_parameters array into
// an Intervention, unpacking the beta/C/t_end columns spec.md §7 names.
func buildIntervention(cfg *Config) (*Intervention, error) {
	n := len(cfg.ContactParameters)
	beta := make([]float64, n)
	c := make([][][]float64, n)
	tChange := make([]float64, 0, n-1)
	for i, stratum := range cfg.ContactParameters {
		beta[i] = stratum.Beta
		c[i] = stratum.C
		if stratum.TEnd != nil {
			tChange = append(tChange, *stratum.TEnd)
		}
	}
	if len(tChange) != n-1 {
		return nil, errors.New("internal: contact stratum changepoints do not match stratum count")
	}
	return NewIntervention(beta, c, tChange), nil
}

// T returns the current simulated time.
func (e *Engine) T() float64 {
	return e.t
}

// Counts exposes the live Counts table, for callers that need to read
// the state without going through the sink (e.g. the driver's
// write_to_stdout export).
func (e *Engine) Counts() *Counts {
	return e.counts
}

// Catalog returns the resolved state catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// initializeIndividuals seeds Counts for susceptible/final states
// directly from initialCounts, and synthesizes one individual per
// initial infected count — in catalog order, susceptible first, so
// ibm.rs's construction order is preserved exactly.
func (e *Engine) initializeIndividuals(cat *Catalog, initialCounts [][]int64) error {
	for _, state := range cat.States {
		switch {
		case state.IsSusceptible(), state.IsFinal():
			for a := 0; a < e.counts.NumAgeclasses(); a++ {
				e.counts.Increment(state.ID, a, initialCounts[state.ID][a])
			}
		case state.IsInfected():
			for a := 0; a < e.counts.NumAgeclasses(); a++ {
				for n := int64(0); n < initialCounts[state.ID][a]; n++ {
					if _, err := e.addIndividual(a, state, true); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// addIndividual synthesizes a new individual in ageclass occupying
// state, queues their next transition, and records the Individuals row
// when record_all_events is set. isInitial distinguishes the t=0 seed
// population (whose Counts increment is a plain add) from individuals
// created by a contact event (whose Counts change is a susceptible→
// infected transition) — ibm.rs's add_individual draws the same
// distinction.
func (e *Engine) addIndividual(ageclass int, state State, isInitial bool) (int, error) {
	id := e.nextID
	e.nextID++

	ind := individual{id: id, ageclass: ageclass, stateID: state.ID}
	if !isInitial {
		ind.tInfected = e.t
		ind.hasTInfected = true
	}
	e.individuals[id] = ind

	if e.recordAllEvents {
		if err := e.sink.Individuals(e.t, id, ageclass, state.Name); err != nil {
			return 0, errors.Wrap(err, "writing individual row")
		}
	}

	if state.IsInfectious() {
		e.infectious[ageclass].Add(id)
		e.foi.Increment(ageclass)
	}
	if err := e.insertTransitionEvent(state, id); err != nil {
		return 0, err
	}

	if isInitial {
		e.counts.Increment(state.ID, ageclass, 1)
	} else {
		e.counts.Transition(e.susceptibleStateID, state.ID, ageclass)
	}

	return id, nil
}

// insertTransitionEvent draws the sojourn time for state and queues the
// individual's next transition event.
func (e *Engine) insertTransitionEvent(state State, individualID int) error {
	t := e.drawTransitionTime(state)
	e.queue.Insert(t, individualID)
	return nil
}

// drawTransitionTime draws a Gamma(shape, mean/shape) sojourn offset
// from the current time for an infected state. state must be infected.
func (e *Engine) drawTransitionTime(state State) float64 {
	detail := state.Infected
	return e.t + e.rng.Gamma(detail.GammaShape, detail.MeanDuration/detail.GammaShape)
}

// susceptibleCount returns the live susceptible population in ageclass.
func (e *Engine) susceptibleCount(ageclass int) float64 {
	return float64(e.counts.Get(e.susceptibleStateID, ageclass))
}

// updateContact redraws every age class's next-contact time from the
// active beta, susceptible count, and force-of-infection row sum —
// ibm.rs's update_contact, called after every applied event since each
// one can change S, I, or both.
func (e *Engine) updateContact() {
	beta := e.intervention.ActiveBeta()
	for a := 0; a < len(e.tContact); a++ {
		rate := beta * e.susceptibleCount(a) * e.foi.RowSum(a)
		e.tContact[a] = e.t + e.rng.Exponential(rate)
	}
}

// Simulate advances the engine event by event until no event remains at
// or before tUntil, then snaps t to tUntil. It returns true once both
// the contact and transition clocks have gone permanently to +Inf (the
// epidemic has burned out with no one left to transition or infect),
// mirroring ibm.rs's simulate/done flag.
func (e *Engine) Simulate(tUntil float64) (bool, error) {
	for e.t < tUntil {
		tContact, ageclass, _ := e.scheduler.NextContact(e.tContact)
		tTransition := e.scheduler.NextTransition()

		if math.IsInf(tContact, 1) && math.IsInf(tTransition, 1) {
			e.t = tUntil
			return true, nil
		}

		foundEvent := false
		if tContact < tTransition {
			if tContact <= tUntil {
				if err := e.doContactEvent(tContact, ageclass); err != nil {
					return false, err
				}
				foundEvent = true
			}
		} else if !math.IsInf(tTransition, 1) && tTransition <= tUntil {
			t, id, _ := e.queue.PopMin()
			if err := e.doTransitionEvent(t, id); err != nil {
				return false, err
			}
			foundEvent = true
		}

		if !foundEvent {
			e.t = tUntil
		}

		if e.intervention.Advance(e.t) {
			e.foi.SetC(e.intervention.ActiveC())
			e.updateContact()
		}
	}
	return false, nil
}

// doContactEvent applies a contact event at time t in ageclass: a
// transmitter is drawn proportional to the force-of-infection row, a
// new infected individual is synthesized, the R_t sufficient
// statistics are updated, and the contact clock is redrawn — ibm.rs's
// do_contact_event.
func (e *Engine) doContactEvent(t float64, ageclass int) error {
	e.t = t

	cdf := e.foi.RowCDF(ageclass)
	transmitterAgeclass := e.rng.Categorical(e.foi.NAgeclasses(), cdf)
	transmitterID := e.infectious[transmitterAgeclass].Sample(e.rng)
	transmitter := e.individuals[transmitterID]

	newState := e.catalog.States[e.initialInfectedStateID]
	infectedID, err := e.addIndividual(ageclass, newState, false)
	if err != nil {
		return err
	}

	if e.recordAllEvents {
		if err := e.sink.Infections(e.t, infectedID, transmitterID); err != nil {
			return errors.Wrap(err, "writing infection row")
		}
		susceptibleName := e.catalog.States[e.susceptibleStateID].Name
		if err := e.sink.Transitions(e.t, infectedID, susceptibleName, newState.Name); err != nil {
			return errors.Wrap(err, "writing transition row")
		}
	}

	tDiscretePresent := int64(math.Ceil(e.t))
	if err := e.sink.UpsertRtStats(tDiscretePresent, 1, 0); err != nil {
		return errors.Wrap(err, "updating rt stats (primary)")
	}
	if transmitter.hasTInfected {
		tDiscretePast := int64(math.Ceil(transmitter.tInfected))
		if err := e.sink.UpsertRtStats(tDiscretePast, 0, 1); err != nil {
			return errors.Wrap(err, "updating rt stats (secondary)")
		}
	}

	e.updateContact()
	return nil
}

// doTransitionEvent applies a queued transition at time t for
// individual id: the next state is drawn from the current state's
// age-specific categorical law, Counts and the infectious roster are
// updated, and — unless the new state is final — the individual is
// requeued for their next transition. ibm.rs's do_transition_event.
func (e *Engine) doTransitionEvent(t float64, id int) error {
	e.t = t

	ind := e.individuals[id]
	lastState := e.catalog.States[ind.stateID]
	detail := lastState.Infected

	choice := e.rng.Categorical(len(detail.NextStateIDs), detail.TransitionCDFs[ind.ageclass])
	nextStateID := detail.NextStateIDs[choice]
	nextState := e.catalog.States[nextStateID]

	e.counts.Transition(lastState.ID, nextState.ID, ind.ageclass)

	switch {
	case !lastState.IsInfectious() && nextState.IsInfectious():
		e.infectious[ind.ageclass].Add(id)
		e.foi.Increment(ind.ageclass)
	case lastState.IsInfectious() && !nextState.IsInfectious():
		e.infectious[ind.ageclass].Remove(id)
		e.foi.Decrement(ind.ageclass)
	}

	if nextState.IsFinal() {
		delete(e.individuals, id)
	} else {
		ind.stateID = nextState.ID
		e.individuals[id] = ind
		if err := e.insertTransitionEvent(nextState, id); err != nil {
			return err
		}
	}

	if e.recordAllEvents {
		if err := e.sink.Transitions(e.t, id, lastState.Name, nextState.Name); err != nil {
			return errors.Wrap(err, "writing transition row")
		}
	}

	e.updateContact()
	return nil
}

// WriteCounts emits one Counts row per (state, ageclass) pair at the
// current time, with ageclass reported 1-based per spec.md §9.
func (e *Engine) WriteCounts() error {
	for _, state := range e.catalog.States {
		for a := 0; a < e.counts.NumAgeclasses(); a++ {
			count := e.counts.Get(state.ID, a)
			if err := e.sink.Counts(e.t, state.Name, a+1, count); err != nil {
				return errors.Wrap(err, "writing counts row")
			}
		}
	}
	return nil
}
