package epirt

// Variant distinguishes the three kinds of State spec.md §3 describes.
type Variant int

const (
	// Susceptible marks the single susceptible state.
	Susceptible Variant = iota
	// Final marks an absorbing state: no outgoing transitions, and
	// individuals in it are counted but not tracked as entities.
	Final
	// Infected marks a state with a sojourn-time distribution and one
	// or more successor states.
	Infected
)

// InfectedDetail carries the fields that only apply to Infected states:
// whether the state is infectious, its Gamma sojourn-time parameters,
// and its (possibly age-stratified) transition law.
type InfectedDetail struct {
	Infectious bool

	// MeanDuration and GammaShape parameterize Gamma(shape=GammaShape,
	// scale=MeanDuration/GammaShape). Both must be strictly positive.
	MeanDuration float64
	GammaShape   float64

	// NextStateIDs is the ordered list of possible successor states,
	// at least one entry long.
	NextStateIDs []int

	// TransitionCDFs[a] is the categorical CDF over NextStateIDs for age
	// class a: length len(NextStateIDs)-1 or len(NextStateIDs), per
	// RNG.Categorical's convention.
	TransitionCDFs [][]float64
}

// State is the immutable descriptor for one compartment: its id, display
// name, and variant-specific detail (spec.md §3).
type State struct {
	ID      int
	Name    string
	Variant Variant

	// Infected is non-nil iff Variant == Infected.
	Infected *InfectedDetail
}

// NewSusceptibleState creates the (unique) susceptible state.
func NewSusceptibleState(id int, name string) State {
	return State{ID: id, Name: name, Variant: Susceptible}
}

// NewFinalState creates an absorbing state.
func NewFinalState(id int, name string) State {
	return State{ID: id, Name: name, Variant: Final}
}

// NewInfectedState creates an infected state from its detail.
func NewInfectedState(id int, name string, detail InfectedDetail) State {
	return State{ID: id, Name: name, Variant: Infected, Infected: &detail}
}

// IsSusceptible reports whether this is the susceptible state.
func (s State) IsSusceptible() bool { return s.Variant == Susceptible }

// IsFinal reports whether this is an absorbing state.
func (s State) IsFinal() bool { return s.Variant == Final }

// IsInfected reports whether this is an infected state.
func (s State) IsInfected() bool { return s.Variant == Infected }

// IsInfectious reports whether individuals in this state transmit.
func (s State) IsInfectious() bool {
	return s.Variant == Infected && s.Infected.Infectious
}
