package epirt

// Counts is a dense (state, age class) tally with marginals maintained
// in step, per spec.md §4.3. The invariant the rest of the engine leans
// on is that n_total and the by-state/by-age marginals always equal the
// corresponding sums over the dense matrix.
type Counts struct {
	nStates     int
	nAgeclasses int

	matrix   [][]int64
	total    int64
	byState  []int64
	byAgecls []int64
}

// NewCounts creates a zeroed Counts over nStates states and nAgeclasses
// age classes.
func NewCounts(nStates, nAgeclasses int) *Counts {
	matrix := make([][]int64, nStates)
	for s := range matrix {
		matrix[s] = make([]int64, nAgeclasses)
	}
	return &Counts{
		nStates:     nStates,
		nAgeclasses: nAgeclasses,
		matrix:      matrix,
		byState:     make([]int64, nStates),
		byAgecls:    make([]int64, nAgeclasses),
	}
}

// Get returns n[state][ageclass].
func (c *Counts) Get(state, ageclass int) int64 {
	return c.matrix[state][ageclass]
}

// Increment adds delta to n[state][ageclass] and all marginals.
func (c *Counts) Increment(state, ageclass int, delta int64) {
	c.matrix[state][ageclass] += delta
	c.total += delta
	c.byState[state] += delta
	c.byAgecls[ageclass] += delta
}

// Decrement subtracts delta from n[state][ageclass] and all marginals.
func (c *Counts) Decrement(state, ageclass int, delta int64) {
	c.matrix[state][ageclass] -= delta
	c.total -= delta
	c.byState[state] -= delta
	c.byAgecls[ageclass] -= delta
}

// Transition moves one individual from fromState to toState within the
// same age class. The grand total is unchanged; only the by-state
// marginal shifts.
func (c *Counts) Transition(fromState, toState, ageclass int) {
	c.matrix[fromState][ageclass]--
	c.matrix[toState][ageclass]++
	c.byState[fromState]--
	c.byState[toState]++
}

// Total returns n_total.
func (c *Counts) Total() int64 {
	return c.total
}

// TotalForState returns n_by_state[state].
func (c *Counts) TotalForState(state int) int64 {
	return c.byState[state]
}

// TotalForAgeclass returns n_by_age[ageclass].
func (c *Counts) TotalForAgeclass(ageclass int) int64 {
	return c.byAgecls[ageclass]
}

// NumStates returns the number of tracked states.
func (c *Counts) NumStates() int {
	return c.nStates
}

// NumAgeclasses returns the number of age classes.
func (c *Counts) NumAgeclasses() int {
	return c.nAgeclasses
}
