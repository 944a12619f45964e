package epirt

// Intervention is the ordered sequence of (beta, C) strata and the
// changepoints between them (spec.md §4.8). len(TChange) == len(Beta)-1:
// the last stratum has no upper bound.
type Intervention struct {
	Beta    []float64
	C       [][][]float64
	TChange []float64

	activeIndex int
}

// NewIntervention builds an Intervention starting at stratum 0.
func NewIntervention(beta []float64, c [][][]float64, tChange []float64) *Intervention {
	return &Intervention{Beta: beta, C: c, TChange: tChange}
}

// ActiveIndex returns the currently active stratum index.
func (iv *Intervention) ActiveIndex() int {
	return iv.activeIndex
}

// ActiveBeta returns beta for the currently active stratum.
func (iv *Intervention) ActiveBeta() float64 {
	return iv.Beta[iv.activeIndex]
}

// ActiveC returns C for the currently active stratum.
func (iv *Intervention) ActiveC() [][]float64 {
	return iv.C[iv.activeIndex]
}

// Advance checks whether t has crossed the next changepoint and, if so,
// advances to the next stratum and returns true. The caller (Engine) is
// responsible for installing the new C into the ForceOfInfection and
// recomputing contact times when this returns true; Advance itself only
// tracks which stratum is active.
func (iv *Intervention) Advance(t float64) bool {
	if iv.activeIndex >= len(iv.C)-1 {
		return false
	}
	if t > iv.TChange[iv.activeIndex] {
		iv.activeIndex++
		return true
	}
	return false
}
