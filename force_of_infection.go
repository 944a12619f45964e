package epirt

// ForceOfInfection maintains M[a,b] = C[a,b]*I[b]/N[b] and the row
// sums/CDFs derived from it (spec.md §3, §4.4). N is fixed for the run
// at the initial per-age-class population total — see DESIGN.md's open
// question #2 for the closed-population assumption this encodes.
type ForceOfInfection struct {
	c [][]float64
	i []float64
	n []float64
}

// NewForceOfInfection builds the FOI matrix from an initial contact
// matrix C, zeroed infectious counts, and the fixed age-class
// denominators N.
func NewForceOfInfection(c [][]float64, n []float64) *ForceOfInfection {
	return &ForceOfInfection{
		c: c,
		i: make([]float64, len(n)),
		n: append([]float64(nil), n...),
	}
}

// NAgeclasses returns the number of age classes.
func (f *ForceOfInfection) NAgeclasses() int {
	return len(f.c)
}

// SetC swaps in a new contact matrix — an intervention changepoint. I
// and N are left untouched.
func (f *ForceOfInfection) SetC(c [][]float64) {
	f.c = c
}

// Increment bumps I[ageclass] by one (an individual became infectious).
func (f *ForceOfInfection) Increment(ageclass int) {
	f.i[ageclass]++
}

// Decrement drops I[ageclass] by one (an individual stopped being
// infectious).
func (f *ForceOfInfection) Decrement(ageclass int) {
	f.i[ageclass]--
}

// value returns C[row][col]*I[col]/N[col].
func (f *ForceOfInfection) value(row, col int) float64 {
	return f.c[row][col] * f.i[col] / f.n[col]
}

// Row returns [value(ageclass, 0), ..., value(ageclass, A-1)].
func (f *ForceOfInfection) Row(ageclass int) []float64 {
	row := make([]float64, f.NAgeclasses())
	for col := range row {
		row[col] = f.value(ageclass, col)
	}
	return row
}

// RowSum returns sum_b M[ageclass, b].
func (f *ForceOfInfection) RowSum(ageclass int) float64 {
	var sum float64
	for _, v := range f.Row(ageclass) {
		sum += v
	}
	return sum
}

// RowCDF returns the normalized cumulative distribution of Row(ageclass),
// suitable for RNG.Categorical. The caller must not call this when
// RowSum(ageclass) is zero: an all-zero row has no well-defined CDF, and
// the engine never reaches this call in that case because a zero row
// sum drives the contact rate to zero and t_contact[ageclass] to +Inf.
func (f *ForceOfInfection) RowCDF(ageclass int) []float64 {
	return WeightsToCDF(f.Row(ageclass))
}
