package epirt

import (
	"math"
	"testing"
)

func TestForceOfInfectionValueAndRowSum(t *testing.T) {
	c := [][]float64{{2, 1}, {1, 2}}
	n := []float64{100, 200}
	f := NewForceOfInfection(c, n)

	f.Increment(0) // I[0] = 1
	f.Increment(1)
	f.Increment(1) // I[1] = 2

	// M[0,0] = C[0][0]*I[0]/N[0] = 2*1/100 = 0.02
	// M[0,1] = C[0][1]*I[1]/N[1] = 1*2/200 = 0.01
	row := f.Row(0)
	if math.Abs(row[0]-0.02) > 1e-12 {
		t.Fatalf(UnequalFloatParameterError, "M[0,0]", 0.02, row[0])
	}
	if math.Abs(row[1]-0.01) > 1e-12 {
		t.Fatalf(UnequalFloatParameterError, "M[0,1]", 0.01, row[1])
	}
	if got := f.RowSum(0); math.Abs(got-0.03) > 1e-12 {
		t.Fatalf(UnequalFloatParameterError, "RowSum(0)", 0.03, got)
	}
}

func TestForceOfInfectionDecrementAndSetC(t *testing.T) {
	c := [][]float64{{1}}
	n := []float64{10}
	f := NewForceOfInfection(c, n)
	f.Increment(0)
	f.Increment(0)
	f.Decrement(0)
	if got := f.Row(0)[0]; math.Abs(got-0.1) > 1e-12 {
		t.Fatalf(UnequalFloatParameterError, "M[0,0] after increment/decrement", 0.1, got)
	}

	f.SetC([][]float64{{5}})
	if got := f.Row(0)[0]; math.Abs(got-0.5) > 1e-12 {
		t.Fatalf(UnequalFloatParameterError, "M[0,0] after SetC", 0.5, got)
	}
}

func TestForceOfInfectionRowCDFNormalizes(t *testing.T) {
	c := [][]float64{{1, 1}, {1, 1}}
	n := []float64{10, 10}
	f := NewForceOfInfection(c, n)
	f.Increment(0)
	f.Increment(1)

	cdf := f.RowCDF(0)
	if math.Abs(cdf[len(cdf)-1]-1.0) > 1e-9 {
		t.Fatalf(UnequalFloatParameterError, "final RowCDF entry", 1.0, cdf[len(cdf)-1])
	}
}
