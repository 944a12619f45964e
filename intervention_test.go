package epirt

import "testing"

func TestInterventionAdvanceCrossesChangepoint(t *testing.T) {
	iv := NewIntervention(
		[]float64{1.0, 0.5},
		[][][]float64{{{1}}, {{2}}},
		[]float64{5.0},
	)
	if iv.ActiveIndex() != 0 {
		t.Fatalf(UnequalIntParameterError, "initial ActiveIndex", 0, iv.ActiveIndex())
	}
	if advanced := iv.Advance(4.0); advanced {
		t.Fatalf(UnexpectedErrorWhileError, "advancing before the changepoint", "stratum advanced early")
	}
	if advanced := iv.Advance(5.5); !advanced {
		t.Fatalf(ExpectedErrorWhileError, "advancing past the changepoint")
	}
	if iv.ActiveIndex() != 1 {
		t.Fatalf(UnequalIntParameterError, "ActiveIndex after crossing", 1, iv.ActiveIndex())
	}
	if got := iv.ActiveBeta(); got != 0.5 {
		t.Fatalf(UnequalFloatParameterError, "ActiveBeta after crossing", 0.5, got)
	}
}

func TestInterventionAdvanceStopsAtLastStratum(t *testing.T) {
	iv := NewIntervention([]float64{1.0}, [][][]float64{{{1}}}, nil)
	if advanced := iv.Advance(1000.0); advanced {
		t.Fatalf(UnexpectedErrorWhileError, "advancing the last stratum", "reported an advance with no further stratum")
	}
}
