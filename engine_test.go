package epirt

import "testing"

func TestEngineEmptyEpidemicNeverMoves(t *testing.T) {
	cfg := sampleSIConfig()
	cfg.InitialCounts["I"] = []int64{0, 0}
	cat, counts, err := BuildCatalog(cfg)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "building catalog", err)
	}
	sink := NewMemorySink()
	engine, err := NewEngine(cfg, cat, counts, NewRNG(1), sink)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "constructing engine", err)
	}

	done, err := engine.Simulate(100)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "simulating an epidemic with no initial infecteds", err)
	}
	if !done {
		t.Fatalf(ExpectedErrorWhileError, "simulating with no infectious individuals and no pending transitions")
	}
	sID, _ := cat.ResolveID("S")
	if got := engine.Counts().TotalForState(sID); got != 198 {
		t.Fatalf(UnequalIntParameterError, "susceptible total after an empty run", 198, int(got))
	}
}

func TestEngineConservesTotalPopulation(t *testing.T) {
	engine, _ := sampleEngine(123)
	before := engine.Counts().Total()

	if _, err := engine.Simulate(20); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "simulating", err)
	}

	if got := engine.Counts().Total(); got != before {
		t.Fatalf(UnequalIntParameterError, "Total population across the run", int(before), int(got))
	}
}

func TestEngineRunIsDeterministicGivenSeed(t *testing.T) {
	run := func() int64 {
		engine, _ := sampleEngine(99)
		if _, err := engine.Simulate(30); err != nil {
			t.Fatalf(UnexpectedErrorWhileError, "simulating", err)
		}
		sID, _ := engine.Catalog().ResolveID("S")
		return engine.Counts().TotalForState(sID)
	}
	first := run()
	second := run()
	if first != second {
		t.Fatalf(UnequalIntParameterError, "final susceptible count across two identically-seeded runs", int(first), int(second))
	}
}

func TestEngineFinalStateAbsorbsIndividuals(t *testing.T) {
	cfg := sampleSIRConfig()
	cat, counts, err := BuildCatalog(cfg)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "building catalog", err)
	}
	sink := NewMemorySink()
	engine, err := NewEngine(cfg, cat, counts, NewRNG(5), sink)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "constructing engine", err)
	}

	if _, err := engine.Simulate(50); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "simulating", err)
	}

	rID, _ := cat.ResolveID("R")
	if engine.Counts().TotalForState(rID) == 0 {
		t.Fatalf(ExpectedErrorWhileError, "at least one individual reaching the final state over 50 time units")
	}
}

func TestEngineInterventionChangepointAdvancesStratum(t *testing.T) {
	cfg := sampleSIRConfig()
	cat, counts, err := BuildCatalog(cfg)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "building catalog", err)
	}
	sink := NewMemorySink()
	engine, err := NewEngine(cfg, cat, counts, NewRNG(5), sink)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "constructing engine", err)
	}

	if _, err := engine.Simulate(6); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "simulating past the changepoint at t=5", err)
	}
	if engine.intervention.ActiveIndex() != 1 {
		t.Fatalf(UnequalIntParameterError, "active intervention stratum after t=6", 1, engine.intervention.ActiveIndex())
	}
}

func TestEngineRtStatsRecordPrimaryInfections(t *testing.T) {
	engine, sink := sampleEngine(11)
	if _, err := engine.Simulate(15); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "simulating", err)
	}
	if len(sink.RtStats) == 0 {
		t.Fatalf(ExpectedErrorWhileError, "recording any R_t sufficient statistics over a run with transmission")
	}
	for _, row := range sink.RtStats {
		if row.NPrimary < 0 || row.NSecondary < 0 {
			t.Fatalf(UnexpectedErrorWhileError, "checking R_t row signs", "negative count")
		}
	}
}
