package epirt

// sampleSIConfig builds a minimal two-age-class SI configuration: one
// susceptible state, one infectious state whose only successor is the
// final state "Final" after a very long mean duration (so in practice no
// recovery), and a single unchanging contact stratum.
// Mirrors the teacher's mocks.go sample* constructor convention.
func sampleSIConfig() *Config {
	seed := uint32(1)
	return &Config{
		RngSeed:              &seed,
		RecordAllEvents:      false,
		NAgeclasses:          2,
		NumReplicates:        1,
		SusceptibleState:     "S",
		InitialInfectedState: "I",
		FinalStates:          []string{"Final"},
		InfectedStates: []InfectedStateConfig{
			{
				Name:         "I",
				Infectious:   true,
				MeanDuration: 1e9, // effectively permanent for a pure-SI scenario
				GammaShape:   2,
				NextStates:   []string{"Final"},
			},
		},
		ContactParameters: []ContactStratum{
			{
				Beta: 0.5,
				C:    [][]float64{{1, 0.2}, {0.2, 1}},
			},
		},
		InitialCounts: map[string][]int64{
			"S": {99, 99},
			"I": {1, 0},
		},
	}
}

// sampleSIRConfig builds a minimal two-age-class SIR configuration with
// a single final (recovered) state and a two-stratum intervention.
func sampleSIRConfig() *Config {
	tEnd := 5.0
	seed := uint32(7)
	return &Config{
		RngSeed:              &seed,
		RecordAllEvents:      true,
		NAgeclasses:          1,
		NumReplicates:        1,
		SusceptibleState:     "S",
		InitialInfectedState: "I",
		FinalStates:          []string{"R"},
		InfectedStates: []InfectedStateConfig{
			{
				Name:         "I",
				Infectious:   true,
				MeanDuration: 3,
				GammaShape:   2,
				NextStates:   []string{"R"},
			},
		},
		ContactParameters: []ContactStratum{
			{Beta: 0.8, C: [][]float64{{1}}, TEnd: &tEnd},
			{Beta: 0.1, C: [][]float64{{1}}},
		},
		InitialCounts: map[string][]int64{
			"S": {999},
			"I": {1},
			"R": {0},
		},
	}
}

// sampleCatalogAndCounts resolves sampleSIConfig into a Catalog and
// initial counts matrix, panicking on error since the fixture is known
// valid.
func sampleCatalogAndCounts() (*Config, *Catalog, [][]int64) {
	cfg := sampleSIConfig()
	cat, counts, err := BuildCatalog(cfg)
	if err != nil {
		panic(err)
	}
	return cfg, cat, counts
}

// sampleEngine builds a ready-to-run Engine over sampleSIConfig with a
// MemorySink, for scenario and invariant tests.
func sampleEngine(seed uint32) (*Engine, *MemorySink) {
	cfg, cat, counts := sampleCatalogAndCounts()
	cfg.RngSeed = &seed
	sink := NewMemorySink()
	rng := NewRNG(seed)
	engine, err := NewEngine(cfg, cat, counts, rng, sink)
	if err != nil {
		panic(err)
	}
	return engine, sink
}
