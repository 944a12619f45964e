package epirt

// MemorySink is the in-memory tabular store spec.md §6 names as the
// alternative to an on-disk file when output_path is absent. It holds
// each table as a slice of rows plus an index for the RtSufficientStatistics
// upsert-by-key table, mirroring the shape of the SQLite-backed sink
// without a database dependency.
type MemorySink struct {
	Seed uint32
	Meta []MetaRow

	IndividualRows []IndividualRow
	InfectionRows  []InfectionRow
	TransitionRows []TransitionRow
	CountRows      []CountRow
	RtStats        []RtStatRow
	rtIndexByTime  map[int64]int
}

// IndividualRow is one row of the Individuals table.
type IndividualRow struct {
	Time      float64
	ID        int
	Ageclass  int
	StateName string
}

// InfectionRow is one row of the Infections table.
type InfectionRow struct {
	Time          float64
	InfectedID    int
	TransmitterID int
}

// TransitionRow is one row of the Transitions table.
type TransitionRow struct {
	Time       float64
	ID         int
	StartState string
	EndState   string
}

// CountRow is one row of the Counts table. Ageclass is 1-based.
type CountRow struct {
	Time      float64
	StateName string
	Ageclass  int
	Count     int64
}

// RtStatRow is one row of the RtSufficientStatistics table.
type RtStatRow struct {
	TimeDiscrete int64
	NPrimary     int64
	NSecondary   int64
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{rtIndexByTime: make(map[int64]int)}
}

// Open records the run's seed. Opening an in-memory sink has no
// tables/files to create.
func (m *MemorySink) Open(seed uint32) error {
	m.Seed = seed
	return nil
}

// Individuals appends an Individuals row.
func (m *MemorySink) Individuals(time float64, id int, ageclass int, stateName string) error {
	m.IndividualRows = append(m.IndividualRows, IndividualRow{time, id, ageclass, stateName})
	return nil
}

// Infections appends an Infections row.
func (m *MemorySink) Infections(time float64, infectedID, transmitterID int) error {
	m.InfectionRows = append(m.InfectionRows, InfectionRow{time, infectedID, transmitterID})
	return nil
}

// Transitions appends a Transitions row.
func (m *MemorySink) Transitions(time float64, id int, startState, endState string) error {
	m.TransitionRows = append(m.TransitionRows, TransitionRow{time, id, startState, endState})
	return nil
}

// Counts appends a Counts row.
func (m *MemorySink) Counts(time float64, stateName string, ageclass1Based int, count int64) error {
	m.CountRows = append(m.CountRows, CountRow{time, stateName, ageclass1Based, count})
	return nil
}

// UpsertRtStats inserts a zeroed row for timeDiscrete if one does not yet
// exist, then applies the deltas.
func (m *MemorySink) UpsertRtStats(timeDiscrete int64, nPrimaryDelta, nSecondaryDelta int64) error {
	i, exists := m.rtIndexByTime[timeDiscrete]
	if !exists {
		i = len(m.RtStats)
		m.RtStats = append(m.RtStats, RtStatRow{TimeDiscrete: timeDiscrete})
		m.rtIndexByTime[timeDiscrete] = i
	}
	m.RtStats[i].NPrimary += nPrimaryDelta
	m.RtStats[i].NSecondary += nSecondaryDelta
	return nil
}

// Close is a no-op for the in-memory sink.
func (m *MemorySink) Close() error {
	return nil
}

// ExportTables implements TableExporter, returning the Meta, Counts,
// and RtSufficientStatistics tables as plain values suitable for
// encoding/json.
func (m *MemorySink) ExportTables() (map[string]interface{}, error) {
	meta := append([]MetaRow{{Key: "rng_seed", Value: m.Seed}}, m.Meta...)
	return map[string]interface{}{
		"Meta":                   meta,
		"Counts":                 m.CountRows,
		"RtSufficientStatistics": m.RtStats,
	}, nil
}

// RecordMeta appends an additional Meta row, e.g. the run's ksuid.
func (m *MemorySink) RecordMeta(key, value string) error {
	m.Meta = append(m.Meta, MetaRow{Key: key, Value: value})
	return nil
}

// MetaRow is one row of the Meta table.
type MetaRow struct {
	Key   string
	Value interface{}
}
