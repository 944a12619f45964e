package epirt

// Sink is the abstract transactional destination the engine emits
// observations to (spec.md §4.9). The core never issues transactions
// itself — the driver decides batching granularity (one unit interval
// per transaction, per SPEC_FULL.md's supplemented per-unit-interval
// commit loop). Calls are made synchronously on the engine's goroutine
// (spec.md §5); a batching sink such as SQLiteSink makes its rows durable
// only when the driver ends the batch (EndBatch) or closes the sink.
type Sink interface {
	// Open prepares the sink for writing: creating tables/files and
	// recording the run's seed into Meta.
	Open(seed uint32) error

	// Individuals records a newly created individual. Only called when
	// the run has record_all_events enabled.
	Individuals(time float64, id int, ageclass int, stateName string) error

	// Infections records a transmission event: who infected whom.
	Infections(time float64, infectedID, transmitterID int) error

	// Transitions records a state change for one individual.
	Transitions(time float64, id int, startState, endState string) error

	// Counts records the (state, ageclass) tally at time. ageclass is
	// 1-based at this boundary, per spec.md §9.
	Counts(time float64, stateName string, ageclass1Based int, count int64) error

	// UpsertRtStats ensures a row exists for timeDiscrete (inserting
	// zeros if absent) then adds nPrimaryDelta/nSecondaryDelta to it.
	UpsertRtStats(timeDiscrete int64, nPrimaryDelta, nSecondaryDelta int64) error

	// Close releases any resources the sink holds open.
	Close() error
}

// TableExporter is implemented by sinks that can serialize their tables
// back out as plain Go values, for the driver's write_to_stdout JSON
// export (SPEC_FULL.md's supplemented feature, grounded on sirsim.rs's
// db_table_to_json_object). Only the Meta, Counts, and
// RtSufficientStatistics tables are exported, matching the original.
type TableExporter interface {
	ExportTables() (map[string]interface{}, error)
}

// MetaRecorder is implemented by sinks that can take additional free-form
// Meta rows beyond the rng_seed Open always records — used by the driver
// to stamp each run with a ksuid identifier (SPEC_FULL.md's DOMAIN STACK
// entry for github.com/segmentio/ksuid).
type MetaRecorder interface {
	RecordMeta(key, value string) error
}
