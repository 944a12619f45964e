package epirt

import "testing"

func TestMemorySinkUpsertRtStatsAccumulates(t *testing.T) {
	sink := NewMemorySink()
	if err := sink.Open(1); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "opening sink", err)
	}
	if err := sink.UpsertRtStats(3, 1, 0); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "upserting rt stats", err)
	}
	if err := sink.UpsertRtStats(3, 1, 0); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "upserting rt stats a second time", err)
	}
	if err := sink.UpsertRtStats(3, 0, 2); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "upserting rt stats with a secondary delta", err)
	}

	if len(sink.RtStats) != 1 {
		t.Fatalf(UnequalIntParameterError, "number of distinct RtSufficientStatistics rows", 1, len(sink.RtStats))
	}
	row := sink.RtStats[0]
	if row.NPrimary != 2 {
		t.Fatalf(UnequalIntParameterError, "accumulated n_primary", 2, int(row.NPrimary))
	}
	if row.NSecondary != 2 {
		t.Fatalf(UnequalIntParameterError, "accumulated n_secondary", 2, int(row.NSecondary))
	}
}

func TestMemorySinkUpsertRtStatsSeparatesTimesteps(t *testing.T) {
	sink := NewMemorySink()
	_ = sink.UpsertRtStats(1, 1, 0)
	_ = sink.UpsertRtStats(2, 1, 0)
	if len(sink.RtStats) != 2 {
		t.Fatalf(UnequalIntParameterError, "number of distinct RtSufficientStatistics rows across two timesteps", 2, len(sink.RtStats))
	}
}

func TestMemorySinkExportTablesIncludesMetaAndSeed(t *testing.T) {
	sink := NewMemorySink()
	if err := sink.Open(42); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "opening sink", err)
	}
	if err := sink.RecordMeta("run_id", "abc123"); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "recording meta", err)
	}
	tables, err := sink.ExportTables()
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "exporting tables", err)
	}
	meta, ok := tables["Meta"].([]MetaRow)
	if !ok || len(meta) != 2 {
		t.Fatalf(UnexpectedErrorWhileError, "checking exported Meta table", "expected rng_seed and run_id rows")
	}
}
