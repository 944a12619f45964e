package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/segmentio/ksuid"

	epirt "github.com/kentwait/epirt"
)

func main() {
	var r io.Reader
	var configPath string
	if len(os.Args) > 1 {
		configPath = os.Args[1]
		if _, err := os.Stat(configPath); err != nil {
			log.Fatal(&epirt.InputError{Kind: epirt.BadInputPath, Path: configPath})
		}
		f, err := os.Open(configPath)
		if err != nil {
			log.Fatal(&epirt.InputError{Kind: epirt.UnreadableInputFile, Path: configPath})
		}
		defer f.Close()
		r = f
	} else {
		r = os.Stdin
	}

	cfg, err := epirt.LoadConfig(r)
	if err != nil {
		log.Fatal(err)
	}

	// A config loaded from a file resolves output_path relative to the
	// config's own directory, the way sirsim.rs rebases its working
	// directory to the config file's parent before opening the database.
	if configPath != "" && cfg.OutputPath != "" && !filepath.IsAbs(cfg.OutputPath) {
		cfg.OutputPath = filepath.Join(filepath.Dir(configPath), cfg.OutputPath)
	}

	cat, initialCounts, err := epirt.BuildCatalog(cfg)
	if err != nil {
		log.Fatal(err)
	}

	firstStart := time.Now()
	for instance := 1; instance <= cfg.NumReplicates; instance++ {
		if cfg.NumReplicates > 1 {
			log.Printf("starting instance %03d\n", instance)
		}
		start := time.Now()
		runOne(cfg, cat, initialCounts, instance)
		if cfg.NumReplicates > 1 {
			log.Printf("finished instance %03d in %s\n", instance, time.Since(start))
		}
	}
	log.Printf("completed all runs in %s", time.Since(firstStart))
}

// runOne drives a single simulation realization: build its RNG and sink,
// construct the engine, run the per-unit-interval simulate/commit loop
// to t_final, then optionally print the run's tables to stdout as JSON.
func runOne(cfg *epirt.Config, cat *epirt.Catalog, initialCounts [][]int64, instance int) {
	runID := ksuid.New()

	var seed uint32
	if cfg.RngSeed == nil {
		seed = uint32(time.Now().UTC().UnixNano())
	} else {
		seed = *cfg.RngSeed
		if instance > 1 {
			seed += uint32(instance - 1)
		}
	}
	rng := epirt.NewRNG(seed)

	outputPath := instancedPath(cfg.OutputPath, instance, cfg.NumReplicates)

	var sink epirt.Sink
	if outputPath != "" {
		if _, err := os.Stat(outputPath); err == nil {
			log.Fatalf("output_path %q already exists", outputPath)
		}
		sink = epirt.NewSQLiteSink(outputPath)
	} else {
		if cfg.RecordAllEvents {
			log.Fatal("record_all_events requires output_path")
		}
		sink = epirt.NewMemorySink()
	}

	engine, err := epirt.NewEngine(cfg, cat, initialCounts, rng, sink)
	if err != nil {
		log.Fatal(err)
	}
	if recorder, ok := sink.(epirt.MetaRecorder); ok {
		if err := recorder.RecordMeta("run_id", runID.String()); err != nil {
			log.Fatal(err)
		}
	}
	commit(sink, engine.WriteCounts())

	tFinal := math.Inf(1)
	if cfg.TFinal != nil {
		tFinal = *cfg.TFinal
	}

	log.Printf("t = %g", engine.T())
	done := false
	for engine.T() < tFinal && !done {
		var simErr error
		done, simErr = engine.Simulate(engine.T() + 1.0)
		if simErr != nil {
			log.Fatal(simErr)
		}
		commit(sink, engine.WriteCounts())
		log.Printf("t = %g", engine.T())
	}
	log.Print("...done.")

	if cfg.WriteToStdout {
		log.Print("writing tables to stdout in JSON format...")
		exporter, ok := sink.(epirt.TableExporter)
		if !ok {
			log.Fatal("sink does not support table export")
		}
		tables, err := exporter.ExportTables()
		if err != nil {
			log.Fatal(err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tables); err != nil {
			log.Fatal(err)
		}
	}

	if err := sink.Close(); err != nil {
		log.Fatal(err)
	}
}

// commit ends the current batch for sinks that expose one (SQLiteSink),
// after checking the preceding write for an error. This keeps the
// per-unit-interval commit granularity SPEC_FULL.md's driver carries
// forward from sirsim.rs's main loop.
func commit(sink epirt.Sink, writeErr error) {
	if writeErr != nil {
		log.Fatal(writeErr)
	}
	if batcher, ok := sink.(*epirt.SQLiteSink); ok {
		if err := batcher.EndBatch(); err != nil {
			log.Fatal(err)
		}
	}
}

// instancedPath suffixes path with the instance number when more than
// one replicate shares a config, so sibling runs never collide on the
// same output file.
func instancedPath(path string, instance, numReplicates int) string {
	if path == "" || numReplicates <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s-%03d%s", base, instance, ext)
}
