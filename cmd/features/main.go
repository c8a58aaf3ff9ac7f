// Command features runs the batch feature-extraction pipeline: it loads
// the proton and iron shower files, reduces each shower to a feature row,
// averages the rows per simulation run, and persists the combined tables
// for classifier training.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/jfcrenshaw/icetop-muons/internal/config"
	"github.com/jfcrenshaw/icetop-muons/internal/monitoring"
	"github.com/jfcrenshaw/icetop-muons/internal/report"
	"github.com/jfcrenshaw/icetop-muons/internal/security"
	"github.com/jfcrenshaw/icetop-muons/internal/shower"
	"github.com/jfcrenshaw/icetop-muons/internal/store"
	"github.com/jfcrenshaw/icetop-muons/internal/version"
)

var (
	protonPath = flag.String("proton", "data/proton_showers.json", "Proton shower input file")
	ironPath   = flag.String("iron", "data/iron_showers.json", "Iron shower input file")
	dbPath     = flag.String("db", "features.db", "SQLite feature database")
	csvPath    = flag.String("csv", "NN_data.csv", "Per-shower feature table output")
	avgCSVPath = flag.String("avg-csv", "NN_data_avg.csv", "Per-run averaged table output")
	reportPath = flag.String("report", "", "Optional HTML feature report output")
	configPath = flag.String("config", "", "Optional tuning config JSON")

	migrationsDir = flag.String("migrations", "migrations", "Migrations directory")
	runMigrations = flag.Bool("migrate", false, "Apply pending schema migrations before writing")
	showVersion   = flag.Bool("version", false, "Print version information and exit")
)

// classTables holds the extracted and run-averaged tables for one primary
// class.
type classTables struct {
	perShower []shower.FeatureRow
	perRun    []shower.FeatureRow
	err       error
}

// processClass runs the full per-class pipeline: load, extract, aggregate.
func processClass(path, label string, params shower.Params) classTables {
	recs, err := shower.LoadShowers(path)
	if err != nil {
		return classTables{err: err}
	}
	monitoring.Logf("loaded %d %s showers from %s", len(recs), label, path)

	rows, err := params.ExtractAll(recs)
	if err != nil {
		return classTables{err: err}
	}

	avg, err := shower.AggregateRuns(rows, label)
	if err != nil {
		return classTables{err: err}
	}
	monitoring.Logf("%s: %d showers reduced to %d runs", label, len(rows), len(avg))

	return classTables{perShower: rows, perRun: avg}
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("icetop-muons %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	params := cfg.ExtractionParams()

	// The two class pipelines share no state; run them concurrently.
	var wg sync.WaitGroup
	var proton, iron classTables
	wg.Add(2)
	go func() {
		defer wg.Done()
		proton = processClass(*protonPath, shower.LabelProton, params)
	}()
	go func() {
		defer wg.Done()
		iron = processClass(*ironPath, shower.LabelIron, params)
	}()
	wg.Wait()

	if proton.err != nil {
		log.Fatalf("proton pipeline failed: %v", proton.err)
	}
	if iron.err != nil {
		log.Fatalf("iron pipeline failed: %v", iron.err)
	}

	// Combine proton and iron, proton first.
	combined := append(proton.perShower, iron.perShower...)
	combinedAvg := append(proton.perRun, iron.perRun...)

	db, err := store.NewStore(*dbPath)
	if err != nil {
		log.Fatalf("failed to open feature database: %v", err)
	}
	defer db.Close()
	db.SetBusyRetries(cfg.GetBusyRetries())

	if *runMigrations {
		if err := db.MigrateUp(*migrationsDir); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	datasetID := store.NewDatasetID()
	if err := db.InsertShowerRows(datasetID, combined); err != nil {
		log.Fatalf("failed to store shower features: %v", err)
	}
	if err := db.InsertRunRows(datasetID, combinedAvg); err != nil {
		log.Fatalf("failed to store run features: %v", err)
	}
	monitoring.Logf("stored dataset %s (%d showers, %d runs)", datasetID, len(combined), len(combinedAvg))

	monitoring.Logf("saving %s", *csvPath)
	if err := store.WriteCSV(*csvPath, combined, params.EnergyMode); err != nil {
		log.Fatalf("failed to write %s: %v", *csvPath, err)
	}

	monitoring.Logf("saving %s", *avgCSVPath)
	if err := store.WriteCSV(*avgCSVPath, combinedAvg, params.EnergyMode); err != nil {
		log.Fatalf("failed to write %s: %v", *avgCSVPath, err)
	}

	if *reportPath != "" {
		if err := security.ValidateOutputPath(*reportPath); err != nil {
			log.Fatalf("invalid report path: %v", err)
		}
		f, err := os.Create(*reportPath)
		if err != nil {
			log.Fatalf("failed to create report file: %v", err)
		}
		if err := report.RenderHTML(f, combined, combinedAvg); err != nil {
			f.Close()
			log.Fatalf("failed to render report: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("failed to close report file: %v", err)
		}
		monitoring.Logf("saved report %s", *reportPath)
	}
}
