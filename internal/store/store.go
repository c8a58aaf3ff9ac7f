// Package store persists per-shower and per-run feature tables to SQLite
// and writes the CSV tables consumed by classifier training.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jfcrenshaw/icetop-muons/internal/shower"
)

// Store wraps the SQLite handle for the feature tables.
type Store struct {
	*sql.DB

	busyRetries int
}

// NewStore opens (or creates) the feature database at path and ensures the
// schema exists.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS shower_features (
			dataset_id        TEXT,
			run               BIGINT,
			energy            DOUBLE,
			e_proton          DOUBLE,
			e_iron            DOUBLE,
			zenith            DOUBLE,
			time_delay_sum    DOUBLE,
			charge_sum        DOUBLE,
			muon_vem_sum      DOUBLE,
			muon_count_sum    DOUBLE,
			primary_type      TEXT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS run_features (
			dataset_id        TEXT,
			run               BIGINT,
			energy            DOUBLE,
			e_proton          DOUBLE,
			e_iron            DOUBLE,
			zenith            DOUBLE,
			time_delay_sum    DOUBLE,
			charge_sum        DOUBLE,
			muon_vem_sum      DOUBLE,
			muon_count_sum    DOUBLE,
			primary_type      TEXT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return nil, err
	}

	return &Store{DB: db, busyRetries: 5}, nil
}

// SetBusyRetries overrides the number of attempts made when SQLite reports
// the database as busy or locked.
func (s *Store) SetBusyRetries(n int) {
	if n >= 1 {
		s.busyRetries = n
	}
}

// NewDatasetID returns a fresh dataset id for one pipeline invocation.
func NewDatasetID() string {
	return uuid.New().String()
}

// retryOnBusy retries fn with linear backoff while SQLite reports a busy or
// locked database. Other errors return immediately.
func (s *Store) retryOnBusy(fn func() error) error {
	var err error
	for i := 0; i < s.busyRetries; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		msg := err.Error()
		if !strings.Contains(msg, "SQLITE_BUSY") && !strings.Contains(msg, "database is locked") {
			return err
		}
		time.Sleep(time.Duration(i+1) * 10 * time.Millisecond)
	}
	return err
}

// InsertShowerRows persists per-shower feature rows under the dataset id.
func (s *Store) InsertShowerRows(datasetID string, rows []shower.FeatureRow) error {
	return s.insertRows("shower_features", datasetID, rows)
}

// InsertRunRows persists per-run averaged rows under the dataset id.
func (s *Store) InsertRunRows(datasetID string, rows []shower.FeatureRow) error {
	return s.insertRows("run_features", datasetID, rows)
}

func (s *Store) insertRows(table, datasetID string, rows []shower.FeatureRow) error {
	query := fmt.Sprintf(`INSERT INTO %s (
			dataset_id, run, energy, e_proton, e_iron, zenith,
			time_delay_sum, charge_sum, muon_vem_sum, muon_count_sum, primary_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, table)

	return s.retryOnBusy(func() error {
		tx, err := s.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		stmt, err := tx.Prepare(query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range rows {
			if _, err := stmt.Exec(
				datasetID, r.Run, r.Energy, r.EProton, r.EIron, r.Zenith,
				r.TimeDelaySum, r.ChargeSum, r.MuonVEMSum, r.MuonCountSum, r.PrimaryType,
			); err != nil {
				return fmt.Errorf("inserting into %s (run %d): %w", table, r.Run, err)
			}
		}
		return tx.Commit()
	})
}

// ShowerRows returns the per-shower rows for a dataset in insertion order.
func (s *Store) ShowerRows(datasetID string) ([]shower.FeatureRow, error) {
	return s.selectRows("shower_features", datasetID)
}

// RunRows returns the per-run averaged rows for a dataset ordered by run id.
func (s *Store) RunRows(datasetID string) ([]shower.FeatureRow, error) {
	return s.selectRows("run_features", datasetID)
}

func (s *Store) selectRows(table, datasetID string) ([]shower.FeatureRow, error) {
	order := "rowid"
	if table == "run_features" {
		order = "run"
	}
	rows, err := s.Query(fmt.Sprintf(`
		SELECT run, energy, e_proton, e_iron, zenith,
		       time_delay_sum, charge_sum, muon_vem_sum, muon_count_sum, primary_type
		FROM %s
		WHERE dataset_id = ?
		ORDER BY %s`, table, order), datasetID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []shower.FeatureRow
	for rows.Next() {
		var r shower.FeatureRow
		if err := rows.Scan(
			&r.Run, &r.Energy, &r.EProton, &r.EIron, &r.Zenith,
			&r.TimeDelaySum, &r.ChargeSum, &r.MuonVEMSum, &r.MuonCountSum, &r.PrimaryType,
		); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
