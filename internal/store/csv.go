package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/jfcrenshaw/icetop-muons/internal/security"
	"github.com/jfcrenshaw/icetop-muons/internal/shower"
)

// WriteCSV writes a feature table to path, overwriting any prior contents.
// The column layout follows the energy mode; callers pass the label-wise
// concatenated table (proton rows first, then iron).
func WriteCSV(path string, rows []shower.FeatureRow, mode shower.EnergyMode) error {
	if err := security.ValidateOutputPath(path); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(shower.FeatureColumns(mode)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range rows {
		record := []string{strconv.FormatInt(r.Run, 10)}
		if mode == shower.EnergySplit {
			record = append(record, formatFloat(r.EProton), formatFloat(r.EIron))
		} else {
			record = append(record, formatFloat(r.Energy))
		}
		record = append(record,
			formatFloat(r.Zenith),
			formatFloat(r.TimeDelaySum),
			formatFloat(r.ChargeSum),
			formatFloat(r.MuonVEMSum),
			formatFloat(r.MuonCountSum),
			r.PrimaryType,
		)
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row for run %d: %w", r.Run, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
