package shower

import "math"

// EnergyMode selects which reconstructed energies a feature row carries.
type EnergyMode string

const (
	// EnergyReco carries the single combined energy estimate.
	EnergyReco EnergyMode = "reco"
	// EnergySplit carries the separate proton- and iron-hypothesis estimates.
	EnergySplit EnergyMode = "split"
)

// Extraction defaults. The 400 m cut keeps only tanks far enough from the
// shower core that their signal is muon-dominated; the VEM band brackets a
// single-muon-like pulse.
const (
	DefaultCutRadius  = 400.0
	DefaultVEMBandMin = 0.6
	DefaultVEMBandMax = 2.0
)

// Params controls tank selection and the energy fields carried through.
type Params struct {
	CutRadius  float64    // minimum lateral distance (m)
	StrictCut  bool       // require distance strictly greater than CutRadius
	VEMBandMin float64    // lower edge of the single-muon charge band
	VEMBandMax float64    // upper edge of the single-muon charge band
	EnergyMode EnergyMode // which reconstruction energies to carry
}

// DefaultParams returns the canonical extraction parameters: an inclusive
// 400 m distance cut and the [0.6, 2.0] VEM band.
func DefaultParams() Params {
	return Params{
		CutRadius:  DefaultCutRadius,
		StrictCut:  false,
		VEMBandMin: DefaultVEMBandMin,
		VEMBandMax: DefaultVEMBandMax,
		EnergyMode: EnergyReco,
	}
}

// FeatureRow is one shower reduced to the scalar features used for
// classification. The four sums accumulate over the cut-selected tanks of
// that single shower; they are not normalized by shower count here.
type FeatureRow struct {
	Run          int64
	Energy       float64
	EProton      float64
	EIron        float64
	Zenith       float64
	TimeDelaySum float64
	ChargeSum    float64
	MuonVEMSum   float64
	MuonCountSum float64
	PrimaryType  string
}

// FeatureColumns returns the CSV/table column names for the given energy
// mode, in row layout order.
func FeatureColumns(mode EnergyMode) []string {
	if mode == EnergySplit {
		return []string{
			"run", "e_proton", "e_iron", "zenith",
			"time_delay_sum", "charge_sum", "muon_vem_sum", "muon_count_sum",
			"primary",
		}
	}
	return []string{
		"run", "energy", "zenith",
		"time_delay_sum", "charge_sum", "muon_vem_sum", "muon_count_sum",
		"primary",
	}
}

// selected reports whether tank i passes the distance and signal cuts.
// The nonzero-PE requirement is what makes the VEM/PE scale division safe.
func (p Params) selected(rec *Record, i int) bool {
	dist := rec.Signals.LatDist[i]
	if p.StrictCut {
		if dist <= p.CutRadius {
			return false
		}
	} else if dist < p.CutRadius {
		return false
	}
	return rec.Signals.TotalPE[i] != 0
}

// Extract reduces one shower record to a FeatureRow. Run, energy, zenith
// and primary type are copied from the shower metadata; the sums accumulate
// over tanks passing the cuts. A shower with no surviving tank yields a row
// whose four sums are zero.
func (p Params) Extract(rec *Record) (FeatureRow, error) {
	if err := rec.Validate(); err != nil {
		return FeatureRow{}, err
	}

	row := FeatureRow{
		Run:         rec.Run,
		Zenith:      rec.Reconstruction.Zenith,
		PrimaryType: rec.Primary.Type,
	}
	switch p.EnergyMode {
	case EnergySplit:
		row.EProton = rec.Reconstruction.EProton
		row.EIron = rec.Reconstruction.EIron
	default:
		row.Energy = rec.Reconstruction.Energy
	}

	for i := 0; i < rec.TankCount(); i++ {
		if !p.selected(rec, i) {
			continue
		}

		totalVEM := rec.Signals.TotalVEM[i]
		totalPE := rec.Signals.TotalPE[i]
		scale := totalVEM / totalPE

		row.MuonVEMSum += scale * rec.Signals.MuonPE[i]
		row.MuonCountSum += rec.Signals.NMuons[i]

		if totalVEM >= p.VEMBandMin && totalVEM <= p.VEMBandMax {
			row.TimeDelaySum += math.Abs(rec.Signals.TimeDelay[i])
			row.ChargeSum += totalVEM
		}
	}

	return row, nil
}

// ExtractAll applies Extract to every record and collects the rows. The
// first malformed record aborts the pass.
func (p Params) ExtractAll(recs []Record) ([]FeatureRow, error) {
	rows := make([]FeatureRow, 0, len(recs))
	for i := range recs {
		row, err := p.Extract(&recs[i])
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
