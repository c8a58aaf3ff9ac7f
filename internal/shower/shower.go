// Package shower holds the air-shower data model and the feature
// extraction used to build per-shower and per-run feature tables for
// primary-type classification (proton vs. iron).
package shower

import "fmt"

// Primary particle labels as they appear in the simulation metadata.
const (
	LabelProton = "PPlus"
	LabelIron   = "Fe56Nucleus"
)

// Reconstruction holds the reconstructed shower parameters. Depending on
// the reconstruction pass, either the combined Energy or the per-hypothesis
// EProton/EIron estimates are filled.
type Reconstruction struct {
	Energy  float64 `json:"energy,omitempty"`
	EProton float64 `json:"e_proton,omitempty"`
	EIron   float64 `json:"e_iron,omitempty"`
	Zenith  float64 `json:"zenith"` // radians
}

// Primary identifies the simulated primary particle.
type Primary struct {
	Type string `json:"type"`
}

// Signals carries the per-tank signal block as parallel slices, one entry
// per tank that recorded the shower.
type Signals struct {
	LatDist   []float64 `json:"lat_dist"`   // lateral distance from shower core (m)
	TotalPE   []float64 `json:"total_pe"`   // total charge (photoelectrons)
	TotalVEM  []float64 `json:"total_vem"`  // total charge (vertical-equivalent muons)
	MuonPE    []float64 `json:"muon_pe"`    // muon-attributed photoelectrons
	NMuons    []float64 `json:"n_muons"`    // muon hits in the tank
	TimeDelay []float64 `json:"time_delay"` // arrival delay behind the shower front (ns)
}

// Record is one simulated shower event.
type Record struct {
	Run            int64          `json:"run"`
	Reconstruction Reconstruction `json:"reconstruction"`
	Primary        Primary        `json:"primary"`
	Signals        Signals        `json:"signals"`
}

// ShapeError reports a malformed shower record: parallel signal slices of
// unequal length or a missing required field. It is always fatal to the
// pipeline.
type ShapeError struct {
	Run    int64
	Detail string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shower run %d: %s", e.Run, e.Detail)
}

// Validate checks that the record carries a primary label and that all
// signal slices share the same length. It runs once at the load boundary
// so the numeric loop can index the slices freely.
func (r *Record) Validate() error {
	if r.Primary.Type == "" {
		return &ShapeError{Run: r.Run, Detail: "missing primary type"}
	}

	n := len(r.Signals.LatDist)
	for name, s := range map[string][]float64{
		"total_pe":   r.Signals.TotalPE,
		"total_vem":  r.Signals.TotalVEM,
		"muon_pe":    r.Signals.MuonPE,
		"n_muons":    r.Signals.NMuons,
		"time_delay": r.Signals.TimeDelay,
	} {
		if len(s) != n {
			return &ShapeError{
				Run:    r.Run,
				Detail: fmt.Sprintf("signal slice %s has %d entries, lat_dist has %d", name, len(s), n),
			}
		}
	}
	return nil
}

// TankCount returns the number of tanks in the signal block.
func (r *Record) TankCount() int {
	return len(r.Signals.LatDist)
}
