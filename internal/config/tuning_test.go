package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jfcrenshaw/icetop-muons/internal/shower"
)

func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()

	if got := cfg.GetCutRadiusM(); got != 400 {
		t.Errorf("GetCutRadiusM = %v, want 400", got)
	}
	if cfg.GetStrictCut() {
		t.Error("GetStrictCut default should be false (inclusive cut)")
	}
	if got := cfg.GetVEMBandMin(); got != 0.6 {
		t.Errorf("GetVEMBandMin = %v, want 0.6", got)
	}
	if got := cfg.GetVEMBandMax(); got != 2.0 {
		t.Errorf("GetVEMBandMax = %v, want 2.0", got)
	}
	if got := cfg.GetEnergyMode(); got != shower.EnergyReco {
		t.Errorf("GetEnergyMode = %v, want reco", got)
	}
	if got := cfg.GetBusyRetries(); got != 5 {
		t.Errorf("GetBusyRetries = %v, want 5", got)
	}
}

func TestLoadTuningConfig_Partial(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{"cut_radius_m": 300, "energy_mode": "split"}`)

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig: %v", err)
	}
	if got := cfg.GetCutRadiusM(); got != 300 {
		t.Errorf("GetCutRadiusM = %v, want 300", got)
	}
	if got := cfg.GetEnergyMode(); got != shower.EnergySplit {
		t.Errorf("GetEnergyMode = %v, want split", got)
	}
	// Unset fields fall back to defaults.
	if got := cfg.GetVEMBandMax(); got != 2.0 {
		t.Errorf("GetVEMBandMax = %v, want 2.0", got)
	}
}

func TestLoadTuningConfig_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad extension":   "", // handled below
		"negative radius": `{"cut_radius_m": -1}`,
		"inverted band":   `{"vem_band_min": 1.5, "vem_band_max": 0.5}`,
		"bad mode":        `{"energy_mode": "both"}`,
		"zero retries":    `{"busy_retries": 0}`,
	}

	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			var path string
			if name == "bad extension" {
				path = writeConfig(t, "tuning.yaml", "{}")
			} else {
				path = writeConfig(t, "tuning.json", contents)
			}
			if _, err := LoadTuningConfig(path); err == nil {
				t.Errorf("expected error for %s", name)
			}
		})
	}
}

func TestExtractionParams(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{"strict_cut": true, "vem_band_min": 0.5}`)
	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig: %v", err)
	}

	p := cfg.ExtractionParams()
	if !p.StrictCut {
		t.Error("StrictCut not carried into params")
	}
	if p.VEMBandMin != 0.5 || p.VEMBandMax != 2.0 {
		t.Errorf("band = [%v, %v], want [0.5, 2.0]", p.VEMBandMin, p.VEMBandMax)
	}
	if p.CutRadius != 400 {
		t.Errorf("CutRadius = %v, want 400", p.CutRadius)
	}
}
