package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jfcrenshaw/icetop-muons/internal/shower"
)

// TuningConfig holds the extraction parameters that may be overridden from
// a JSON file. Fields omitted from the file keep their defaults, so partial
// configs are safe.
type TuningConfig struct {
	// Tank selection params
	CutRadiusM *float64 `json:"cut_radius_m,omitempty"`
	StrictCut  *bool    `json:"strict_cut,omitempty"`
	VEMBandMin *float64 `json:"vem_band_min,omitempty"`
	VEMBandMax *float64 `json:"vem_band_max,omitempty"`

	// Feature layout params
	EnergyMode *string `json:"energy_mode,omitempty"` // "reco" or "split"

	// Store params
	BusyRetries *int `json:"busy_retries,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset. The Get*
// accessors provide the defaults.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must
// carry a .json extension and stay under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.CutRadiusM != nil && *c.CutRadiusM < 0 {
		return fmt.Errorf("cut_radius_m must be non-negative, got %f", *c.CutRadiusM)
	}

	if c.VEMBandMin != nil || c.VEMBandMax != nil {
		lo := c.GetVEMBandMin()
		hi := c.GetVEMBandMax()
		if lo < 0 {
			return fmt.Errorf("vem_band_min must be non-negative, got %f", lo)
		}
		if hi < lo {
			return fmt.Errorf("vem_band_max (%f) must not be below vem_band_min (%f)", hi, lo)
		}
	}

	if c.EnergyMode != nil {
		switch shower.EnergyMode(*c.EnergyMode) {
		case shower.EnergyReco, shower.EnergySplit:
		default:
			return fmt.Errorf("energy_mode must be %q or %q, got %q",
				shower.EnergyReco, shower.EnergySplit, *c.EnergyMode)
		}
	}

	if c.BusyRetries != nil && *c.BusyRetries < 1 {
		return fmt.Errorf("busy_retries must be at least 1, got %d", *c.BusyRetries)
	}

	return nil
}

// GetCutRadiusM returns the cut_radius_m value or the default.
func (c *TuningConfig) GetCutRadiusM() float64 {
	if c.CutRadiusM == nil {
		return shower.DefaultCutRadius
	}
	return *c.CutRadiusM
}

// GetStrictCut returns the strict_cut value or the default.
func (c *TuningConfig) GetStrictCut() bool {
	if c.StrictCut == nil {
		return false // default: inclusive cut (lat_dist >= radius)
	}
	return *c.StrictCut
}

// GetVEMBandMin returns the vem_band_min value or the default.
func (c *TuningConfig) GetVEMBandMin() float64 {
	if c.VEMBandMin == nil {
		return shower.DefaultVEMBandMin
	}
	return *c.VEMBandMin
}

// GetVEMBandMax returns the vem_band_max value or the default.
func (c *TuningConfig) GetVEMBandMax() float64 {
	if c.VEMBandMax == nil {
		return shower.DefaultVEMBandMax
	}
	return *c.VEMBandMax
}

// GetEnergyMode returns the energy_mode value or the default.
func (c *TuningConfig) GetEnergyMode() shower.EnergyMode {
	if c.EnergyMode == nil {
		return shower.EnergyReco
	}
	return shower.EnergyMode(*c.EnergyMode)
}

// GetBusyRetries returns the busy_retries value or the default.
func (c *TuningConfig) GetBusyRetries() int {
	if c.BusyRetries == nil {
		return 5
	}
	return *c.BusyRetries
}

// ExtractionParams assembles the shower extraction parameters from the
// configured values.
func (c *TuningConfig) ExtractionParams() shower.Params {
	return shower.Params{
		CutRadius:  c.GetCutRadiusM(),
		StrictCut:  c.GetStrictCut(),
		VEMBandMin: c.GetVEMBandMin(),
		VEMBandMax: c.GetVEMBandMax(),
		EnergyMode: c.GetEnergyMode(),
	}
}
