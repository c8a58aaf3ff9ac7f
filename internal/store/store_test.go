package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfcrenshaw/icetop-muons/internal/shower"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "features.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRows() []shower.FeatureRow {
	return []shower.FeatureRow{
		{Run: 1, Energy: 1e7, Zenith: 0.2, TimeDelaySum: 4.5, ChargeSum: 2.1, MuonVEMSum: 0.9, MuonCountSum: 3, PrimaryType: shower.LabelProton},
		{Run: 2, Energy: 2e7, Zenith: 0.3, TimeDelaySum: 1.5, ChargeSum: 1.4, MuonVEMSum: 0.4, MuonCountSum: 1, PrimaryType: shower.LabelIron},
	}
}

func TestStore_ShowerRowRoundtrip(t *testing.T) {
	s := newTestStore(t)
	id := NewDatasetID()

	require.NoError(t, s.InsertShowerRows(id, sampleRows()))

	got, err := s.ShowerRows(id)
	require.NoError(t, err)
	assert.Equal(t, sampleRows(), got)
}

func TestStore_RunRowsOrderedByRun(t *testing.T) {
	s := newTestStore(t)
	id := NewDatasetID()

	rows := []shower.FeatureRow{
		{Run: 9, PrimaryType: shower.LabelProton},
		{Run: 2, PrimaryType: shower.LabelProton},
		{Run: 5, PrimaryType: shower.LabelProton},
	}
	require.NoError(t, s.InsertRunRows(id, rows))

	got, err := s.RunRows(id)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(2), got[0].Run)
	assert.Equal(t, int64(5), got[1].Run)
	assert.Equal(t, int64(9), got[2].Run)
}

func TestStore_DatasetIsolation(t *testing.T) {
	s := newTestStore(t)
	a, b := NewDatasetID(), NewDatasetID()

	require.NoError(t, s.InsertShowerRows(a, sampleRows()))
	require.NoError(t, s.InsertShowerRows(b, sampleRows()[:1]))

	gotA, err := s.ShowerRows(a)
	require.NoError(t, err)
	gotB, err := s.ShowerRows(b)
	require.NoError(t, err)

	assert.Len(t, gotA, 2)
	assert.Len(t, gotB, 1)
}

func TestWriteCSV_RecoMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.csv")
	require.NoError(t, WriteCSV(path, sampleRows(), shower.EnergyReco))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "run,energy,zenith,time_delay_sum,charge_sum,muon_vem_sum,muon_count_sum,primary", lines[0])
	assert.Equal(t, "1,1e+07,0.2,4.5,2.1,0.9,3,PPlus", lines[1])
	assert.Equal(t, "2,2e+07,0.3,1.5,1.4,0.4,1,Fe56Nucleus", lines[2])
}

func TestWriteCSV_SplitMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.csv")
	rows := []shower.FeatureRow{
		{Run: 3, EProton: 1.1e7, EIron: 1.3e7, Zenith: 0.1, PrimaryType: shower.LabelIron},
	}
	require.NoError(t, WriteCSV(path, rows, shower.EnergySplit))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "run,e_proton,e_iron,zenith,time_delay_sum,charge_sum,muon_vem_sum,muon_count_sum,primary", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "3,1.1e+07,1.3e+07,0.1,"))
}

func TestWriteCSV_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.csv")
	require.NoError(t, WriteCSV(path, sampleRows(), shower.EnergyReco))
	require.NoError(t, WriteCSV(path, sampleRows()[:1], shower.EnergyReco))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
}
