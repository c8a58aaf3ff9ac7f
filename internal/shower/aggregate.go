package shower

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrEmptyDataset is returned when aggregation is requested over zero rows.
var ErrEmptyDataset = errors.New("no feature rows to aggregate")

// AggregateRuns averages feature rows per simulation run. Rows are grouped
// by run id in a single pass; each numeric field of the output is the
// unweighted arithmetic mean over the group. The dataset-level label is
// authoritative and applied to every output row, which is why callers
// invoke this once per primary-type dataset. Output is sorted by run id.
func AggregateRuns(rows []FeatureRow, label string) ([]FeatureRow, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	groups := make(map[int64][]FeatureRow)
	for _, r := range rows {
		groups[r.Run] = append(groups[r.Run], r)
	}

	runs := make([]int64, 0, len(groups))
	for run := range groups {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i] < runs[j] })

	avg := make([]FeatureRow, 0, len(runs))
	for _, run := range runs {
		group := groups[run]
		avg = append(avg, FeatureRow{
			Run:          run,
			Energy:       groupMean(group, func(r FeatureRow) float64 { return r.Energy }),
			EProton:      groupMean(group, func(r FeatureRow) float64 { return r.EProton }),
			EIron:        groupMean(group, func(r FeatureRow) float64 { return r.EIron }),
			Zenith:       groupMean(group, func(r FeatureRow) float64 { return r.Zenith }),
			TimeDelaySum: groupMean(group, func(r FeatureRow) float64 { return r.TimeDelaySum }),
			ChargeSum:    groupMean(group, func(r FeatureRow) float64 { return r.ChargeSum }),
			MuonVEMSum:   groupMean(group, func(r FeatureRow) float64 { return r.MuonVEMSum }),
			MuonCountSum: groupMean(group, func(r FeatureRow) float64 { return r.MuonCountSum }),
			PrimaryType:  label,
		})
	}

	return avg, nil
}

// groupMean computes the mean of one field across a run group. Groups are
// never empty: every run id in the map came from at least one row.
func groupMean(group []FeatureRow, field func(FeatureRow) float64) float64 {
	vals := make([]float64, len(group))
	for i, r := range group {
		vals[i] = field(r)
	}
	return stat.Mean(vals, nil)
}
