package workhours

import "github.com/sojournii/sojournii/internal/model"

// Comparison is the signed difference between worked and contracted time.
type Comparison struct {
	DeltaMinutes int  `json:"delta_minutes" yaml:"delta_minutes"`
	IsOvertime   bool `json:"is_overtime" yaml:"is_overtime"`
}

// Status names the comparison: "overtime", "undertime" or "on track".
func (c Comparison) Status() string {
	switch {
	case c.DeltaMinutes > 0:
		return "overtime"
	case c.DeltaMinutes < 0:
		return "undertime"
	default:
		return "on track"
	}
}

// CompareToBaseline compares a week's total to the contracted baseline.
func CompareToBaseline(totals WeeklyTotals, baseline model.ContractBaseline) Comparison {
	delta := totals.TotalMinutes - baseline.Minutes()
	return Comparison{DeltaMinutes: delta, IsOvertime: delta > 0}
}
