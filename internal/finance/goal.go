package finance

import "github.com/shopspring/decimal"

type GoalProgress struct {
	Percent    int64 `json:"percent"`
	RawPercent int64 `json:"raw_percent"`
	BarWidth   int64 `json:"bar_width"`
}

func ComputeGoalProgress(target, current decimal.Decimal) GoalProgress {
	if !target.IsPositive() {
		return GoalProgress{}
	}
	raw := percentOf(current, target)
	return GoalProgress{
		Percent:    min(raw, maxPercentLabel),
		RawPercent: raw,
		BarWidth:   clamp(raw, 0, maxBarWidth),
	}
}
