package finance

import "github.com/shopspring/decimal"

type BudgetStatus string

const (
	BudgetOnTrack   BudgetStatus = "on_track"
	BudgetNearLimit BudgetStatus = "near_limit"
	BudgetExceeded  BudgetStatus = "exceeded"
)

const (
	maxPercentLabel = 999
	maxBarWidth     = 100
)

var (
	budgetShare    = decimal.RequireFromString("0.7")
	minBudgetLimit = decimal.NewFromInt(1)
	hundred        = decimal.NewFromInt(100)
)

type Budget struct {
	Limit       decimal.Decimal `json:"limit"`
	UsedPercent int64           `json:"used_percent"`
	RawPercent  int64           `json:"raw_percent"`
	BarWidth    int64           `json:"bar_width"`
	Status      BudgetStatus    `json:"status"`
	StatusLabel string          `json:"status_label"`
	StatusIcon  string          `json:"status_icon"`
}

// ComputeBudget gauges spending against 70% of income. The limit never
// drops below 1, so zero income still yields a finite percentage.
func ComputeBudget(t Totals) Budget {
	limit := t.Income.Mul(budgetShare)
	if limit.LessThan(minBudgetLimit) {
		limit = minBudgetLimit
	}

	raw := percentOf(t.Expense, limit)
	display := min(raw, maxPercentLabel)

	b := Budget{
		Limit:       limit,
		UsedPercent: display,
		RawPercent:  raw,
		BarWidth:    clamp(display, 0, maxBarWidth),
	}

	switch {
	case raw > 100:
		b.Status, b.StatusLabel, b.StatusIcon = BudgetExceeded, "Превышен", "fas fa-exclamation-circle"
	case raw > 90:
		b.Status, b.StatusLabel, b.StatusIcon = BudgetNearLimit, "Близко к лимиту", "fas fa-exclamation-triangle"
	default:
		b.Status, b.StatusLabel, b.StatusIcon = BudgetOnTrack, "По плану", "fas fa-check-circle"
	}
	return b
}

func clamp(v, lo, hi int64) int64 {
	return max(lo, min(v, hi))
}
