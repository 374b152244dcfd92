package finance

import "time"

// View is everything a dashboard renders for one filter selection.
type View struct {
	State        State           `json:"state"`
	Transactions []Transaction   `json:"transactions"`
	Summary      Summary         `json:"summary"`
	Totals       Totals          `json:"totals"`
	Breakdown    []CategoryTotal `json:"breakdown"`
	QuickStats   []CategoryTotal `json:"quick_stats"`
	Budget       Budget          `json:"budget"`
	Insights     []Insight       `json:"insights"`
	Chart        []ChartSlice    `json:"chart"`
}

// BuildView filters all by st and derives every aggregate from the result.
func BuildView(all []Transaction, st State, now time.Time) View {
	filtered := Filter(all, st, now)
	totals := ComputeTotals(filtered)
	breakdown := Breakdown(filtered)

	return View{
		State:        st,
		Transactions: filtered,
		Summary:      Summarize(filtered),
		Totals:       totals,
		Breakdown:    breakdown,
		QuickStats:   QuickStats(breakdown),
		Budget:       ComputeBudget(totals),
		Insights:     Insights(filtered),
		Chart:        Chart(breakdown),
	}
}
