package finance

import "github.com/shopspring/decimal"

type ChartSlice struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

const NoDataLabel = "Нет данных"

// Chart turns a breakdown into pie slices. An empty breakdown becomes one
// full "no data" slice.
func Chart(breakdown []CategoryTotal) []ChartSlice {
	if len(breakdown) == 0 {
		return []ChartSlice{{Label: NoDataLabel, Value: decimal.NewFromInt(1)}}
	}
	out := make([]ChartSlice, len(breakdown))
	for i, c := range breakdown {
		out[i] = ChartSlice{Label: c.Name, Value: c.Value}
	}
	return out
}
