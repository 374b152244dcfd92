package finance

import (
	"fmt"

	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/shopspring/decimal"
)

type Insight struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

const NoInsightsText = "Добавьте операции, чтобы увидеть инсайты"

// Insights describes the expenses in list: top category, mean amount and
// count. Without expenses it returns a single placeholder.
func Insights(list []Transaction) []Insight {
	var (
		count int64
		sum   = decimal.Zero
	)
	for _, tx := range list {
		if tx.Kind != category.KindExpense {
			continue
		}
		count++
		sum = sum.Add(tx.Amount)
	}

	if count == 0 {
		return []Insight{{Icon: "fas fa-info-circle", Text: NoInsightsText}}
	}

	top := Breakdown(list)[0]
	icon := top.Icon
	if icon == "" {
		icon = "fas fa-chart-pie"
	}
	avg := sum.Div(decimal.NewFromInt(count))

	return []Insight{
		{Icon: icon, Text: fmt.Sprintf("Больше всего расходов на \"%s\" — %s", top.Name, FormatCurrency(top.Value))},
		{Icon: "fas fa-balance-scale", Text: "Средний расход на операцию: " + FormatCurrency(avg)},
		{Icon: "fas fa-clock", Text: fmt.Sprintf("Операций за выбранный период: %d", count)},
	}
}
