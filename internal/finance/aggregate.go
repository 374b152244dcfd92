package finance

import (
	"sort"

	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/shopspring/decimal"
)

type Summary struct {
	Count int             `json:"count"`
	Sum   decimal.Decimal `json:"sum"`
}

type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

type CategoryTotal struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Icon  string          `json:"icon"`
	Value decimal.Decimal `json:"value"`
}

const quickStatsSize = 4

var quickStatsPlaceholders = [quickStatsSize]CategoryTotal{
	{Name: "Продукты", Icon: "fas fa-utensils"},
	{Name: "Транспорт", Icon: "fas fa-car"},
	{Name: "Жилье", Icon: "fas fa-home"},
	{Name: "Покупки", Icon: "fas fa-shopping-cart"},
}

// Summarize counts and sums every record regardless of kind.
func Summarize(list []Transaction) Summary {
	sum := decimal.Zero
	for _, tx := range list {
		sum = sum.Add(tx.Amount)
	}
	return Summary{Count: len(list), Sum: sum}
}

func ComputeTotals(list []Transaction) Totals {
	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range list {
		switch tx.Kind {
		case category.KindIncome:
			income = income.Add(tx.Amount)
		case category.KindExpense:
			expense = expense.Add(tx.Amount)
		}
	}
	return Totals{Income: income, Expense: expense, Balance: income.Sub(expense)}
}

// Breakdown groups expenses by category, largest first. Equal totals keep
// the order in which their categories were first seen.
func Breakdown(list []Transaction) []CategoryTotal {
	index := make(map[int]int)
	groups := make([]CategoryTotal, 0)

	for _, tx := range list {
		if tx.Kind != category.KindExpense {
			continue
		}
		i, ok := index[tx.CategoryID]
		if !ok {
			meta := category.Resolve(category.KindExpense, tx.CategoryID)
			groups = append(groups, CategoryTotal{ID: tx.CategoryID, Name: meta.Name, Icon: meta.Icon, Value: decimal.Zero})
			i = len(groups) - 1
			index[tx.CategoryID] = i
		}
		groups[i].Value = groups[i].Value.Add(tx.Amount)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Value.GreaterThan(groups[b].Value)
	})
	return groups
}

// QuickStats returns exactly four entries: the top of the breakdown, with
// empty slots filled from the placeholder row at the same position.
func QuickStats(breakdown []CategoryTotal) []CategoryTotal {
	out := make([]CategoryTotal, quickStatsSize)
	for i := range out {
		if i < len(breakdown) {
			out[i] = breakdown[i]
			continue
		}
		out[i] = quickStatsPlaceholders[i]
		out[i].Value = decimal.Zero
	}
	return out
}
