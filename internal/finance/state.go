package finance

import "github.com/frahmantamala/finance-tracker/internal/category"

type TypeFilter string

const (
	TypeAll     TypeFilter = "all"
	TypeIncome  TypeFilter = "income"
	TypeExpense TypeFilter = "expense"
)

// State is the filter selection a dashboard is computed for.
type State struct {
	Type   TypeFilter `json:"type"`
	Period Period     `json:"period"`
}

func DefaultState() State {
	return State{Type: TypeAll, Period: PeriodMonth}
}

// NewState fills blanks with defaults. An unknown type widens to all; an
// unknown period is kept and resolves to no lower bound.
func NewState(typ, period string) State {
	st := DefaultState()
	switch TypeFilter(typ) {
	case TypeAll, TypeIncome, TypeExpense:
		st.Type = TypeFilter(typ)
	}
	if period != "" {
		st.Period = Period(period)
	}
	return st
}

func (s State) matchesKind(kind category.Kind) bool {
	switch s.Type {
	case TypeIncome:
		return kind == category.KindIncome
	case TypeExpense:
		return kind == category.KindExpense
	default:
		return true
	}
}
