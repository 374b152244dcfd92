package category

import "fmt"

// Kind is the polarity of a transaction.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Label is the localized name shown in exports.
func (k Kind) Label() string {
	if k == KindIncome {
		return "Доход"
	}
	return "Расход"
}

func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	return k, k.Valid()
}

type Category struct {
	ID   int    `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

const FallbackIcon = "fas fa-folder"

var expenseCatalog = []Category{
	{ID: 1, Key: "food", Name: "Продукты", Icon: "fas fa-utensils"},
	{ID: 2, Key: "transport", Name: "Транспорт", Icon: "fas fa-car"},
	{ID: 3, Key: "entertainment", Name: "Развлечения", Icon: "fas fa-film"},
	{ID: 4, Key: "home", Name: "Коммуналка", Icon: "fas fa-home"},
	{ID: 5, Key: "shopping", Name: "Одежда и покупки", Icon: "fas fa-shopping-bag"},
	{ID: 6, Key: "health", Name: "Здоровье", Icon: "fas fa-heartbeat"},
	{ID: 7, Key: "education", Name: "Образование", Icon: "fas fa-graduation-cap"},
	{ID: 8, Key: "cafe", Name: "Кафе/ресторан", Icon: "fas fa-mug-hot"},
	{ID: 9, Key: "travel", Name: "Путешествия", Icon: "fas fa-plane"},
	{ID: 10, Key: "gifts", Name: "Подарки", Icon: "fas fa-gift"},
	{ID: 11, Key: "other", Name: "Другое", Icon: "fas fa-ellipsis-h"},
}

var incomeCatalog = []Category{
	{ID: 1, Key: "salary", Name: "Зарплата", Icon: "fas fa-money-bill-wave"},
	{ID: 2, Key: "freelance", Name: "Фриланс", Icon: "fas fa-laptop-code"},
	{ID: 3, Key: "invest", Name: "Инвестиции", Icon: "fas fa-chart-line"},
	{ID: 4, Key: "gifts", Name: "Подарки", Icon: "fas fa-gift"},
	{ID: 5, Key: "debt", Name: "Возврат долга", Icon: "fas fa-undo"},
	{ID: 6, Key: "sale", Name: "Продажа вещей", Icon: "fas fa-store"},
	{ID: 7, Key: "bonus", Name: "Бонусы", Icon: "fas fa-star"},
	{ID: 8, Key: "deposit", Name: "Проценты", Icon: "fas fa-piggy-bank"},
	{ID: 9, Key: "rent", Name: "Доход от аренды", Icon: "fas fa-building"},
	{ID: 10, Key: "other", Name: "Другое", Icon: "fas fa-ellipsis-h"},
}

func catalogFor(kind Kind) []Category {
	if kind == KindIncome {
		return incomeCatalog
	}
	return expenseCatalog
}

// All returns a copy of the catalog for kind, in display order.
func All(kind Kind) []Category {
	src := catalogFor(kind)
	out := make([]Category, len(src))
	copy(out, src)
	return out
}

func Lookup(kind Kind, id int) (Category, bool) {
	for _, c := range catalogFor(kind) {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Resolve never fails: unknown ids get a generic label and folder icon.
func Resolve(kind Kind, id int) Category {
	if c, ok := Lookup(kind, id); ok {
		return c
	}
	return Category{ID: id, Name: fmt.Sprintf("Категория %d", id), Icon: FallbackIcon}
}
