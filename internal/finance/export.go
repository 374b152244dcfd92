package finance

import (
	"io"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal/category"
)

const (
	byteOrderMark = "\uFEFF"
	csvHeader     = "Дата,Тип,Категория,Описание,Сумма\n"
)

// WriteCSV renders list as a BOM-prefixed CSV with every field quoted.
func WriteCSV(w io.Writer, list []Transaction) error {
	if _, err := io.WriteString(w, byteOrderMark+csvHeader); err != nil {
		return err
	}
	for _, tx := range list {
		kind := tx.Kind
		if !kind.Valid() {
			kind = category.KindExpense
		}
		row := []string{
			FormatDate(tx.Date),
			kind.Label(),
			category.Resolve(kind, tx.CategoryID).Name,
			tx.Description,
			tx.Amount.String(),
		}
		if _, err := io.WriteString(w, csvRow(row)); err != nil {
			return err
		}
	}
	return nil
}

func csvRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",") + "\n"
}
