package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/finance-tracker/internal/category"
	dm "github.com/frahmantamala/finance-tracker/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-tracker/internal/finance"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionRepository implements transaction.Repository over the income
// and expenses tables.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) transaction.Repository {
	return &TransactionRepository{db: db}
}

func tableFor(kind category.Kind) (string, error) {
	switch kind {
	case category.KindIncome:
		return dm.IncomeTable, nil
	case category.KindExpense:
		return dm.ExpenseTable, nil
	default:
		return "", fmt.Errorf("unknown transaction kind %q", kind)
	}
}

func (r *TransactionRepository) Create(ctx context.Context, kind category.Kind, tx *finance.Transaction) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	row := toRow(tx)
	if err := r.db.WithContext(ctx).Table(table).Create(&row).Error; err != nil {
		return err
	}
	tx.ID = row.ID
	return nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, kind category.Kind, userID int64) ([]finance.Transaction, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var rows []dm.Transaction
	err = r.db.WithContext(ctx).Table(table).
		Where("id_user = ?", userID).
		Order("transaction_date DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]finance.Transaction, len(rows))
	for i := range rows {
		out[i] = fromRow(&rows[i], kind)
	}
	return out, nil
}

func (r *TransactionRepository) SumByUser(ctx context.Context, kind category.Kind, userID int64) (decimal.Decimal, error) {
	table, err := tableFor(kind)
	if err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	err = r.db.WithContext(ctx).Table(table).
		Select("COALESCE(SUM(amount), 0)").
		Where("id_user = ?", userID).
		Row().
		Scan(&total)
	return total, err
}

func (r *TransactionRepository) SumExpensesByCategory(ctx context.Context, userID int64) ([]transaction.CategorySum, error) {
	var rows []struct {
		CategoryID int
		Total      decimal.Decimal
	}
	err := r.db.WithContext(ctx).Table(dm.ExpenseTable).
		Select("category_id, COALESCE(SUM(amount), 0) AS total").
		Where("id_user = ?", userID).
		Group("category_id").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]transaction.CategorySum, len(rows))
	for i, row := range rows {
		out[i] = transaction.CategorySum{CategoryID: row.CategoryID, Total: row.Total}
	}
	return out, nil
}

func (r *TransactionRepository) DeleteAllByUser(ctx context.Context, userID int64) (transaction.DeletedCount, error) {
	var deleted transaction.DeletedCount
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Table(dm.IncomeTable).Where("id_user = ?", userID).Delete(&dm.Transaction{})
		if res.Error != nil {
			return res.Error
		}
		deleted.Income = res.RowsAffected

		res = tx.Table(dm.ExpenseTable).Where("id_user = ?", userID).Delete(&dm.Transaction{})
		if res.Error != nil {
			return res.Error
		}
		deleted.Expenses = res.RowsAffected
		return nil
	})
	if err != nil {
		return transaction.DeletedCount{}, err
	}
	return deleted, nil
}

func toRow(tx *finance.Transaction) dm.Transaction {
	return dm.Transaction{
		ID:                tx.ID,
		UserID:            tx.UserID,
		Amount:            tx.Amount,
		CategoryID:        tx.CategoryID,
		Description:       tx.Description,
		TransactionDate:   tx.Date,
		IsRecurring:       tx.IsRecurring,
		RecurringInterval: tx.RecurringInterval,
	}
}

func fromRow(row *dm.Transaction, kind category.Kind) finance.Transaction {
	return finance.Transaction{
		ID:                row.ID,
		UserID:            row.UserID,
		Kind:              kind,
		Amount:            row.Amount,
		CategoryID:        row.CategoryID,
		Description:       row.Description,
		Date:              row.TransactionDate,
		IsRecurring:       row.IsRecurring,
		RecurringInterval: row.RecurringInterval,
	}
}
