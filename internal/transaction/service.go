package transaction

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/finance"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for default dates and period bounds.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Create(ctx context.Context, userID int64, kind category.Kind, dto CreateTransactionDTO) (*finance.Transaction, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}

	tx, err := dto.Normalize(kind, userID, s.now())
	if err != nil {
		s.logger.Warn("transaction validation failed", "error", err, "user_id", userID, "kind", kind)
		return nil, err
	}

	if err := s.repo.Create(ctx, kind, tx); err != nil {
		s.logger.Error("failed to create transaction", "error", err, "user_id", userID, "kind", kind)
		return nil, err
	}

	s.publish(ctx, events.NewTransactionCreated(userID, string(kind), tx.CategoryID, tx.Amount))

	s.logger.Info("transaction created",
		"transaction_id", tx.ID,
		"user_id", userID,
		"kind", kind,
		"amount", tx.Amount.String())

	return tx, nil
}

// List returns income and expenses merged, newest first. Records sharing a
// date keep their per-table order with income ahead of expenses.
func (s *Service) List(ctx context.Context, userID int64) ([]finance.Transaction, error) {
	var incomes, expenses []finance.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incomes, err = s.repo.ListByUser(gctx, category.KindIncome, userID)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.repo.ListByUser(gctx, category.KindExpense, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to list transactions", "error", err, "user_id", userID)
		return nil, err
	}

	merged := make([]finance.Transaction, 0, len(incomes)+len(expenses))
	for _, tx := range incomes {
		tx.Kind = category.KindIncome
		merged = append(merged, tx)
	}
	for _, tx := range expenses {
		tx.Kind = category.KindExpense
		merged = append(merged, tx)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})

	return merged, nil
}

func (s *Service) Stats(ctx context.Context, userID int64) (*Stats, error) {
	var stats Stats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.Income, err = s.repo.SumByUser(gctx, category.KindIncome, userID)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Expenses, err = s.repo.SumByUser(gctx, category.KindExpense, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to compute transaction stats", "error", err, "user_id", userID)
		return nil, err
	}

	stats.Total = stats.Income.Sub(stats.Expenses)
	return &stats, nil
}

func (s *Service) ExpensesByCategory(ctx context.Context, userID int64) ([]CategorySum, error) {
	rows, err := s.repo.SumExpensesByCategory(ctx, userID)
	if err != nil {
		s.logger.Error("failed to group expenses by category", "error", err, "user_id", userID)
		return nil, err
	}

	for i := range rows {
		c := category.Resolve(category.KindExpense, rows[i].CategoryID)
		rows[i].Name = c.Name
		rows[i].Icon = c.Icon
	}
	return rows, nil
}

func (s *Service) Reset(ctx context.Context, userID int64) (*ResetResult, error) {
	deleted, err := s.repo.DeleteAllByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to reset transactions", "error", err, "user_id", userID)
		return nil, err
	}

	s.publish(ctx, events.NewTransactionsReset(userID, deleted.Income, deleted.Expenses))
	s.logger.Info("transactions reset", "user_id", userID, "income", deleted.Income, "expenses", deleted.Expenses)

	return &ResetResult{Message: msgReset, Deleted: deleted}, nil
}

// Dashboard loads every record of the user and runs the aggregation engine over them.
func (s *Service) Dashboard(ctx context.Context, userID int64, st finance.State) (*finance.View, error) {
	all, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := finance.BuildView(all, st, s.now())
	return &view, nil
}

// Preview runs the engine over caller-supplied records without touching the store.
func (s *Service) Preview(records []finance.Transaction, st finance.State) finance.View {
	return finance.BuildView(records, st, s.now())
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
