package transaction

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/finance"
	"github.com/frahmantamala/finance-tracker/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, userID int64, kind category.Kind, dto CreateTransactionDTO) (*finance.Transaction, error)
	List(ctx context.Context, userID int64) ([]finance.Transaction, error)
	Stats(ctx context.Context, userID int64) (*Stats, error)
	ExpensesByCategory(ctx context.Context, userID int64) ([]CategorySum, error)
	Reset(ctx context.Context, userID int64) (*ResetResult, error)
	Dashboard(ctx context.Context, userID int64, st finance.State) (*finance.View, error)
	Preview(records []finance.Transaction, st finance.State) finance.View
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, category.KindIncome)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, category.KindExpense)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, kind category.Kind) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return
	}

	var dto CreateTransactionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	tx, err := h.Service.Create(r.Context(), user.ID, kind, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, tx)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return
	}

	stats, err := h.Service.Stats(r.Context(), user.ID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return
	}

	list, err := h.Service.List(r.Context(), user.ID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) ExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return
	}

	rows, err := h.Service.ExpensesByCategory(r.Context(), user.ID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return
	}

	result, err := h.Service.Reset(r.Context(), user.ID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// Export downloads the merged list as CSV, or as JSON with ?format=json.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return
	}

	list, err := h.Service.List(r.Context(), user.ID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	stamp := time.Now().UnixMilli()
	if r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="transactions_%d.json"`, stamp))
		h.WriteJSON(w, http.StatusOK, list)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="transactions_%d.csv"`, stamp))
	w.WriteHeader(http.StatusOK)
	if err := finance.WriteCSV(w, list); err != nil {
		h.Logger.Error("failed to write csv export", "error", err, "user_id", user.ID)
	}
}

// Dashboard serves the engine view for ?type= and ?period=.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return
	}

	q := r.URL.Query()
	view, err := h.Service.Dashboard(r.Context(), user.ID, finance.NewState(q.Get("type"), q.Get("period")))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) PreviewDashboard(w http.ResponseWriter, r *http.Request) {
	var req DashboardRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, h.Service.Preview(req.Transactions, finance.NewState(req.Type, req.Period)))
}
