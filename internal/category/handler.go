package category

import (
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
}

func NewHandler(baseHandler *transport.BaseHandler) *Handler {
	return &Handler{BaseHandler: baseHandler}
}

// GetCategories serves the static catalog. Without ?kind both tables are returned.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("kind")
	if raw == "" {
		h.WriteJSON(w, http.StatusOK, CatalogResponse{
			Income:  All(KindIncome),
			Expense: All(KindExpense),
		})
		return
	}

	kind, ok := ParseKind(raw)
	if !ok {
		h.HandleServiceError(w, r, internal.NewValidationFieldError("kind", "kind must be income or expense", internal.ErrCodeValidationFailed))
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{Kind: kind, Categories: All(kind)})
}
