package goal_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/goal"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubGoalService struct {
	updateErr error
	deleted   []int64
}

func (s *stubGoalService) Create(ctx context.Context, userID int64, dto goal.CreateGoalDTO) (*goal.Goal, error) {
	return &goal.Goal{ID: 1, UserID: userID, Title: dto.Title}, nil
}

func (s *stubGoalService) List(ctx context.Context, userID int64) ([]*goal.Goal, error) {
	return nil, nil
}

func (s *stubGoalService) Update(ctx context.Context, id, userID int64, dto goal.UpdateGoalDTO) (*goal.Goal, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &goal.Goal{ID: id, UserID: userID}, nil
}

func (s *stubGoalService) Delete(ctx context.Context, id, userID int64) (*goal.DeleteGoalResponse, error) {
	s.deleted = append(s.deleted, id)
	return &goal.DeleteGoalResponse{Message: "Цель удалена", ID: id}, nil
}

var _ = Describe("Goal Handler", func() {
	var (
		stub   *stubGoalService
		router chi.Router
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		stub = &stubGoalService{}
		handler := goal.NewHandler(transport.NewBaseHandler(logger), stub)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := internal.ContextWithUser(r.Context(), &internal.AuthUser{ID: 3, Role: "user"})
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		})
		router.Get("/goals", handler.List)
		router.Post("/goals", handler.Create)
		router.Put("/goals/{id}", handler.Update)
		router.Delete("/goals/{id}", handler.Delete)
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should return an empty array rather than null", func() {
		w := serve(http.MethodGet, "/goals", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(strings.TrimSpace(w.Body.String())).To(Equal("[]"))
	})

	It("should create with 201", func() {
		w := serve(http.MethodPost, "/goals", `{"title":"Отпуск","target_amount":100}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
	})

	It("should reject a non-numeric id", func() {
		w := serve(http.MethodPut, "/goals/abc", `{"title":"x"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should map a missing goal to 404", func() {
		stub.updateErr = goal.ErrGoalNotFound
		w := serve(http.MethodPut, "/goals/9", `{"title":"x"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("Цель не найдена"))
	})

	It("should delete by route id", func() {
		w := serve(http.MethodDelete, "/goals/5", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(stub.deleted).To(Equal([]int64{5}))
	})
})
