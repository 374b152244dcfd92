package transaction_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("Transaction Handler", func() {
	var (
		handler *transaction.Handler
		repo    *mockTransactionRepository
	)

	authed := func(req *http.Request) *http.Request {
		return req.WithContext(internal.ContextWithUser(req.Context(), &internal.AuthUser{ID: 7, Role: "user"}))
	}

	post := func(h http.HandlerFunc, payload string) *httptest.ResponseRecorder {
		req := authed(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h(w, req)
		return w
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = newMockTransactionRepository()
		service := transaction.NewService(repo, nil, logger).
			WithClock(func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) })
		handler = transaction.NewHandler(transport.NewBaseHandler(logger), service)
	})

	Describe("CreateExpense", func() {
		It("should return 201 with the stored record", func() {
			w := post(handler.CreateExpense, `{"amount":"1200","category_id":3,"description":"Кино","transaction_date":"2024-03-10"}`)

			Expect(w.Code).To(Equal(http.StatusCreated))
			var body map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
			Expect(body["type"]).To(Equal("expense"))
			Expect(body["transaction_date"]).To(Equal("2024-03-10"))
			Expect(body["description"]).To(Equal("Кино"))
		})

		It("should return 400 with the validation message", func() {
			w := post(handler.CreateExpense, `{"amount":0,"category_id":3}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("Некорректная сумма"))
		})

		It("should return 400 for malformed JSON", func() {
			w := post(handler.CreateExpense, `{"amount":`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 401 without a user", func() {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
			w := httptest.NewRecorder()
			handler.CreateIncome(w, req)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("Export", func() {
		BeforeEach(func() {
			Expect(post(handler.CreateIncome, `{"amount":5000,"category_id":1,"transaction_date":"2024-03-01"}`).Code).To(Equal(http.StatusCreated))
			Expect(post(handler.CreateExpense, `{"amount":300,"category_id":1,"description":"say \"hi\"","transaction_date":"2024-03-05"}`).Code).To(Equal(http.StatusCreated))
		})

		It("should stream a CSV attachment", func() {
			req := authed(httptest.NewRequest(http.MethodGet, "/transactions/export", nil))
			w := httptest.NewRecorder()

			handler.Export(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("text/csv; charset=utf-8"))
			Expect(w.Header().Get("Content-Disposition")).To(MatchRegexp(`attachment; filename="transactions_\d+\.csv"`))

			lines := strings.Split(strings.TrimSuffix(w.Body.String(), "\n"), "\n")
			Expect(lines).To(HaveLen(3))
			Expect(lines[0]).To(Equal("\uFEFFДата,Тип,Категория,Описание,Сумма"))
			Expect(lines[1]).To(Equal(`"05.03.2024","Расход","Продукты","say ""hi""","300"`))
			Expect(lines[2]).To(Equal(`"01.03.2024","Доход","Зарплата","","5000"`))
		})

		It("should keep the JSON export behind format=json", func() {
			req := authed(httptest.NewRequest(http.MethodGet, "/transactions/export?format=json", nil))
			w := httptest.NewRecorder()

			handler.Export(w, req)

			Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
			var list []map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &list)).To(Succeed())
			Expect(list).To(HaveLen(2))
			Expect(list[0]["type"]).To(Equal("expense"))
		})
	})

	Describe("Dashboard", func() {
		It("should apply the query filter", func() {
			post(handler.CreateIncome, `{"amount":5000,"category_id":1,"transaction_date":"2024-03-01"}`)
			post(handler.CreateExpense, `{"amount":300,"category_id":1,"transaction_date":"2024-03-05"}`)

			req := authed(httptest.NewRequest(http.MethodGet, "/transactions/dashboard?type=expense&period=month", nil))
			w := httptest.NewRecorder()
			handler.Dashboard(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var view struct {
				State struct {
					Type   string `json:"type"`
					Period string `json:"period"`
				} `json:"state"`
				Transactions []json.RawMessage `json:"transactions"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &view)).To(Succeed())
			Expect(view.State.Type).To(Equal("expense"))
			Expect(view.Transactions).To(HaveLen(1))
		})

		It("should compute a preview from client supplied records", func() {
			payload := map[string]interface{}{
				"type":   "all",
				"period": "all",
				"transactions": []map[string]interface{}{
					{"type": "income", "amount": "1000", "category_id": 1, "transaction_date": "2024-01-01"},
					{"type": "expense", "amount": "not a number", "category_id": 2, "transaction_date": nil},
					{"type": "expense", "amount": 950, "category_id": 2},
				},
			}
			raw, _ := json.Marshal(payload)
			req := httptest.NewRequest(http.MethodPost, "/transactions/dashboard", bytes.NewReader(raw))
			w := httptest.NewRecorder()

			handler.PreviewDashboard(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var view struct {
				Budget struct {
					Status string `json:"status"`
				} `json:"budget"`
				Summary struct {
					Count int `json:"count"`
				} `json:"summary"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &view)).To(Succeed())
			Expect(view.Summary.Count).To(Equal(3))
			Expect(view.Budget.Status).To(Equal("exceeded"))
		})

		It("should treat out of range amounts in a preview as zero", func() {
			payload := `{"type":"all","period":"all","transactions":[
				{"type":"expense","amount":"1e20000000","category_id":1,"transaction_date":"2024-06-01"},
				{"type":"expense","amount":"25","category_id":1,"transaction_date":"2024-06-01"}]}`
			req := httptest.NewRequest(http.MethodPost, "/transactions/dashboard/preview", strings.NewReader(payload))
			w := httptest.NewRecorder()

			handler.PreviewDashboard(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.Len()).To(BeNumerically("<", 16*1024))
			var view struct {
				Totals struct {
					Expense decimal.Decimal `json:"expense"`
				} `json:"totals"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &view)).To(Succeed())
			Expect(view.Totals.Expense.Equal(decimal.NewFromInt(25))).To(BeTrue())
		})

		It("should reject bodies over the size limit", func() {
			payload := `{"type":"all","transactions":[],"pad":"` + strings.Repeat("x", transport.MaxBodyBytes) + `"}`
			req := httptest.NewRequest(http.MethodPost, "/transactions/dashboard/preview", strings.NewReader(payload))
			w := httptest.NewRecorder()

			handler.PreviewDashboard(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Reset", func() {
		It("should report deleted counts", func() {
			post(handler.CreateIncome, `{"amount":1,"category_id":1}`)

			req := authed(httptest.NewRequest(http.MethodDelete, "/transactions/reset", nil))
			w := httptest.NewRecorder()
			handler.Reset(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"deleted":{"income":1,"expenses":0}`))
			Expect(repo.rows[category.KindIncome]).To(BeEmpty())
		})
	})
})
