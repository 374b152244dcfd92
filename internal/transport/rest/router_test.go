package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/admin"
	adminPostgres "github.com/frahmantamala/finance-tracker/internal/admin/postgres"
	"github.com/frahmantamala/finance-tracker/internal/auth"
	"github.com/frahmantamala/finance-tracker/internal/category"
	goalDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/goal"
	reportDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/report"
	transactionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/goal"
	goalPostgres "github.com/frahmantamala/finance-tracker/internal/goal/postgres"
	"github.com/frahmantamala/finance-tracker/internal/metrics"
	"github.com/frahmantamala/finance-tracker/internal/report"
	reportPostgres "github.com/frahmantamala/finance-tracker/internal/report/postgres"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	transactionPostgres "github.com/frahmantamala/finance-tracker/internal/transaction/postgres"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/transport/middleware"
	"github.com/frahmantamala/finance-tracker/internal/transport/rest"
	"github.com/frahmantamala/finance-tracker/internal/transport/swagger"
	"github.com/frahmantamala/finance-tracker/internal/user"
	userPostgres "github.com/frahmantamala/finance-tracker/internal/user/postgres"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var _ = Describe("Router", func() {
	var (
		db       *gorm.DB
		sqlxDB   *sqlx.DB
		bus      *events.EventBus
		recorder *metrics.Recorder
		router   *chi.Mux
	)

	build := func(limiter *middleware.RateLimiter) {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		userRepo := userPostgres.NewUserRepository(db)
		reportRepo := reportPostgres.NewReportRepository(db)
		hasher := auth.NewBcryptHasher(bcrypt.MinCost)
		tokens := auth.NewJWTTokenGenerator("router-test-secret-key", time.Hour)

		spec, err := swagger.LoadSpec(filepath.Join("..", "..", "..", "api", "openapi.yml"))
		Expect(err).NotTo(HaveOccurred())

		base := transport.NewBaseHandler(lg)
		handlers := rest.Handlers{
			Health:      rest.NewHealthHandler(base, sqlxDB),
			Auth:        auth.NewHandler(base, auth.NewService(userRepo, tokens, hasher, bus, auth.Config{PublicURL: "http://localhost/api/v1", VerificationTTL: time.Hour}, lg)),
			RBAC:        auth.NewRBACAuthorization(base, lg),
			User:        user.NewHandler(base, user.NewService(userRepo, hasher, lg)),
			Category:    category.NewHandler(base),
			Transaction: transaction.NewHandler(base, transaction.NewService(transactionPostgres.NewTransactionRepository(db), bus, lg)),
			Goal:        goal.NewHandler(base, goal.NewService(goalPostgres.NewGoalRepository(db), lg)),
			Report:      report.NewHandler(base, report.NewService(reportRepo, bus, lg)),
			Admin:       admin.NewHandler(base, admin.NewService(userRepo, reportRepo, adminPostgres.NewStatsRepository(sqlxDB), lg)),
		}

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, handlers, rest.Options{
			Logger:         lg,
			AllowedOrigins: []string{"http://localhost:3000"},
			Metrics:        recorder,
			MetricsPath:    "/metrics",
			RateLimiter:    limiter,
			Spec:           spec,
		})
	}

	do := func(method, path, token string, body interface{}) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(payload)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	signUp := func(name, email string) string {
		rec := do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"name": name, "email": email, "password": "secret123"})
		Expect(rec.Code).To(Equal(http.StatusCreated))

		rec = do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": "secret123"})
		Expect(rec.Code).To(Equal(http.StatusOK))
		var body struct {
			Token string `json:"token"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Token).NotTo(BeEmpty())
		return body.Token
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(&userDatamodel.User{}, &goalDatamodel.Goal{}, &reportDatamodel.Report{})).To(Succeed())
		Expect(db.Table(transactionDatamodel.IncomeTable).AutoMigrate(&transactionDatamodel.Transaction{})).To(Succeed())
		Expect(db.Table(transactionDatamodel.ExpenseTable).AutoMigrate(&transactionDatamodel.Transaction{})).To(Succeed())

		sqlxDB = sqlx.NewDb(sqlDB, "sqlite3")
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
		recorder = metrics.NewRecorder()
		recorder.Subscribe(bus)
	})

	Context("public routes", func() {
		BeforeEach(func() { build(nil) })

		It("answers health and ping", func() {
			rec := do(http.MethodGet, "/api/v1/health", "", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"status":"healthy"`))

			rec = do(http.MethodGet, "/api/v1/ping", "", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("serves the category catalog", func() {
			rec := do(http.MethodGet, "/api/v1/categories?kind=expense", "", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("Продукты"))
		})

		It("serves the openapi document", func() {
			rec := do(http.MethodGet, swagger.SpecRoute, "", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(HavePrefix("openapi: 3.0.3"))
		})

		It("tags responses with a trace id and CORS headers", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
			req.Header.Set("Origin", "http://localhost:3000")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Header().Get(middleware.TraceHeader)).NotTo(BeEmpty())
			Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
		})

		It("rejects protected routes without a token", func() {
			rec := do(http.MethodGet, "/api/v1/transactions/dashboard", "", nil)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Context("authenticated flow", func() {
		BeforeEach(func() { build(nil) })

		It("records transactions and renders the dashboard", func() {
			token := signUp("Анна", "anna@example.com")

			rec := do(http.MethodPost, "/api/v1/transactions/income", token, map[string]interface{}{"amount": "1000", "category_id": 1})
			Expect(rec.Code).To(Equal(http.StatusCreated))
			rec = do(http.MethodPost, "/api/v1/transactions/expenses", token, map[string]interface{}{"amount": "250.50", "category_id": 2})
			Expect(rec.Code).To(Equal(http.StatusCreated))

			rec = do(http.MethodGet, "/api/v1/transactions/dashboard?type=all&period=all", token, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var view struct {
				Totals struct {
					Income  decimal.Decimal `json:"income"`
					Expense decimal.Decimal `json:"expense"`
					Balance decimal.Decimal `json:"balance"`
				} `json:"totals"`
				Transactions []json.RawMessage `json:"transactions"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &view)).To(Succeed())
			Expect(view.Transactions).To(HaveLen(2))
			Expect(view.Totals.Income.Equal(decimal.RequireFromString("1000"))).To(BeTrue())
			Expect(view.Totals.Expense.Equal(decimal.RequireFromString("250.50"))).To(BeTrue())
			Expect(view.Totals.Balance.Equal(decimal.RequireFromString("749.50"))).To(BeTrue())

			rec = do(http.MethodGet, "/api/v1/transactions/export", token, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/csv"))

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			Expect(bus.Wait(ctx)).To(Succeed())

			rec = do(http.MethodGet, "/api/v1/metrics", "", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`finance_tracker_domain_events_total{type="transaction.created"} 2`))
			Expect(rec.Body.String()).To(ContainSubstring(`route="/api/v1/transactions/dashboard"`))
		})

		It("keeps admin routes behind the role gate", func() {
			token := signUp("Иван", "ivan@example.com")

			rec := do(http.MethodGet, "/api/v1/admin/stats", token, nil)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			rec = do(http.MethodGet, "/api/v1/admin/reports", token, nil)
			Expect(rec.Code).To(Equal(http.StatusForbidden))

			Expect(db.Model(&userDatamodel.User{}).Where("email = ?", "ivan@example.com").Update("role", user.RoleModerator).Error).To(Succeed())
			rec = do(http.MethodGet, "/api/v1/admin/reports", token, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			rec = do(http.MethodGet, "/api/v1/admin/stats", token, nil)
			Expect(rec.Code).To(Equal(http.StatusForbidden))

			Expect(db.Model(&userDatamodel.User{}).Where("email = ?", "ivan@example.com").Update("role", user.RoleAdmin).Error).To(Succeed())
			rec = do(http.MethodGet, "/api/v1/admin/stats?period=7", token, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"totalUsers":1`))
		})
	})

	Context("rate limiting", func() {
		It("throttles the public auth endpoints", func() {
			build(middleware.NewRateLimiter(0.001, 1))

			rec := do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "a@b.c", "password": "x"})
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))

			rec = do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "a@b.c", "password": "x"})
			Expect(rec.Code).To(Equal(http.StatusTooManyRequests))

			rec = do(http.MethodGet, "/api/v1/ping", "", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})
})

var _ = Describe("HealthHandler", func() {
	It("reports unhealthy when the database is gone", func() {
		gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := gdb.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())

		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		h := rest.NewHealthHandler(transport.NewBaseHandler(lg), sqlx.NewDb(sqlDB, "sqlite3"))

		rec := httptest.NewRecorder()
		h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(rec.Body.String()).To(ContainSubstring(`"status":"unhealthy"`))
	})
})
