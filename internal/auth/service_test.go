package auth_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/auth"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/finance-tracker/internal/user"
	"github.com/frahmantamala/finance-tracker/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type capturePublisher struct {
	events []events.Event
}

func (c *capturePublisher) Publish(_ context.Context, event events.Event) error {
	c.events = append(c.events, event)
	return nil
}

func (c *capturePublisher) types() []string {
	out := make([]string, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.EventType())
	}
	return out
}

func newTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	Expect(err).NotTo(HaveOccurred())
	sqlDB, err := db.DB()
	Expect(err).NotTo(HaveOccurred())
	sqlDB.SetMaxOpenConns(1)
	Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

var _ = Describe("Auth Service", func() {
	var (
		ctx       context.Context
		users     user.Repository
		tokens    *auth.JWTTokenGenerator
		publisher *capturePublisher
		service   *auth.Service
		now       time.Time
	)

	register := func(name, email, password string) *user.User {
		resp, err := service.Register(ctx, auth.RegisterDTO{Name: name, Email: email, Password: password})
		Expect(err).NotTo(HaveOccurred())
		return resp.User
	}

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2024, time.May, 10, 9, 30, 0, 0, time.UTC)
		users = postgres.NewUserRepository(newTestDB())
		tokens = auth.NewJWTTokenGenerator("test-secret", 24*time.Hour)
		publisher = &capturePublisher{}
		service = auth.NewService(users, tokens, auth.NewBcryptHasher(bcrypt.MinCost), publisher,
			auth.Config{PublicURL: "http://localhost:8080/", VerificationTTL: time.Hour}, testLogger()).
			WithClock(func() time.Time { return now })
	})

	Describe("Register", func() {
		It("creates an active user with the default role", func() {
			resp, err := service.Register(ctx, auth.RegisterDTO{Name: " Анна ", Email: "anna@example.com", Password: "secret1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Message).To(Equal("User created"))
			Expect(resp.User.ID).To(BeNumerically(">", 0))
			Expect(resp.User.Name).To(Equal("Анна"))
			Expect(resp.User.Role).To(Equal(user.RoleUser))
			Expect(resp.User.IsActive).To(BeTrue())
			Expect(resp.User.EmailVerified).To(BeFalse())
			Expect(resp.User.PasswordHash).NotTo(Equal("secret1"))
			Expect(publisher.types()).To(ConsistOf(events.UserRegisteredEvent))
		})

		It("rejects a duplicate email with a conflict", func() {
			register("Анна", "anna@example.com", "secret1")

			_, err := service.Register(ctx, auth.RegisterDTO{Name: "Другая", Email: "anna@example.com", Password: "secret2"})
			Expect(errors.Is(err, user.ErrEmailTaken)).To(BeTrue())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
		})

		DescribeTable("rejects invalid input",
			func(dto auth.RegisterDTO, field string) {
				_, err := service.Register(ctx, dto)
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.StatusCode).To(Equal(400))
				details, ok := appErr.Details.(internal.ValidationErrors)
				Expect(ok).To(BeTrue())
				Expect(details.Errors[0].Field).To(Equal(field))
			},
			Entry("short password", auth.RegisterDTO{Name: "A", Email: "a@example.com", Password: "123"}, "password"),
			Entry("missing name", auth.RegisterDTO{Name: "  ", Email: "a@example.com", Password: "secret1"}, "name"),
			Entry("malformed email", auth.RegisterDTO{Name: "A", Email: "not-an-email", Password: "secret1"}, "email"),
		)
	})

	Describe("Login", func() {
		BeforeEach(func() {
			register("Анна", "anna@example.com", "secret1")
			publisher.events = nil
		})

		It("issues a token and stamps the last login", func() {
			resp, err := service.Login(ctx, auth.LoginDTO{Email: "anna@example.com", Password: "secret1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Token).NotTo(BeEmpty())
			Expect(resp.User.LastLoginAt).NotTo(BeNil())
			Expect(resp.User.LastLoginAt.Equal(now)).To(BeTrue())

			claims, err := tokens.Validate(resp.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(resp.User.ID))
			Expect(publisher.types()).To(ConsistOf(events.UserLoggedInEvent))
		})

		It("returns the same error for an unknown email and a wrong password", func() {
			_, err := service.Login(ctx, auth.LoginDTO{Email: "nobody@example.com", Password: "secret1"})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))

			_, err = service.Login(ctx, auth.LoginDTO{Email: "anna@example.com", Password: "wrong"})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
			Expect(publisher.events).To(BeEmpty())
		})

		It("refuses blocked accounts", func() {
			u, err := users.GetByEmail(ctx, "anna@example.com")
			Expect(err).NotTo(HaveOccurred())
			_, err = users.UpdateStatus(ctx, u.ID, false)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Login(ctx, auth.LoginDTO{Email: "anna@example.com", Password: "secret1"})
			Expect(err).To(MatchError(auth.ErrLoginBlocked))
		})
	})

	Describe("Authenticate", func() {
		It("resolves a valid token to the caller", func() {
			u := register("Анна", "anna@example.com", "secret1")
			token, err := tokens.Generate(u.ID)
			Expect(err).NotTo(HaveOccurred())

			authUser, err := service.Authenticate(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(authUser.ID).To(Equal(u.ID))
			Expect(authUser.Role).To(Equal(user.RoleUser))
		})

		It("rejects missing, garbage and expired tokens", func() {
			_, err := service.Authenticate(ctx, "")
			Expect(err).To(MatchError(internal.ErrMissingToken))

			_, err = service.Authenticate(ctx, "not-a-jwt")
			Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())

			u := register("Анна", "anna@example.com", "secret1")
			expired, err := auth.NewJWTTokenGenerator("test-secret", -time.Minute).Generate(u.ID)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Authenticate(ctx, expired)
			Expect(errors.Is(err, internal.ErrTokenExpired)).To(BeTrue())
		})

		It("rejects tokens signed with another secret", func() {
			u := register("Анна", "anna@example.com", "secret1")
			forged, err := auth.NewJWTTokenGenerator("other-secret", time.Hour).Generate(u.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Authenticate(ctx, forged)
			Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())
		})

		It("stops accepting tokens once the account is blocked", func() {
			u := register("Анна", "anna@example.com", "secret1")
			token, err := tokens.Generate(u.ID)
			Expect(err).NotTo(HaveOccurred())
			_, err = users.UpdateStatus(ctx, u.ID, false)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Authenticate(ctx, token)
			Expect(err).To(MatchError(user.ErrAccountBlocked))
		})
	})

	Describe("Email verification", func() {
		It("issues a link and confirms the email with its token", func() {
			u := register("Анна", "anna@example.com", "secret1")

			resp, err := service.SendVerification(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.VerificationLink).To(HavePrefix("http://localhost:8080/api/v1/auth/verify-email?token="))

			token := strings.TrimPrefix(resp.VerificationLink, "http://localhost:8080/api/v1/auth/verify-email?token=")
			Expect(token).To(HaveLen(64))

			msg, err := service.VerifyEmail(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.Message).To(Equal("Email успешно подтвержден"))

			stored, err := users.GetByID(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.EmailVerified).To(BeTrue())
			Expect(stored.EmailVerificationToken).To(BeNil())

			_, err = service.SendVerification(ctx, u.ID)
			Expect(err).To(MatchError(auth.ErrEmailVerified))
		})

		It("rejects expired and unknown tokens", func() {
			u := register("Анна", "anna@example.com", "secret1")
			resp, err := service.SendVerification(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			token := resp.VerificationLink[strings.Index(resp.VerificationLink, "=")+1:]

			now = now.Add(2 * time.Hour)
			_, err = service.VerifyEmail(ctx, token)
			Expect(err).To(MatchError(auth.ErrBadVerifyToken))

			_, err = service.VerifyEmail(ctx, "")
			Expect(err).To(MatchError(auth.ErrMissingVerifyToken))
		})
	})
})
