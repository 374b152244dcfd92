package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/goal"
	"github.com/frahmantamala/finance-tracker/internal/report"
	"github.com/frahmantamala/finance-tracker/internal/user"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	seedUsers int
	seedSeed  uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with demo users, transactions, goals and reports for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		ctx := context.Background()
		if clearData {
			if err := clearSeedData(ctx, db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Existing data cleared")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		seeder := &demoSeeder{db: db, faker: gofakeit.New(seedSeed), hash: string(hash), now: time.Now()}

		if _, err := seeder.ensureUser(ctx, "admin@mail.com", "Admin", user.RoleAdmin); err != nil {
			log.Fatalf("failed to seed admin: %v", err)
		}
		if _, err := seeder.ensureUser(ctx, "moderator@mail.com", "Moderator", user.RoleModerator); err != nil {
			log.Fatalf("failed to seed moderator: %v", err)
		}
		fmt.Println("Seeded staff accounts: admin@mail.com, moderator@mail.com")

		for i := 0; i < seedUsers; i++ {
			id, err := seeder.ensureUser(ctx, seeder.faker.Email(), seeder.faker.Name(), user.RoleUser)
			if err != nil {
				log.Fatalf("failed to seed user: %v", err)
			}
			if err := seeder.seedFinances(ctx, id); err != nil {
				log.Fatalf("failed to seed finances for user %d: %v", id, err)
			}
		}

		fmt.Printf("Seeded %d demo users (password: password)\n", seedUsers)
	},
}

type demoSeeder struct {
	db    *sqlx.DB
	faker *gofakeit.Faker
	hash  string
	now   time.Time
}

func (s *demoSeeder) ensureUser(ctx context.Context, email, name, role string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `SELECT id FROM users WHERE email = $1`, email)
	if err == nil {
		return id, nil
	}

	lastLogin := s.faker.DateRange(s.now.AddDate(0, 0, -14), s.now)
	err = s.db.QueryRowxContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, is_active, email_verified, last_login_at, created_at)
		VALUES ($1, $2, $3, $4, true, $5, $6, $7)
		RETURNING id`,
		name, email, s.hash, role, s.faker.Bool(), lastLogin, s.faker.DateRange(s.now.AddDate(0, 0, -60), lastLogin),
	).Scan(&id)
	return id, err
}

func (s *demoSeeder) seedFinances(ctx context.Context, userID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	kinds := []struct {
		kind  category.Kind
		table string
		count int
		min   float64
		max   float64
	}{
		{category.KindIncome, "income", s.faker.IntRange(2, 5), 20000, 150000},
		{category.KindExpense, "expenses", s.faker.IntRange(10, 30), 100, 15000},
	}

	for _, k := range kinds {
		catalog := category.All(k.kind)
		query := fmt.Sprintf(`INSERT INTO %s (id_user, amount, category_id, description, transaction_date, is_recurring)
			VALUES ($1, $2, $3, $4, $5, $6)`, k.table)
		for i := 0; i < k.count; i++ {
			amount := decimal.NewFromFloat(s.faker.Float64Range(k.min, k.max)).Round(2)
			cat := catalog[s.faker.IntRange(0, len(catalog)-1)]
			date := s.faker.DateRange(s.now.AddDate(0, -6, 0), s.now)
			if _, err := tx.ExecContext(ctx, query, userID, amount, cat.ID, s.faker.Sentence(4), date, s.faker.Bool()); err != nil {
				return err
			}
		}
	}

	for i := 0; i < s.faker.IntRange(0, 3); i++ {
		target := decimal.NewFromInt(int64(s.faker.IntRange(10, 500) * 1000))
		current := target.Mul(decimal.NewFromFloat(s.faker.Float64Range(0, 1.2))).Round(2)
		deadline := s.faker.DateRange(s.now.AddDate(0, 1, 0), s.now.AddDate(1, 0, 0))
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO goals (id_user, title, target_amount, current_amount, deadline, status)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			userID, s.faker.Hobby(), target, current, deadline, goal.StatusActive); err != nil {
			return err
		}
	}

	if s.faker.Bool() {
		statuses := []string{report.StatusNew, report.StatusInProgress, report.StatusResolved, report.StatusRejected}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO reports (title, description, report_status, id_user, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			s.faker.Sentence(5), s.faker.Sentence(12), statuses[s.faker.IntRange(0, len(statuses)-1)],
			userID, s.faker.DateRange(s.now.AddDate(0, 0, -30), s.now)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func clearSeedData(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `TRUNCATE reports, goals, expenses, income, users RESTART IDENTITY CASCADE`)
	return err
}

func init() {
	seedCmd.Flags().IntVar(&seedUsers, "users", 10, "number of demo users to create")
	seedCmd.Flags().Uint64Var(&seedSeed, "seed", 0, "faker seed, 0 picks a random one")
}
