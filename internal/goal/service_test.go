package goal_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	goalDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/goal"
	"github.com/frahmantamala/finance-tracker/internal/goal"
	"github.com/frahmantamala/finance-tracker/internal/goal/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var _ = Describe("Goal Service", func() {
	var (
		db      *gorm.DB
		service *goal.Service
		ctx     context.Context
		now     time.Time
	)

	decodeCreate := func(payload string) goal.CreateGoalDTO {
		var dto goal.CreateGoalDTO
		Expect(json.Unmarshal([]byte(payload), &dto)).To(Succeed())
		return dto
	}

	decodeUpdate := func(payload string) goal.UpdateGoalDTO {
		var dto goal.UpdateGoalDTO
		Expect(json.Unmarshal([]byte(payload), &dto)).To(Succeed())
		return dto
	}

	messageOf := func(err error) string {
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue(), "expected an AppError, got %v", err)
		return appErr.Message
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&goalDatamodel.Goal{})).To(Succeed())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = goal.NewService(postgres.NewGoalRepository(db), logger).WithClock(func() time.Time { return now })
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Create", func() {
		It("should trim the title and apply defaults", func() {
			g, err := service.Create(ctx, 1, decodeCreate(`{"title":"  Отпуск  ","target_amount":"100000"}`))

			Expect(err).NotTo(HaveOccurred())
			Expect(g.ID).To(BeNumerically(">", 0))
			Expect(g.Title).To(Equal("Отпуск"))
			Expect(g.Status).To(Equal(goal.StatusActive))
			Expect(g.CurrentAmount.IsZero()).To(BeTrue())
			Expect(g.Deadline).To(BeNil())
			Expect(g.Progress.Percent).To(BeZero())
		})

		It("should compute progress", func() {
			g, err := service.Create(ctx, 1, decodeCreate(`{"title":"Ноутбук","target_amount":1000,"current_amount":250,"deadline":"2024-12-31"}`))

			Expect(err).NotTo(HaveOccurred())
			Expect(g.Progress.Percent).To(Equal(int64(25)))
			Expect(g.Progress.BarWidth).To(Equal(int64(25)))
			Expect(g.Deadline.Format("2006-01-02")).To(Equal("2024-12-31"))
		})

		It("should accept a deadline of today", func() {
			_, err := service.Create(ctx, 1, decodeCreate(`{"title":"Сегодня","target_amount":10,"deadline":"2024-03-15"}`))
			Expect(err).NotTo(HaveOccurred())
		})

		DescribeTable("should reject invalid goals",
			func(payload, expected string) {
				_, err := service.Create(ctx, 1, decodeCreate(payload))
				Expect(messageOf(err)).To(Equal(expected))
			},
			Entry("blank title", `{"title":"   ","target_amount":10}`, "Название цели обязательно"),
			Entry("missing target", `{"title":"x"}`, "Целевая сумма должна быть больше нуля"),
			Entry("zero target", `{"title":"x","target_amount":0}`, "Целевая сумма должна быть больше нуля"),
			Entry("negative current", `{"title":"x","target_amount":10,"current_amount":-1}`, "Текущая сумма не может быть отрицательной"),
			Entry("past deadline", `{"title":"x","target_amount":10,"deadline":"2024-03-14"}`, "Дедлайн не может быть в прошлом"),
			Entry("garbage deadline", `{"title":"x","target_amount":10,"deadline":"soon"}`, "Некорректная дата дедлайна"),
			Entry("target with a huge exponent", `{"title":"x","target_amount":"1e20000000"}`, "Некорректная сумма"),
			Entry("target beyond the column range", `{"title":"x","target_amount":10000000000}`, "Некорректная сумма"),
			Entry("current with a tiny exponent", `{"title":"x","target_amount":10,"current_amount":"1e-20000000"}`, "Некорректная сумма"),
		)
	})

	Describe("List", func() {
		It("should return only the user's goals, newest first", func() {
			first, _ := service.Create(ctx, 1, decodeCreate(`{"title":"a","target_amount":10}`))
			second, _ := service.Create(ctx, 1, decodeCreate(`{"title":"b","target_amount":10}`))
			_, _ = service.Create(ctx, 2, decodeCreate(`{"title":"c","target_amount":10}`))

			goals, err := service.List(ctx, 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(goals).To(HaveLen(2))
			Expect(goals[0].ID).To(Equal(second.ID))
			Expect(goals[1].ID).To(Equal(first.ID))
		})
	})

	Describe("Update", func() {
		var existing *goal.Goal

		BeforeEach(func() {
			var err error
			existing, err = service.Create(ctx, 1, decodeCreate(`{"title":"Машина","target_amount":1000,"deadline":"2025-01-01"}`))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should change only the given fields", func() {
			g, err := service.Update(ctx, existing.ID, 1, decodeUpdate(`{"current_amount":1500}`))

			Expect(err).NotTo(HaveOccurred())
			Expect(g.Title).To(Equal("Машина"))
			Expect(g.CurrentAmount.String()).To(Equal("1500"))
			Expect(g.Progress.Percent).To(Equal(int64(150)))
			Expect(g.Progress.BarWidth).To(Equal(int64(100)))
			Expect(g.Deadline).NotTo(BeNil())
		})

		It("should clear the deadline on an explicit null", func() {
			g, err := service.Update(ctx, existing.ID, 1, decodeUpdate(`{"deadline":null}`))

			Expect(err).NotTo(HaveOccurred())
			Expect(g.Deadline).To(BeNil())
		})

		It("should reject an empty update", func() {
			_, err := service.Update(ctx, existing.ID, 1, decodeUpdate(`{}`))
			Expect(errors.Is(err, internal.ErrNoDataToUpdate)).To(BeTrue())
			Expect(messageOf(err)).To(Equal("Нет данных для обновления"))
		})

		It("should not touch goals of other users", func() {
			_, err := service.Update(ctx, existing.ID, 2, decodeUpdate(`{"title":"чужая"}`))
			Expect(errors.Is(err, goal.ErrGoalNotFound)).To(BeTrue())
		})

		It("should reject out of range amounts", func() {
			_, err := service.Update(ctx, existing.ID, 1, decodeUpdate(`{"current_amount":"-1e20000000"}`))
			Expect(messageOf(err)).To(Equal("Некорректная сумма"))

			_, err = service.Update(ctx, existing.ID, 1, decodeUpdate(`{"target_amount":"1e20000000"}`))
			Expect(messageOf(err)).To(Equal("Некорректная сумма"))
		})

		It("should reject an unknown status", func() {
			_, err := service.Update(ctx, existing.ID, 1, decodeUpdate(`{"status":"done"}`))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("should delete and then report not found", func() {
			g, _ := service.Create(ctx, 1, decodeCreate(`{"title":"a","target_amount":10}`))

			resp, err := service.Delete(ctx, g.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Message).To(Equal("Цель удалена"))

			_, err = service.Delete(ctx, g.ID, 1)
			Expect(errors.Is(err, goal.ErrGoalNotFound)).To(BeTrue())
		})
	})
})
