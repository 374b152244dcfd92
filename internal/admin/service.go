package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/report"
	"github.com/frahmantamala/finance-tracker/internal/user"
	"golang.org/x/sync/errgroup"
)

const msgUserDeleted = "Пользователь удален"

type Service struct {
	users   user.Repository
	reports report.Repository
	stats   StatsRepository
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(users user.Repository, reports report.Repository, stats StatsRepository, logger *slog.Logger) *Service {
	return &Service{
		users:   users,
		reports: reports,
		stats:   stats,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) ListUsers(ctx context.Context) ([]*user.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*UserDetails, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stats, err := s.stats.UserStats(ctx, id)
	if err != nil {
		s.logger.Error("failed to load user stats", "error", err, "user_id", id)
		return nil, err
	}

	return &UserDetails{User: u, Stats: stats}, nil
}

func (s *Service) UpdateUserStatus(ctx context.Context, id int64, dto UpdateStatusDTO) (*user.User, error) {
	active, err := dto.Value()
	if err != nil {
		return nil, err
	}

	u, err := s.users.UpdateStatus(ctx, id, active)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user status changed", "user_id", id, "is_active", active)
	return u, nil
}

func (s *Service) UpdateUserRole(ctx context.Context, id int64, dto UpdateRoleDTO) (*user.User, error) {
	if !validRole(dto.Role) {
		return nil, ErrInvalidRole
	}

	u, err := s.users.UpdateRole(ctx, id, dto.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user role changed", "user_id", id, "role", dto.Role)
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64) (*DeleteUserResponse, error) {
	if err := s.users.Delete(ctx, id); err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			s.logger.Error("failed to delete user", "error", err, "user_id", id)
		}
		return nil, err
	}

	s.logger.Info("user deleted", "user_id", id)
	return &DeleteUserResponse{Message: msgUserDeleted, ID: id}, nil
}

// Stats builds the dashboard. period is the number of days in the
// registrations series; anything unparseable or non-positive falls back to 30.
func (s *Service) Stats(ctx context.Context, period string) (*Stats, error) {
	days := ParsePeriod(period)
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	result := &Stats{}
	var users []*user.User

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		result.TotalUsers, err = s.stats.CountUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		result.ActiveToday, err = s.stats.CountActiveBetween(gctx, dayStart, dayStart.AddDate(0, 0, 1))
		return err
	})
	g.Go(func() (err error) {
		result.BlockedUsers, err = s.stats.CountBlocked(gctx)
		return err
	})
	g.Go(func() (err error) {
		result.NewReports, err = s.stats.CountReportsWithStatus(gctx, report.StatusNew)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.users.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to build admin stats", "error", err)
		return nil, err
	}

	result.Registrations = registrationSeries(users, now, days)
	result.ActivityByDay = activityByWeekday(users, now.Location())
	result.RolesDistribution = rolesDistribution(users)
	return result, nil
}

// Logs synthesizes an activity feed from last logins and submitted reports.
func (s *Service) Logs(ctx context.Context) ([]LogEntry, error) {
	var (
		users   []*user.User
		reports []*report.Report
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.users.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		reports, err = s.reports.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to build admin logs", "error", err)
		return nil, err
	}

	return BuildLogs(users, reports), nil
}

func ParsePeriod(raw string) int {
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return DefaultStatsPeriod
	}
	if days > MaxStatsPeriod {
		return MaxStatsPeriod
	}
	return days
}

func BuildLogs(users []*user.User, reports []*report.Report) []LogEntry {
	logs := make([]LogEntry, 0, len(users)+len(reports))
	for _, u := range users {
		if u.LastLoginAt == nil {
			continue
		}
		logs = append(logs, LogEntry{
			Time:    *u.LastLoginAt,
			Level:   LevelInfo,
			Message: fmt.Sprintf("Пользователь %s (%s) вошел в систему", u.Name, u.Email),
		})
	}
	for _, r := range reports {
		level := LevelInfo
		if r.ReportStatus == report.StatusNew {
			level = LevelWarning
		}
		author := "Неизвестно"
		if r.UserName != nil && *r.UserName != "" {
			author = *r.UserName
		}
		logs = append(logs, LogEntry{
			Time:    r.CreatedAt,
			Level:   level,
			Message: fmt.Sprintf("Создан репорт: %s от пользователя %s", r.Title, author),
		})
	}

	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Time.After(logs[j].Time)
	})
	if len(logs) > MaxLogEntries {
		logs = logs[:MaxLogEntries]
	}
	return logs
}

// registrationSeries counts sign-ups per UTC calendar day for the last days
// days, oldest first, ending today.
func registrationSeries(users []*user.User, now time.Time, days int) []DailyCount {
	perDay := make(map[string]int, len(users))
	for _, u := range users {
		if u.CreatedAt.IsZero() {
			continue
		}
		perDay[u.CreatedAt.UTC().Format(time.DateOnly)]++
	}

	series := make([]DailyCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).UTC().Format(time.DateOnly)
		series = append(series, DailyCount{Date: date, Count: perDay[date]})
	}
	return series
}

// activityByWeekday buckets last logins Monday first.
func activityByWeekday(users []*user.User, loc *time.Location) [7]int {
	var activity [7]int
	for _, u := range users {
		if u.LastLoginAt == nil {
			continue
		}
		wd := int(u.LastLoginAt.In(loc).Weekday())
		activity[(wd+6)%7]++
	}
	return activity
}

func rolesDistribution(users []*user.User) map[string]int {
	roles := make(map[string]int)
	for _, u := range users {
		roles[u.EffectiveRole()]++
	}
	return roles
}

func validRole(role string) bool {
	for _, r := range user.Roles {
		if r == role {
			return true
		}
	}
	return false
}
