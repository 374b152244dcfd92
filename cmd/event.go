package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/report"
	"github.com/frahmantamala/finance-tracker/internal/user"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event bus commands",
	Long:  `Publish sample domain events through the in-process bus to check subscribers`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a sample domain event",
	Long:  fmt.Sprintf("Publish a sample event. Known types: %v", knownEventTypes()),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishSampleEvent(cmd.Context(), args[0])
	},
}

var (
	eventUserID int64
	eventAmount string
)

var sampleEvents = map[string]func() (events.BaseEvent, error){
	events.UserRegisteredEvent: func() (events.BaseEvent, error) {
		return events.NewUserRegistered(eventUserID), nil
	},
	events.UserLoggedInEvent: func() (events.BaseEvent, error) {
		return events.NewUserLoggedIn(eventUserID, user.RoleUser), nil
	},
	events.TransactionCreatedEvent: func() (events.BaseEvent, error) {
		amount, err := decimal.NewFromString(eventAmount)
		if err != nil {
			return events.BaseEvent{}, fmt.Errorf("invalid --amount: %w", err)
		}
		return events.NewTransactionCreated(eventUserID, "expense", 1, amount), nil
	},
	events.TransactionsResetEvent: func() (events.BaseEvent, error) {
		return events.NewTransactionsReset(eventUserID, 0, 0), nil
	},
	events.ReportCreatedEvent: func() (events.BaseEvent, error) {
		return events.NewReportCreated(eventUserID, 1), nil
	},
	events.ReportStatusChangedEvent: func() (events.BaseEvent, error) {
		return events.NewReportStatusChanged(1, report.StatusResolved), nil
	},
}

func knownEventTypes() []string {
	types := make([]string, 0, len(sampleEvents))
	for t := range sampleEvents {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func publishSampleEvent(ctx context.Context, eventType string) error {
	build, ok := sampleEvents[eventType]
	if !ok {
		return fmt.Errorf("unknown event type %q, expected one of %v", eventType, knownEventTypes())
	}

	event, err := build()
	if err != nil {
		return err
	}

	lg := logger.LoggerWrapper()
	bus := events.NewEventBus(lg)
	bus.Subscribe(eventType, func(ctx context.Context, e events.Event) error {
		lg.Info("handler received event",
			"event_id", e.EventID(),
			"event_type", e.EventType(),
			"payload", e.Payload())
		return nil
	})

	lg.Info("publishing event", "event_type", eventType, "event_id", event.ID)
	if err := bus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	lg.Info("event published")
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventUserID, "user", 1, "user id carried by the event")
	publishEventCmd.Flags().StringVar(&eventAmount, "amount", "100.00", "amount for transaction.created")

	eventCmd.AddCommand(publishEventCmd)
	rootCmd.AddCommand(eventCmd)
}
