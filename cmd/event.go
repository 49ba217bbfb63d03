package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/workforce-admin/internal/core/events"
	"github.com/frahmantamala/workforce-admin/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect the in-process event bus that feeds the request event stream`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a requests.changed event",
	Long:  `Publish a requests.changed event to a local bus and print what its subscribers receive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishRequestsChanged(cmd.Context())
	},
}

var (
	eventRequestID int64
	eventChange    string
)

func publishRequestsChanged(ctx context.Context) error {
	lg := logger.LoggerWrapper()
	bus := events.NewEventBus(lg)

	bus.Subscribe(events.EventTypeRequestsChanged, func(ctx context.Context, event events.Event) error {
		lg.Info("subscriber received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	event := events.NewRequestsChangedEvent(eventRequestID, eventChange)
	lg.Info("publishing event", "event_type", event.EventType(), "event_id", event.EventID())

	if err := bus.PublishSync(ctx, event); err != nil {
		lg.Error("failed to publish event", "error", err)
		return err
	}
	lg.Info("event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventRequestID, "request-id", 0, "request the change refers to")
	publishEventCmd.Flags().StringVar(&eventChange, "change", events.RequestChangeSubmitted, "submitted, responded or deleted")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
