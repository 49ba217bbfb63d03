package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/workforce-admin/internal/core/status"
	employeePostgres "github.com/frahmantamala/workforce-admin/internal/employee/postgres"
	"github.com/frahmantamala/workforce-admin/internal/project"
	projectPostgres "github.com/frahmantamala/workforce-admin/internal/project/postgres"
	"github.com/frahmantamala/workforce-admin/internal/request"
	taskPostgres "github.com/frahmantamala/workforce-admin/internal/task/postgres"
	"github.com/frahmantamala/workforce-admin/pkg/client"
	"github.com/frahmantamala/workforce-admin/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers: the scheduled timeline digest and the request feed follower.`,
}

var timelineWorkerCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Start the timeline digest scheduler",
	Long:  `Log every project that is overdue or near its deadline on the configured cron schedule`,
	Run: func(cmd *cobra.Command, args []string) {
		startTimelineWorker()
	},
}

var watchWorkerCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the request event stream of a running server",
	Long:  `Sign in to a running server, load the dashboard and keep the request collection fresh from the event stream`,
	Run: func(cmd *cobra.Command, args []string) {
		startWatchWorker()
	},
}

var (
	digestSchedule string
	runOnce        bool
	watchBaseURL   string
	watchEmail     string
	watchPassword  string
)

func startTimelineWorker() {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	lg := logger.LoggerWrapper()

	sqlDB, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	db, err := initGorm(sqlDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize gorm: %v\n", err)
		os.Exit(1)
	}

	projects := project.NewService(
		projectPostgres.NewProjectRepository(db),
		employeePostgres.NewEmployeeRepository(db),
		taskPostgres.NewTaskRepository(db),
		lg,
	)

	digest := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		risky, err := projects.AtRisk(ctx)
		if err != nil {
			lg.Error("timeline digest failed", "error", err)
			return
		}
		for _, o := range risky {
			lg.Warn("project needs attention",
				"project_id", o.ID,
				"name", o.Name,
				"manager_id", o.ManagerID,
				"timeline", o.Timeline.Label,
				"end_date", o.EndDate.Format(time.DateOnly),
				"progress_percent", o.Progress.Percent)
		}
		lg.Info("timeline digest finished", "at_risk", len(risky))
	}

	if runOnce {
		digest()
		return
	}

	schedule := getStringFlag(digestSchedule, config.Scheduler.TimelineDigest)
	cronLogger := cron.PrintfLogger(slogPrintf{lg})
	c := cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.SkipIfStillRunning(cronLogger)))
	if _, err := c.AddFunc(schedule, digest); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid digest schedule %q: %v\n", schedule, err)
		os.Exit(1)
	}
	c.Start()
	lg.Info("timeline worker is running. Press Ctrl+C to stop.", "schedule", schedule)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	lg.Info("received signal, shutting down timeline worker", "signal", sig)

	select {
	case <-c.Stop().Done():
		lg.Info("timeline worker shutdown complete")
	case <-time.After(30 * time.Second):
		lg.Warn("shutdown timeout reached, forcing exit")
	}
}

func startWatchWorker() {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	lg := logger.LoggerWrapper()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.New(client.Config{
		BaseURL: getStringFlag(watchBaseURL, config.Client.BaseURL),
		Timeout: config.Client.Timeout,
	}, lg)

	if err := api.Login(ctx, getStringFlag(watchEmail, config.Client.Email), getStringFlag(watchPassword, config.Client.Password)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sign in: %v\n", err)
		os.Exit(1)
	}

	dashboard, err := api.LoadDashboard(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load dashboard: %v\n", err)
		os.Exit(1)
	}
	lg.Info("dashboard loaded",
		"actor", dashboard.Me.Name,
		"role", dashboard.Me.Role.String(),
		"projects", len(dashboard.Projects),
		"tasks", len(dashboard.Tasks),
		"requests", len(dashboard.Requests))

	feed := client.NewRequestFeed(api.Requests, func(requests []*request.Request) {
		pending := 0
		for _, r := range requests {
			if r.Status == status.RequestPending {
				pending++
			}
		}
		lg.Info("request collection refreshed", "total", len(requests), "pending", pending)
	}, func(err error) {
		lg.Error("request refresh failed", "error", err)
	})
	defer feed.Close()

	lg.Info("watch worker is running. Press Ctrl+C to stop.")
	if err := feed.Follow(ctx, api); err != nil && ctx.Err() == nil {
		lg.Error("event stream ended", "error", err)
		os.Exit(1)
	}
	lg.Info("watch worker stopped")
}

// slogPrintf adapts the structured logger to cron's printf logger.
type slogPrintf struct {
	lg interface{ Info(msg string, args ...any) }
}

func (p slogPrintf) Printf(format string, args ...interface{}) {
	p.lg.Info(fmt.Sprintf(format, args...))
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func init() {
	timelineWorkerCmd.Flags().StringVar(&digestSchedule, "schedule", "", "cron schedule for the digest (overrides config)")
	timelineWorkerCmd.Flags().BoolVar(&runOnce, "once", false, "run the digest once and exit")

	watchWorkerCmd.Flags().StringVar(&watchBaseURL, "base-url", "", "API base URL (overrides config)")
	watchWorkerCmd.Flags().StringVar(&watchEmail, "email", "", "sign-in email (overrides config)")
	watchWorkerCmd.Flags().StringVar(&watchPassword, "password", "", "sign-in password (overrides config)")

	workerCmd.AddCommand(timelineWorkerCmd)
	workerCmd.AddCommand(watchWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
