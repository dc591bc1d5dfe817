package app

import (
	"context"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/interfaces/scheduler"
)

// ScheduledJobs are the recurring triggers run by cmd/scheduler. Each tick
// is logged with its report; errors abort only that tick.
func (a *App) ScheduledJobs() []scheduler.Job {
	cfg := a.Config
	return []scheduler.Job{
		{
			Name:    "live_manager",
			Spec:    cfg.SchedulerLiveCron,
			Timeout: 4 * time.Minute,
			Run: func(ctx context.Context) error {
				report, err := a.LiveManager.Run(ctx)
				if err != nil {
					return err
				}
				a.Logger.InfoContext(ctx, "live manager tick",
					"message", report.Message,
					"live_count", report.LiveCount,
					"live_failed_batches", report.LiveFailedBatches,
					"lineups_synced", report.LineupSync.Synced,
					"stats_completed", report.StatsSync.Completed,
				)
				return nil
			},
		},
		{
			Name: "lineup_manager",
			Spec: cfg.SchedulerLineupCron,
			Run: func(ctx context.Context) error {
				report, err := a.LineupManager.Run(ctx)
				if err != nil {
					return err
				}
				a.Logger.InfoContext(ctx, "lineup manager tick", "message", report.Message, "synced", report.Synced)
				return nil
			},
		},
		{
			Name: "master_sync",
			Spec: cfg.SchedulerMasterCron,
			Run: func(ctx context.Context) error {
				report, err := a.MasterSync.Run(ctx)
				if err != nil {
					return err
				}
				a.Logger.InfoContext(ctx, "master sync tick", "fixtures", report.SyncedFixtures, "teams", report.SyncedTeams)
				return nil
			},
		},
		{
			Name: "predict_usage",
			Spec: cfg.SchedulerPredictCron,
			Run: func(ctx context.Context) error {
				_, err := a.UsagePredictor.Predict(ctx)
				return err
			},
		},
	}
}
