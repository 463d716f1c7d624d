package jobs

import (
	"context"
	"time"

	"CareDesk/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// RosterRefresher reloads the cached public doctor roster.
type RosterRefresher interface {
	RefreshRoster(ctx context.Context) ([]models.DoctorSummary, error)
}

// StalePendingCounter counts pending appointments dated before cutoff.
type StalePendingCounter interface {
	CountStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}

const jobTimeout = 30 * time.Second

/*
* Schedule the roster refresh on the configured spec
* Schedule the daily stale pending report at 00:05
* Warm the roster once before returning
 */
func StartScheduler(schedule string, roster RosterRefresher, appts StalePendingCounter) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc(schedule, func() { RefreshRoster(roster) }); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc("5 0 * * *", func() { ReportStalePending(appts, time.Now()) }); err != nil {
		return nil, err
	}

	RefreshRoster(roster)
	c.Start()
	return c, nil
}

func RefreshRoster(roster RosterRefresher) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	doctors, err := roster.RefreshRoster(ctx)
	if err != nil {
		log.Error().Err(err).Msg("roster refresh failed")
		return
	}
	log.Debug().Int("doctors", len(doctors)).Msg("roster refreshed")
}

// ReportStalePending logs how many pending requests are dated before today.
func ReportStalePending(appts StalePendingCounter, now time.Time) int64 {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	y, m, d := now.UTC().Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	n, err := appts.CountStalePending(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("stale pending report failed")
		return 0
	}
	if n > 0 {
		log.Warn().Int64("count", n).Time("before", cutoff).Msg("pending appointments past their preferred date")
	}
	return n
}
