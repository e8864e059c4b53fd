// Package stats keeps the Prometheus table-size gauges current by polling the
// database on a cron schedule.
package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/jtallman/projtrack/internal/metrics"
	"github.com/jtallman/projtrack/internal/repo"
	"github.com/robfig/cron/v3"
)

// Run starts a background collector that refreshes the users/projects gauges
// once a minute. It returns the cron so callers can Stop it on shutdown.
func Run(userRepo *repo.UserRepo, projectRepo *repo.ProjectRepo) *cron.Cron {
	c := cron.New()

	collect := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if n, err := userRepo.Count(ctx); err != nil {
			slog.Warn("stats: count users", "err", err)
		} else {
			metrics.SetUsersTotal(n)
		}

		if n, err := projectRepo.Count(ctx); err != nil {
			slog.Warn("stats: count projects", "err", err)
		} else {
			metrics.SetProjectsTotal(n)
		}
	}

	if _, err := c.AddFunc("* * * * *", collect); err != nil {
		slog.Error("stats: register cron job", "err", err)
		return c
	}

	collect()
	c.Start()
	return c
}
