package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jacquesvida12/RemindersApp/internal/config"
	"github.com/jacquesvida12/RemindersApp/internal/services"
)

var globalCron *cron.Cron

// MustStartSessionPruner schedules periodic deletion of expired sessions.
// Sessions are also rejected at auth time once expired, the job just keeps
// the table from growing without bound.
func MustStartSessionPruner() {
	interval := config.Global().Sessions.PruneInterval

	sessionService := services.NewSessionService(globalLogger, globalPostgresPool)

	globalCron = cron.New()
	_, err := globalCron.AddFunc(fmt.Sprintf("@every %ds", int(interval.Seconds())), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_, err := sessionService.DeleteExpiredSessions(ctx)
		if err != nil {
			globalLogger.Error().
				Err(err).
				Msg("session prune run failed")
		}
	})
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to schedule session pruner")
		panic(err)
	}

	globalCron.Start()
	globalLogger.Info().
		Dur("interval", interval).
		Msg("started session pruner")
}

func StopSessionPruner() {
	if globalCron == nil {
		return
	}
	<-globalCron.Stop().Done()
	globalLogger.Info().Msg("stopped session pruner")
}
