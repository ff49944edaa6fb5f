package affiliates

import (
	"context"
	"strconv"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/affideck/affideck/internal/pkg/env"
)

// StartSyncScheduler runs the reconciliation pass every SYNC_INTERVAL_MINUTES
// (default 60, 0 disables). Returns the scheduler so the caller can shut it
// down; nil when disabled.
func (s *Service) StartSyncScheduler() gocron.Scheduler {
	minutes, err := strconv.Atoi(env.GetEnv("SYNC_INTERVAL_MINUTES", "60"))
	if err != nil || minutes < 0 {
		log.Warnf("[Sync] invalid SYNC_INTERVAL_MINUTES, scheduler disabled")
		return nil
	}
	if minutes == 0 {
		log.Info("[Sync] periodic sync disabled")
		return nil
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Errorf("[Sync] could not create scheduler: %v", err)
		return nil
	}
	sched.Start()

	_, err = sched.NewJob(
		gocron.DurationJob(time.Duration(minutes)*time.Minute),
		gocron.NewTask(func() {
			if _, err := s.Sync(context.Background()); err != nil {
				log.Errorf("[Sync] scheduled pass failed: %v", err)
			}
		}),
	)
	if err != nil {
		log.Errorf("[Sync] could not schedule sync job: %v", err)
	}

	log.Infof("[Sync] periodic sync every %d minutes", minutes)
	return sched
}
