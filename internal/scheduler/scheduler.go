package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler periodically refreshes the warm response cache. Each run
// recomputes from live fetches; nothing else is persisted between runs.
type Scheduler struct {
	cron *cron.Cron
	job  func(context.Context)
}

func New(spec string, job func(context.Context)) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{cron: c, job: job}
	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// Delay the first warm-up so it does not compete with requests arriving
	// right after startup.
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() { go s.runOnce() })
}

// RunOnce exposes a single run for manual triggering.
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	log.Println("start cache warm job...")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	s.job(ctx)

	log.Println("cache warm job done")
}
