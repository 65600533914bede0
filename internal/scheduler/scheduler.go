package scheduler

import (
	"context"
	"time"

	"gang-admin-api/internal/presence"
	"gang-admin-api/internal/ws"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// PresencePruneSpec runs the presence sweep alongside the heartbeat timeout.
const PresencePruneSpec = "@every 30s"

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron     *cron.Cron
	presence presence.Store
	wsHub    *ws.Hub
}

func NewScheduler(store presence.Store, hub *ws.Hub, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		presence: store,
		wsHub:    hub,
	}
	s.registerJobs()
	return s
}

func (s *Scheduler) registerJobs() {
	if _, err := s.cron.AddFunc(PresencePruneSpec, s.PrunePresence); err != nil {
		logrus.WithError(err).Error("failed to register presence prune job")
		return
	}
	logrus.WithField("jobs", len(s.cron.Entries())).Info("cron jobs registered")
}

// PrunePresence drops stale clients and pushes the remaining list to dashboards.
func (s *Scheduler) PrunePresence() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.presence.Prune(ctx); err != nil {
		logrus.WithError(err).Warn("presence prune failed")
		return
	}
	active, err := s.presence.Active(ctx)
	if err != nil {
		logrus.WithError(err).Warn("presence list failed")
		return
	}
	s.wsHub.Publish(ws.EventPresenceUpdate, "prune", "", active)
}

func (s *Scheduler) Start() {
	logrus.Info("starting cron scheduler")
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logrus.Info("cron scheduler stopped")
}

// JobCount returns the number of registered jobs.
func (s *Scheduler) JobCount() int {
	return len(s.cron.Entries())
}
