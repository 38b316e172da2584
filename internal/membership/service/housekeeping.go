package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/parishtools/flock/internal/membership/store"
)

// HousekeepingService purges invitations that expired past the retention
// window. Used invitations are kept forever as an audit trail of who joined
// through which invitation; only unredeemed expired rows are deleted.
type HousekeepingService struct {
	Store  store.Store
	Logger *slog.Logger

	// Interval between purge passes.
	Interval time.Duration

	// Retention is how long an expired invitation lingers before deletion.
	Retention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// Start launches the background purge loop. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run()
}

// Stop signals the purge loop to exit and waits for it to finish.
func (s *HousekeepingService) Stop() {
	if s.stopCh == nil {
		return
	}
	close(s.stopCh)
	<-s.doneCh
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// One pass at startup so a long interval doesn't delay the first purge.
	s.cleanup()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *HousekeepingService) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-s.Retention)
	n, err := s.Store.Invitations().DeleteInvitationsExpiredBefore(ctx, cutoff)
	if err != nil {
		s.Logger.Error("invitation purge failed", slog.Any("error", err))
		return
	}

	if n > 0 {
		s.Logger.Info("purged expired invitations",
			slog.Int64("deleted", n),
			slog.Time("cutoff", cutoff),
		)
	}
}
