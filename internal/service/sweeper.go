package service

import (
	"context"
	"time"

	"medclinic/internal/models"
	"medclinic/internal/repository"
)

// pendingGrace is how long after its slot a Pending appointment survives
// before the sweeper expires it.
const pendingGrace = time.Hour

// SweeperService ages appointments in the background: Confirmed appointments
// whose slot has passed become Completed, and Pending appointments left
// unconfirmed past their slot (plus a grace period) are expired.
type SweeperService struct {
	appts repository.Appointments
}

func NewSweeperService(appts repository.Appointments) *SweeperService {
	return &SweeperService{appts: appts}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SweeperService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.sweep(ctx, now.UTC())
		}
	}
}

// sweep performs one pass. Errors are intentionally dropped; the next tick
// retries the same rows.
func (s *SweeperService) sweep(ctx context.Context, now time.Time) {
	// Confirmed + slot ended → Completed
	done, err := s.appts.List(ctx, repository.AppointmentFilter{
		Status: models.StatusConfirmed,
		To:     now.Add(-SlotLength),
	})
	if err == nil {
		for _, a := range done {
			_ = s.appts.UpdateStatus(ctx, a.ID, models.StatusCompleted, "", now)
		}
	}

	// Pending + slot long gone → expired
	stale, err := s.appts.List(ctx, repository.AppointmentFilter{
		Status: models.StatusPending,
		To:     now.Add(-pendingGrace),
	})
	if err == nil {
		for _, a := range stale {
			_ = s.appts.UpdateStatus(ctx, a.ID, models.StatusCancelled, "expired without confirmation", now)
		}
	}
}
