package service

import (
	"context"
	"testing"
	"time"

	"medclinic/internal/models"
	"medclinic/internal/repository"
)

func TestSweep_AgesAppointments(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	confirmedDone := models.Appointment{ID: "c1", Status: models.StatusConfirmed}
	pendingStale := models.Appointment{ID: "p1", Status: models.StatusPending}

	appts := &fakeApptRepo{
		ListFn: func(f repository.AppointmentFilter) ([]models.Appointment, error) {
			switch f.Status {
			case models.StatusConfirmed:
				// The query bounds To by one slot length in the past.
				if !f.To.Equal(now.Add(-SlotLength)) {
					t.Fatalf("confirmed cutoff=%v", f.To)
				}
				return []models.Appointment{confirmedDone}, nil
			case models.StatusPending:
				if !f.To.Equal(now.Add(-pendingGrace)) {
					t.Fatalf("pending cutoff=%v", f.To)
				}
				return []models.Appointment{pendingStale}, nil
			}
			t.Fatalf("unexpected filter: %+v", f)
			return nil, nil
		},
	}

	s := NewSweeperService(appts)
	s.sweep(context.Background(), now)

	if len(appts.updates) != 2 {
		t.Fatalf("expected 2 updates, got %+v", appts.updates)
	}
	if appts.updates[0].id != "c1" || appts.updates[0].status != models.StatusCompleted {
		t.Fatalf("confirmed not completed: %+v", appts.updates[0])
	}
	if appts.updates[1].id != "p1" || appts.updates[1].status != models.StatusCancelled {
		t.Fatalf("pending not expired: %+v", appts.updates[1])
	}
	if appts.updates[1].reason == "" {
		t.Fatal("expired cancellation should carry a reason")
	}
}

func TestSweeperRun_StopsOnCancel(t *testing.T) {
	appts := &fakeApptRepo{
		ListFn: func(f repository.AppointmentFilter) ([]models.Appointment, error) {
			return nil, nil
		},
	}
	s := NewSweeperService(appts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}
