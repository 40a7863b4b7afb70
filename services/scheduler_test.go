package services_test

import (
	"context"
	"testing"
	"time"

	"eataliano-backend/services"
)

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := services.NewScheduler(time.UTC, quietLogger())
	err := s.Add("broken", "not a cron spec", time.Second, func(context.Context) error { return nil })
	if err == nil {
		t.Fatalf("expected an error for an invalid spec")
	}
}

func TestSchedulerRunsJobWithDeadline(t *testing.T) {
	s := services.NewScheduler(time.UTC, quietLogger())
	ran := make(chan bool, 1)
	err := s.Add("tick", "@every 1s", 5*time.Second, func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		select {
		case ran <- hasDeadline:
		default:
		}
		return nil
	})
	must(t, err)
	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
	}()

	select {
	case hasDeadline := <-ran:
		if !hasDeadline {
			t.Fatalf("expected the job context to carry a deadline")
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("job did not run")
	}
}
