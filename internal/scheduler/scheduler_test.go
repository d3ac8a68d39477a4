package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) RefreshFeatured(context.Context) error {
	r.calls.Add(1)
	return r.err
}

type fakeLocker struct {
	held bool
}

func (l *fakeLocker) Available() bool { return true }

func (l *fakeLocker) SetIfNotExists(context.Context, string, string, time.Duration) (bool, error) {
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func TestRunRefreshHonoursLock(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, &fakeLocker{}, "@every 1h", zap.NewNop())

	s.runRefresh(context.Background())
	s.runRefresh(context.Background())

	if got := r.calls.Load(); got != 1 {
		t.Fatalf("refreshed %d times, want 1 while the lock is held", got)
	}
}

func TestRunRefreshWithoutLocker(t *testing.T) {
	r := &countingRefresher{err: errors.New("db down")}
	s := New(r, nil, "@every 1h", zap.NewNop())

	s.runRefresh(context.Background())
	s.runRefresh(context.Background())

	if got := r.calls.Load(); got != 2 {
		t.Fatalf("refreshed %d times, want 2", got)
	}
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New(&countingRefresher{}, nil, "every now and then", zap.NewNop())
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("invalid spec accepted")
	}
}

func TestStartRunsImmediately(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, nil, "@every 1h", zap.NewNop())
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for r.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no refresh on start")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
