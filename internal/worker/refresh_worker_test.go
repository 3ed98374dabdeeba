package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"refboard/internal/service"
	"refboard/internal/source/memory"
	"refboard/internal/table"
)

type recordingPublisher struct {
	calls []publishCall
	err   error
}

type publishCall struct {
	userID       string
	referrals    int
	transactions int
}

func (p *recordingPublisher) PublishDatasetRefresh(_ context.Context, userID string, referrals, transactions int) error {
	p.calls = append(p.calls, publishCall{userID, referrals, transactions})
	return p.err
}

func seededStore() *memory.Store {
	return memory.New(
		table.Table{
			{"referal_id", "referer_id", "referal_nickname"},
			{"100", "", "main"},
			{"101", "100", "ref1"},
		},
		table.Table{
			{"referal_id", "bonus_amount", "created_at"},
			{"100", "5", "2025-12-01"},
		},
	)
}

func TestRefreshOnce(t *testing.T) {
	store := seededStore()
	holder := service.NewHolder()
	pub := &recordingPublisher{}
	w := NewRefreshWorker(service.NewReportService(store), holder, pub, "100", time.Minute)

	ds, err := w.RefreshOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if holder.Current() != ds {
		t.Error("holder should hold the freshly loaded dataset")
	}
	if len(pub.calls) != 1 {
		t.Fatalf("publish calls = %d, want 1", len(pub.calls))
	}
	call := pub.calls[0]
	if call.userID != "100" || call.referrals != 1 || call.transactions != 1 {
		t.Errorf("publish call = %+v", call)
	}
}

func TestRefreshOnce_PublishFailureIsNotFatal(t *testing.T) {
	holder := service.NewHolder()
	pub := &recordingPublisher{err: errors.New("broker down")}
	w := NewRefreshWorker(service.NewReportService(seededStore()), holder, pub, "100", time.Minute)

	ds, err := w.RefreshOnce(context.Background())
	if err != nil {
		t.Fatalf("publish failure should not fail the refresh: %v", err)
	}
	if holder.Current() != ds {
		t.Error("dataset swap should survive a publish failure")
	}
}

func TestRefreshOnce_LoadFailureKeepsPrevious(t *testing.T) {
	store := seededStore()
	holder := service.NewHolder()
	w := NewRefreshWorker(service.NewReportService(store), holder, nil, "100", time.Minute)

	prev, err := w.RefreshOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// An empty user id makes the next load fail before touching the source.
	w.userID = ""
	if _, err := w.RefreshOnce(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if holder.Current() != prev {
		t.Error("failed refresh must not replace the current dataset")
	}
}

func TestRefreshOnce_NilPublisher(t *testing.T) {
	holder := service.NewHolder()
	w := NewRefreshWorker(service.NewReportService(seededStore()), holder, nil, "100", time.Minute)

	if _, err := w.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if holder.Current() == nil {
		t.Error("dataset should be held after refresh")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	holder := service.NewHolder()
	w := NewRefreshWorker(service.NewReportService(seededStore()), holder, nil, "100", 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if holder.Current() == nil {
		t.Error("initial refresh should have populated the holder")
	}
}
