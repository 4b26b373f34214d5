package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	testhelpers "github.com/melodix/vipgate/internal/test"
)

func TestNewOrderExpirerDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	exp := NewOrderExpirer(&testhelpers.WorkerFacadeStub{}, 0, time.Hour, 0, logger)
	if exp.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", exp.batchSize)
	}
	if exp.pollInterval != time.Minute {
		t.Fatalf("expected poll interval default to 1m, got %v", exp.pollInterval)
	}
}

func TestOrderExpirerCancelsStaleOrders(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.WorkerFacadeStub{Codes: [][]int64{{101, 102}}}
	exp := NewOrderExpirer(facade, 5*time.Millisecond, time.Hour, 10, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	exp.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		facade.Lock()
		called := len(facade.Calls) > 0
		facade.Unlock()
		if called {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for expiry poll")
		case <-time.After(5 * time.Millisecond):
		}
	}

	exp.Stop()
	facade.Lock()
	defer facade.Unlock()
	if len(facade.Calls) == 0 {
		t.Fatal("expected expiry call")
	}
	if facade.Calls[0].Limit != 10 {
		t.Fatalf("expected batch limit 10, got %d", facade.Calls[0].Limit)
	}
}

func TestOrderExpirerCutoffUsesOrderTTL(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.WorkerFacadeStub{}
	exp := NewOrderExpirer(facade, 5*time.Millisecond, 2*time.Hour, 4, logger)
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	exp.now = func() time.Time { return fixed }

	exp.expireBatch(context.Background())

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Calls) != 1 {
		t.Fatalf("expected single call, got %d", len(facade.Calls))
	}
	want := fixed.Add(-2 * time.Hour)
	if !facade.Calls[0].OlderThan.Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, facade.Calls[0].OlderThan)
	}
}

func TestOrderExpirerDrainsFullBatches(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.WorkerFacadeStub{Codes: [][]int64{{1, 2}, {3, 4}, {5}}}
	exp := NewOrderExpirer(facade, time.Minute, time.Hour, 2, logger)

	exp.expireBatch(context.Background())

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Calls) != 3 {
		t.Fatalf("expected 3 calls draining backlog, got %d", len(facade.Calls))
	}
}

func TestOrderExpirerStopsOnError(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	var calls int32
	facade := &testhelpers.WorkerFacadeStub{ExpireFn: func(context.Context, time.Time, int) ([]int64, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("db down")
	}}
	exp := NewOrderExpirer(facade, time.Minute, time.Hour, 2, logger)

	exp.expireBatch(context.Background())

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected single attempt after error, got %d", got)
	}
}

func TestOrderExpirerStopWithoutStart(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	exp := NewOrderExpirer(&testhelpers.WorkerFacadeStub{}, time.Minute, time.Hour, 1, logger)
	exp.Stop()
}
