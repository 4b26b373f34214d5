package test

import (
	"context"
	"sync"
	"time"

	"github.com/melodix/vipgate/internal/domain/model"
	"github.com/melodix/vipgate/internal/usecase"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateOrderFn func(context.Context, int64, int64, string) (*model.Order, error)
	OrdersFn      func(context.Context, int64) ([]model.Order, error)
	CancelOrderFn func(context.Context, int64, int64) error
	EntitlementFn func(context.Context, int64) (*usecase.Entitlement, error)
}

// CreateOrder delegates to provided function or returns a pending order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, accountID, amount int64, description string) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, accountID, amount, description)
	}
	return &model.Order{
		ID:          "ord-1",
		AccountID:   accountID,
		Code:        123456,
		Amount:      amount,
		Description: description,
		Status:      model.OrderStatusPending,
		CheckoutURL: "https://pay.test/123456",
	}, nil
}

// Orders returns predefined orders for given account.
func (s OrderFacadeStub) Orders(ctx context.Context, accountID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, accountID)
	}
	return []model.Order{{Code: 123456, Status: model.OrderStatusPending}}, nil
}

// CancelOrder executes configured cancellation handler.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, accountID, code int64) error {
	if s.CancelOrderFn != nil {
		return s.CancelOrderFn(ctx, accountID, code)
	}
	return nil
}

// Entitlement returns configured VIP state.
func (s OrderFacadeStub) Entitlement(ctx context.Context, accountID int64) (*usecase.Entitlement, error) {
	if s.EntitlementFn != nil {
		return s.EntitlementFn(ctx, accountID)
	}
	return &usecase.Entitlement{}, nil
}

// WebhookFacadeStub simulates gateway settlement handling.
type WebhookFacadeStub struct {
	SettleFn func(context.Context, usecase.SettleInput) error
	Inputs   []usecase.SettleInput
	mu       sync.Mutex
}

// SettlePayment records the input and delegates or succeeds.
func (s *WebhookFacadeStub) SettlePayment(ctx context.Context, in usecase.SettleInput) error {
	s.mu.Lock()
	s.Inputs = append(s.Inputs, in)
	s.mu.Unlock()
	if s.SettleFn != nil {
		return s.SettleFn(ctx, in)
	}
	return nil
}

// ExpireCall stores information about ExpireStale invocations.
type ExpireCall struct {
	OlderThan time.Time
	Limit     int
}

// WorkerFacadeStub mimics the expirer's interactions with the facade.
type WorkerFacadeStub struct {
	ExpireFn func(context.Context, time.Time, int) ([]int64, error)
	Codes    [][]int64
	Calls    []ExpireCall
	mu       sync.Mutex
	callNum  int
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// ExpireStale returns successive configured batches.
func (s *WorkerFacadeStub) ExpireStale(ctx context.Context, olderThan time.Time, limit int) ([]int64, error) {
	if s.ExpireFn != nil {
		return s.ExpireFn(ctx, olderThan, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, ExpireCall{OlderThan: olderThan, Limit: limit})
	if s.callNum < len(s.Codes) {
		batch := s.Codes[s.callNum]
		s.callNum++
		return batch, nil
	}
	return nil, nil
}

// VIPFacadeStub aggregates facade dependencies for HTTP layer tests.
type VIPFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	WebhookFacadeStub
}
