package test

import (
	"context"
	"fmt"
	"sync"

	"github.com/melodix/vipgate/internal/adapter/gateway"
)

// GatewayClientStub simulates the payment gateway for tests.
type GatewayClientStub struct {
	mu           sync.Mutex
	CreateLinkFn func(context.Context, gateway.LinkRequest) (*gateway.PaymentLink, error)
	Err          error
	Requests     []gateway.LinkRequest
}

// CreateLink records the request and returns a deterministic link.
func (s *GatewayClientStub) CreateLink(ctx context.Context, req gateway.LinkRequest) (*gateway.PaymentLink, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	s.mu.Unlock()

	if s.CreateLinkFn != nil {
		return s.CreateLinkFn(ctx, req)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return &gateway.PaymentLink{
		LinkID:      fmt.Sprintf("link-%d", req.Code),
		CheckoutURL: fmt.Sprintf("https://pay.test/%d", req.Code),
	}, nil
}

// CallCount returns how many link requests were issued.
func (s *GatewayClientStub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

var _ gateway.Client = (*GatewayClientStub)(nil)
