package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/melodix/vipgate/internal/domain/errors"
	"github.com/melodix/vipgate/internal/domain/model"
)

// AccountRepositoryStub stores accounts in-memory for tests.
type AccountRepositoryStub struct {
	mu       sync.Mutex
	Accounts map[string]*model.Account
	ByID     map[int64]*model.Account
	Next     int64
	Err      error
}

// NewAccountRepositoryStub constructs stub repository with initialized maps.
func NewAccountRepositoryStub() *AccountRepositoryStub {
	return &AccountRepositoryStub{
		Accounts: make(map[string]*model.Account),
		ByID:     make(map[int64]*model.Account),
		Next:     1,
	}
}

// Create registers account unless already exists or stub has explicit error.
func (s *AccountRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Accounts == nil {
		s.Accounts = make(map[string]*model.Account)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.Account)
	}
	if _, exists := s.Accounts[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	account := &model.Account{ID: s.Next, Login: login, PasswordHash: passwordHash}
	s.Next++
	s.Accounts[login] = account
	s.ByID[account.ID] = account
	return account, nil
}

// GetByLogin fetches account by login or returns not found.
func (s *AccountRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if account, ok := s.Accounts[login]; ok {
		return account, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches account by identifier or returns not found.
func (s *AccountRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if account, ok := s.ByID[id]; ok {
		return account, nil
	}
	return nil, domainErrors.ErrNotFound
}

// SetVIPExpiry updates the entitlement expiry of a stored account.
func (s *AccountRepositoryStub) SetVIPExpiry(ctx context.Context, accountID int64, expireAt time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.ByID[accountID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	t := expireAt
	account.VIPExpireAt = &t
	return nil
}

// Seed inserts an account directly, bypassing Create.
func (s *AccountRepositoryStub) Seed(account *model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Accounts[account.Login] = account
	s.ByID[account.ID] = account
	if account.ID >= s.Next {
		s.Next = account.ID + 1
	}
}

// OrderRepositoryStub keeps orders in-memory and mimics the storage layer's
// compare-and-set settlement semantics, so concurrency tests observe the same
// first-observer-wins behavior as PostgreSQL's conditional update.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[int64]*model.Order
	// Grants records every entitlement write keyed by order code.
	Grants map[int64][]time.Time
	// Accounts, when set, receives the entitlement grant like the real
	// storage does inside the settlement transaction.
	Accounts *AccountRepositoryStub

	CreateFn        func(context.Context, *model.Order) (*model.Order, error)
	GetByCodeFn     func(context.Context, int64) (*model.Order, error)
	ListByAccountFn func(context.Context, int64) ([]model.Order, error)
	SettlePaidFn    func(context.Context, int64, time.Time) error
	CancelStaleFn   func(context.Context, time.Time, int) ([]int64, error)
}

// NewOrderRepositoryStub constructs the stub with initialized maps.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{
		Orders: make(map[int64]*model.Order),
		Grants: make(map[int64][]time.Time),
	}
}

// Create stores the order unless the code is taken.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Orders == nil {
		s.Orders = make(map[int64]*model.Order)
	}
	if _, exists := s.Orders[order.Code]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	stored := *order
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.Orders[order.Code] = &stored
	result := stored
	return &result, nil
}

// GetByCode returns the stored order or not found.
func (s *OrderRepositoryStub) GetByCode(ctx context.Context, code int64) (*model.Order, error) {
	if s.GetByCodeFn != nil {
		return s.GetByCodeFn(ctx, code)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.Orders[code]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByAccount returns all stored orders for the account.
func (s *OrderRepositoryStub) ListByAccount(ctx context.Context, accountID int64) ([]model.Order, error) {
	if s.ListByAccountFn != nil {
		return s.ListByAccountFn(ctx, accountID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, order := range s.Orders {
		if order.AccountID == accountID {
			result = append(result, *order)
		}
	}
	return result, nil
}

// SettlePaid performs the atomic PENDING -> PAID transition and records the
// entitlement grant. Duplicate calls observe ErrAlreadyProcessed.
func (s *OrderRepositoryStub) SettlePaid(ctx context.Context, code int64, expireAt time.Time) error {
	if s.SettlePaidFn != nil {
		return s.SettlePaidFn(ctx, code, expireAt)
	}
	s.mu.Lock()
	order, ok := s.Orders[code]
	if !ok {
		s.mu.Unlock()
		return domainErrors.ErrNotFound
	}
	if order.Status != model.OrderStatusPending {
		s.mu.Unlock()
		return domainErrors.ErrAlreadyProcessed
	}
	order.Status = model.OrderStatusPaid
	order.UpdatedAt = time.Now()
	if s.Grants == nil {
		s.Grants = make(map[int64][]time.Time)
	}
	s.Grants[code] = append(s.Grants[code], expireAt)
	accountID := order.AccountID
	s.mu.Unlock()

	if s.Accounts != nil {
		return s.Accounts.SetVIPExpiry(ctx, accountID, expireAt)
	}
	return nil
}

// SettleCancelled performs the atomic PENDING -> CANCELLED transition.
func (s *OrderRepositoryStub) SettleCancelled(ctx context.Context, code int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[code]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if order.Status != model.OrderStatusPending {
		return domainErrors.ErrAlreadyProcessed
	}
	order.Status = model.OrderStatusCancelled
	order.UpdatedAt = time.Now()
	return nil
}

// CancelPending cancels the owner's pending order or reports not found.
func (s *OrderRepositoryStub) CancelPending(ctx context.Context, code int64, accountID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[code]
	if !ok || order.AccountID != accountID || order.Status != model.OrderStatusPending {
		return domainErrors.ErrNotFound
	}
	order.Status = model.OrderStatusCancelled
	order.UpdatedAt = time.Now()
	return nil
}

// CancelStale cancels pending orders created before olderThan.
func (s *OrderRepositoryStub) CancelStale(ctx context.Context, olderThan time.Time, limit int) ([]int64, error) {
	if s.CancelStaleFn != nil {
		return s.CancelStaleFn(ctx, olderThan, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var codes []int64
	for code, order := range s.Orders {
		if len(codes) >= limit {
			break
		}
		if order.Status == model.OrderStatusPending && order.CreatedAt.Before(olderThan) {
			order.Status = model.OrderStatusCancelled
			order.UpdatedAt = time.Now()
			codes = append(codes, code)
		}
	}
	return codes, nil
}
