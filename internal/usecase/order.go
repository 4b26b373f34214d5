package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/melodix/vipgate/internal/adapter/gateway"
	domainErrors "github.com/melodix/vipgate/internal/domain/errors"
	"github.com/melodix/vipgate/internal/domain/model"
	"github.com/melodix/vipgate/internal/domain/repository"
)

// Order codes are drawn from a bounded numeric range so the gateway can carry
// them in its numeric orderCode field. Collisions are possible and handled by
// the retry loop in Create.
const (
	orderCodeMin = 100000
	orderCodeMax = 1_000_000_000_000
)

var (
	codeRngMu sync.Mutex
	codeRng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

func randomOrderCode() int64 {
	codeRngMu.Lock()
	defer codeRngMu.Unlock()
	return orderCodeMin + codeRng.Int63n(orderCodeMax-orderCodeMin)
}

// OrderOptions tunes the VIP order lifecycle.
type OrderOptions struct {
	VIPDuration  time.Duration
	CodeAttempts int
	ReturnURL    string
	CancelURL    string
}

// SettleInput is the validated shape of a gateway settlement callback.
type SettleInput struct {
	Code   int64
	LinkID string
	Cancel bool
	Status string
}

// Entitlement describes the VIP state of an account at a point in time.
type Entitlement struct {
	Active   bool
	ExpireAt *time.Time
}

// OrderUseCase owns the VIP order state machine: creation behind the
// entitlement gate, settlement from gateway callbacks, and cancellation.
type OrderUseCase struct {
	accounts repository.AccountRepository
	orders   repository.OrderRepository
	gateway  gateway.Client
	opts     OrderOptions

	newCode func() int64
	now     func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(accounts repository.AccountRepository, orders repository.OrderRepository, gw gateway.Client, opts OrderOptions) *OrderUseCase {
	if opts.VIPDuration <= 0 {
		opts.VIPDuration = 30 * 24 * time.Hour
	}
	if opts.CodeAttempts <= 0 {
		opts.CodeAttempts = 5
	}
	return &OrderUseCase{
		accounts: accounts,
		orders:   orders,
		gateway:  gw,
		opts:     opts,
		newCode:  randomOrderCode,
		now:      time.Now,
	}
}

// Create opens a new VIP order for the account and returns it with the
// gateway checkout URL attached. Nothing is persisted when the gateway call
// fails. A code collision at persistence time is retried with a fresh code.
func (u *OrderUseCase) Create(ctx context.Context, accountID int64, amount int64, description string) (*model.Order, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	account, err := u.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.VIPActiveAt(u.now()) {
		return nil, domainErrors.ErrAlreadyEntitled
	}

	for attempt := 0; attempt < u.opts.CodeAttempts; attempt++ {
		code := u.newCode()

		link, err := u.gateway.CreateLink(ctx, gateway.LinkRequest{
			Code:        code,
			Amount:      amount,
			Description: description,
			ReturnURL:   u.opts.ReturnURL,
			CancelURL:   u.opts.CancelURL,
		})
		if err != nil {
			return nil, err
		}

		order := &model.Order{
			ID:            uuid.NewString(),
			AccountID:     accountID,
			Code:          code,
			Amount:        amount,
			Description:   description,
			Status:        model.OrderStatusPending,
			PaymentLinkID: link.LinkID,
			CheckoutURL:   link.CheckoutURL,
		}

		stored, err := u.orders.Create(ctx, order)
		if err != nil {
			if errors.Is(err, domainErrors.ErrAlreadyExists) {
				continue
			}
			return nil, err
		}
		return stored, nil
	}

	return nil, fmt.Errorf("exhausted %d order code attempts: %w", u.opts.CodeAttempts, domainErrors.ErrAlreadyExists)
}

// Settle applies a gateway settlement callback. The transition to a terminal
// status happens atomically at the persistence layer, so a duplicate or
// racing callback observes ErrAlreadyProcessed instead of granting twice.
func (u *OrderUseCase) Settle(ctx context.Context, in SettleInput) error {
	if err := ValidateSettleInput(in); err != nil {
		return err
	}

	if in.Cancel {
		return u.orders.SettleCancelled(ctx, in.Code)
	}

	expireAt := u.now().Add(u.opts.VIPDuration)
	return u.orders.SettlePaid(ctx, in.Code, expireAt)
}

// Cancel aborts the caller's own pending order. Settled, foreign and unknown
// orders are indistinguishable here: there is nothing to cancel either way.
func (u *OrderUseCase) Cancel(ctx context.Context, accountID int64, code int64) error {
	return u.orders.CancelPending(ctx, code, accountID)
}

// ListByAccount returns the account's orders, newest first.
func (u *OrderUseCase) ListByAccount(ctx context.Context, accountID int64) ([]model.Order, error) {
	return u.orders.ListByAccount(ctx, accountID)
}

// Entitlement reports the current VIP state of the account.
func (u *OrderUseCase) Entitlement(ctx context.Context, accountID int64) (*Entitlement, error) {
	account, err := u.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &Entitlement{
		Active:   account.VIPActiveAt(u.now()),
		ExpireAt: account.VIPExpireAt,
	}, nil
}

// CancelStale cancels pending orders older than olderThan and returns their codes.
func (u *OrderUseCase) CancelStale(ctx context.Context, olderThan time.Time, limit int) ([]int64, error) {
	return u.orders.CancelStale(ctx, olderThan, limit)
}
