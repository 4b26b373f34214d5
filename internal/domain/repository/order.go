package repository

import (
	"context"
	"time"

	"github.com/melodix/vipgate/internal/domain/model"
)

// OrderRepository describes persistence operations with VIP orders.
//
// SettlePaid and SettleCancelled perform the PENDING -> terminal transition
// as a single conditional update: only the first caller to observe a PENDING
// order succeeds, every later caller gets ErrAlreadyProcessed. SettlePaid
// additionally stores the new entitlement expiry on the owning account within
// the same transaction.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByCode(ctx context.Context, code int64) (*model.Order, error)
	ListByAccount(ctx context.Context, accountID int64) ([]model.Order, error)
	SettlePaid(ctx context.Context, code int64, expireAt time.Time) error
	SettleCancelled(ctx context.Context, code int64) error
	CancelPending(ctx context.Context, code int64, accountID int64) error
	CancelStale(ctx context.Context, olderThan time.Time, limit int) ([]int64, error)
}
