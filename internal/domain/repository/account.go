package repository

import (
	"context"
	"time"

	"github.com/melodix/vipgate/internal/domain/model"
)

// AccountRepository describes persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, login, passwordHash string) (*model.Account, error)
	GetByLogin(ctx context.Context, login string) (*model.Account, error)
	GetByID(ctx context.Context, id int64) (*model.Account, error)
	SetVIPExpiry(ctx context.Context, accountID int64, expireAt time.Time) error
}
