package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/melodix/vipgate/internal/domain/errors"
	"github.com/melodix/vipgate/internal/domain/model"
	"github.com/melodix/vipgate/internal/domain/repository"
)

const uniqueViolationCode = "23505"

// DB abstracts the pgx pool so storage can be exercised against a mock.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DB
	logger *slog.Logger
}

// newPgxPool is a construction seam replaced in tests.
var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (DB, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

type accountRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Accounts() repository.AccountRepository {
	return &accountRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
            id BIGSERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            vip_expire_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id UUID PRIMARY KEY,
            account_id BIGINT NOT NULL REFERENCES accounts(id),
            code BIGINT UNIQUE NOT NULL,
            amount BIGINT NOT NULL,
            description TEXT NOT NULL,
            status TEXT NOT NULL,
            payment_link_id TEXT NOT NULL DEFAULT '',
            checkout_url TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_account ON orders(account_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_pending ON orders(created_at) WHERE status = 'PENDING'`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- AccountRepository implementation ---

func (r *accountRepository) Create(ctx context.Context, login, passwordHash string) (*model.Account, error) {
	const query = `INSERT INTO accounts (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	var a model.Account
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	a.Login = login
	a.PasswordHash = passwordHash
	return &a, nil
}

func (r *accountRepository) GetByLogin(ctx context.Context, login string) (*model.Account, error) {
	const query = `SELECT id, login, password_hash, vip_expire_at, created_at FROM accounts WHERE login=$1`
	var a model.Account
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&a.ID, &a.Login, &a.PasswordHash, &a.VIPExpireAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	const query = `SELECT id, login, password_hash, vip_expire_at, created_at FROM accounts WHERE id=$1`
	var a model.Account
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Login, &a.PasswordHash, &a.VIPExpireAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) SetVIPExpiry(ctx context.Context, accountID int64, expireAt time.Time) error {
	const query = `UPDATE accounts SET vip_expire_at=$1 WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, expireAt, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (id, account_id, code, amount, description, status, payment_link_id, checkout_url)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   RETURNING created_at, updated_at`
	stored := *order
	err := r.storage.pool.QueryRow(ctx, query,
		order.ID, order.AccountID, order.Code, order.Amount, order.Description,
		order.Status, order.PaymentLinkID, order.CheckoutURL,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &stored, nil
}

func (r *orderRepository) GetByCode(ctx context.Context, code int64) (*model.Order, error) {
	const query = `SELECT id, account_id, code, amount, description, status, payment_link_id, checkout_url, created_at, updated_at
                   FROM orders WHERE code=$1`
	var o model.Order
	err := r.storage.pool.QueryRow(ctx, query, code).Scan(
		&o.ID, &o.AccountID, &o.Code, &o.Amount, &o.Description,
		&o.Status, &o.PaymentLinkID, &o.CheckoutURL, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) ListByAccount(ctx context.Context, accountID int64) ([]model.Order, error) {
	const query = `SELECT id, account_id, code, amount, description, status, payment_link_id, checkout_url, created_at, updated_at
                   FROM orders WHERE account_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(
			&o.ID, &o.AccountID, &o.Code, &o.Amount, &o.Description,
			&o.Status, &o.PaymentLinkID, &o.CheckoutURL, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SettlePaid marks the order paid and stores the new entitlement expiry on
// the owning account. The status transition is a conditional update: only a
// PENDING order matches, so concurrent or repeated callbacks settle at most
// once.
func (r *orderRepository) SettlePaid(ctx context.Context, code int64, expireAt time.Time) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const settle = `UPDATE orders SET status=$1, updated_at=NOW() WHERE code=$2 AND status=$3 RETURNING account_id`
		var accountID int64
		err := tx.QueryRow(ctx, settle, model.OrderStatusPaid, code, model.OrderStatusPending).Scan(&accountID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return r.settleConflict(ctx, tx, code)
			}
			return err
		}

		const grant = `UPDATE accounts SET vip_expire_at=$1 WHERE id=$2`
		if _, err := tx.Exec(ctx, grant, expireAt, accountID); err != nil {
			return err
		}
		return nil
	})
}

// SettleCancelled marks the order cancelled. Same conditional transition as
// SettlePaid, without the entitlement grant.
func (r *orderRepository) SettleCancelled(ctx context.Context, code int64) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const settle = `UPDATE orders SET status=$1, updated_at=NOW() WHERE code=$2 AND status=$3 RETURNING account_id`
		var accountID int64
		err := tx.QueryRow(ctx, settle, model.OrderStatusCancelled, code, model.OrderStatusPending).Scan(&accountID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return r.settleConflict(ctx, tx, code)
			}
			return err
		}
		return nil
	})
}

// settleConflict tells a missing order apart from an already-settled one.
func (r *orderRepository) settleConflict(ctx context.Context, tx pgx.Tx, code int64) error {
	const probe = `SELECT status FROM orders WHERE code=$1`
	var status model.OrderStatus
	if err := tx.QueryRow(ctx, probe, code).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return domainErrors.ErrAlreadyProcessed
}

// CancelPending cancels the caller's own pending order. A settled, foreign or
// unknown order all report ErrNotFound: the user-facing outcome is the same.
func (r *orderRepository) CancelPending(ctx context.Context, code int64, accountID int64) error {
	const query = `UPDATE orders SET status=$1, updated_at=NOW() WHERE code=$2 AND account_id=$3 AND status=$4`
	tag, err := r.storage.pool.Exec(ctx, query, model.OrderStatusCancelled, code, accountID, model.OrderStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// CancelStale cancels pending orders created before olderThan and returns
// their codes. Locked rows are skipped so a sweep never blocks, or races, an
// in-flight settlement.
func (r *orderRepository) CancelStale(ctx context.Context, olderThan time.Time, limit int) ([]int64, error) {
	const query = `UPDATE orders SET status=$1, updated_at=NOW()
                   WHERE id IN (
                       SELECT id FROM orders
                       WHERE status=$2 AND created_at < $3
                       ORDER BY created_at
                       LIMIT $4
                       FOR UPDATE SKIP LOCKED
                   )
                   RETURNING code`
	rows, err := r.storage.pool.Query(ctx, query, model.OrderStatusCancelled, model.OrderStatusPending, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []int64
	for rows.Next() {
		var code int64
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return codes, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
