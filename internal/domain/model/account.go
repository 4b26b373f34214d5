package model

import "time"

// Account represents a registered listener of the streaming service.
type Account struct {
	ID           int64
	Login        string
	PasswordHash string
	VIPExpireAt  *time.Time
	CreatedAt    time.Time
}

// VIPActiveAt reports whether the account holds an active VIP entitlement
// at the given instant. Entitlement is derived solely from VIPExpireAt:
// a nil or past expiry means not entitled.
func (a *Account) VIPActiveAt(now time.Time) bool {
	return a.VIPExpireAt != nil && a.VIPExpireAt.After(now)
}
