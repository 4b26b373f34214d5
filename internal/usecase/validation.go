package usecase

import (
	"strings"

	domainErrors "github.com/melodix/vipgate/internal/domain/errors"
	"github.com/melodix/vipgate/internal/domain/model"
)

// ValidateAmount checks that the order amount is a positive number of
// smallest currency units.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return domainErrors.ErrInvalidParameters
	}
	return nil
}

// ValidateDescription checks that the order description carries content.
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return domainErrors.ErrInvalidParameters
	}
	return nil
}

// ValidateSettleInput checks a settlement callback for the two shapes the
// gateway may legitimately send: (PAID, cancel=false) or (CANCELLED,
// cancel=true). Anything else is contradictory and must not reach the state
// machine.
func ValidateSettleInput(in SettleInput) error {
	if in.Code <= 0 {
		return domainErrors.ErrInvalidParameters
	}
	switch model.OrderStatus(in.Status) {
	case model.OrderStatusPaid:
		if in.Cancel {
			return domainErrors.ErrInvalidParameters
		}
	case model.OrderStatusCancelled:
		if !in.Cancel {
			return domainErrors.ErrInvalidParameters
		}
	default:
		return domainErrors.ErrInvalidParameters
	}
	return nil
}
