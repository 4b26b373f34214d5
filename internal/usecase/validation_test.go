package usecase

import (
	"errors"
	"testing"

	domainErrors "github.com/melodix/vipgate/internal/domain/errors"
)

func TestValidateAmount(t *testing.T) {
	for _, amount := range []int64{1, 50000, 1 << 40} {
		if err := ValidateAmount(amount); err != nil {
			t.Fatalf("expected amount %d to be valid, got %v", amount, err)
		}
	}
	for _, amount := range []int64{0, -1, -50000} {
		if err := ValidateAmount(amount); !errors.Is(err, domainErrors.ErrInvalidParameters) {
			t.Fatalf("expected amount %d to be invalid, got %v", amount, err)
		}
	}
}

func TestValidateDescription(t *testing.T) {
	for _, desc := range []string{"VIP", "nâng cấp VIP 30 ngày"} {
		if err := ValidateDescription(desc); err != nil {
			t.Fatalf("expected description %q to be valid, got %v", desc, err)
		}
	}
	for _, desc := range []string{"", "   ", "\t\n"} {
		if err := ValidateDescription(desc); !errors.Is(err, domainErrors.ErrInvalidParameters) {
			t.Fatalf("expected description %q to be invalid, got %v", desc, err)
		}
	}
}

func TestValidateSettleInput(t *testing.T) {
	valid := []SettleInput{
		{Code: 1, Status: "PAID"},
		{Code: 1, Status: "CANCELLED", Cancel: true},
	}
	for _, in := range valid {
		if err := ValidateSettleInput(in); err != nil {
			t.Fatalf("expected input %+v to be valid, got %v", in, err)
		}
	}

	invalid := []SettleInput{
		{Code: 0, Status: "PAID"},
		{Code: -1, Status: "PAID"},
		{Code: 1, Status: "PAID", Cancel: true},
		{Code: 1, Status: "CANCELLED", Cancel: false},
		{Code: 1, Status: "PENDING"},
		{Code: 1, Status: ""},
		{Code: 1, Status: "paid"},
	}
	for _, in := range invalid {
		if err := ValidateSettleInput(in); !errors.Is(err, domainErrors.ErrInvalidParameters) {
			t.Fatalf("expected input %+v to be invalid, got %v", in, err)
		}
	}
}
