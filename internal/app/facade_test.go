package app

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/melodix/vipgate/internal/domain/errors"
	"github.com/melodix/vipgate/internal/domain/model"
	testhelpers "github.com/melodix/vipgate/internal/test"
	"github.com/melodix/vipgate/internal/usecase"
)

func newFacade() (*VIPFacade, *testhelpers.AccountRepositoryStub, *testhelpers.OrderRepositoryStub, *testhelpers.GatewayClientStub) {
	accounts := testhelpers.NewAccountRepositoryStub()
	strategy := testhelpers.StrategyStub{ParseFn: func(string) (int64, error) { return 99, nil }}
	authUC := usecase.NewAuthUseCase(accounts, testhelpers.HasherStub{}, strategy)

	orders := testhelpers.NewOrderRepositoryStub()
	orders.Accounts = accounts
	gw := &testhelpers.GatewayClientStub{}
	orderUC := usecase.NewOrderUseCase(accounts, orders, gw, usecase.OrderOptions{})

	facade := NewVIPFacade(authUC, orderUC)
	return facade, accounts, orders, gw
}

func TestVIPFacadeAuth(t *testing.T) {
	facade, accounts, _, _ := newFacade()
	token, err := facade.Register(context.Background(), "user", "pass")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}

	stored, err := accounts.GetByLogin(context.Background(), "user")
	if err != nil {
		t.Fatalf("account not stored: %v", err)
	}
	if stored.Login != "user" {
		t.Fatalf("unexpected stored login %q", stored.Login)
	}

	token, err = facade.Authenticate(context.Background(), "user", "pass")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}

	id, err := facade.ParseToken("anything")
	if err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}
	if id != 99 {
		t.Fatalf("expected id 99, got %d", id)
	}
}

func TestVIPFacadeOrderLifecycle(t *testing.T) {
	facade, accounts, _, _ := newFacade()
	accounts.Seed(&model.Account{ID: 7, Login: "user"})

	order, err := facade.CreateOrder(context.Background(), 7, 4990, "VIP 30 days")
	if err != nil {
		t.Fatalf("create order returned error: %v", err)
	}
	if order.Status != model.OrderStatusPending || order.CheckoutURL == "" {
		t.Fatalf("unexpected order %+v", order)
	}

	listed, err := facade.Orders(context.Background(), 7)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one order, got %v err=%v", listed, err)
	}

	if err := facade.SettlePayment(context.Background(), usecase.SettleInput{Code: order.Code, Status: "PAID"}); err != nil {
		t.Fatalf("settle returned error: %v", err)
	}

	ent, err := facade.Entitlement(context.Background(), 7)
	if err != nil {
		t.Fatalf("entitlement returned error: %v", err)
	}
	if !ent.Active || ent.ExpireAt == nil {
		t.Fatalf("expected active entitlement, got %+v", ent)
	}
}

func TestVIPFacadeCancelOrder(t *testing.T) {
	facade, accounts, _, _ := newFacade()
	accounts.Seed(&model.Account{ID: 3, Login: "user"})

	order, err := facade.CreateOrder(context.Background(), 3, 100, "VIP")
	if err != nil {
		t.Fatalf("create order returned error: %v", err)
	}

	if err := facade.CancelOrder(context.Background(), 3, order.Code); err != nil {
		t.Fatalf("cancel returned error: %v", err)
	}

	if err := facade.SettlePayment(context.Background(), usecase.SettleInput{Code: order.Code, Status: "PAID"}); !errors.Is(err, domainErrors.ErrAlreadyProcessed) {
		t.Fatalf("expected already processed after cancel, got %v", err)
	}
}

func TestVIPFacadeExpireStale(t *testing.T) {
	facade, accounts, orders, _ := newFacade()
	accounts.Seed(&model.Account{ID: 5, Login: "user"})

	order, err := facade.CreateOrder(context.Background(), 5, 100, "VIP")
	if err != nil {
		t.Fatalf("create order returned error: %v", err)
	}
	stored := orders.Orders[order.Code]
	stored.CreatedAt = time.Now().Add(-2 * time.Hour)

	codes, err := facade.ExpireStale(context.Background(), time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("expire returned error: %v", err)
	}
	if len(codes) != 1 || codes[0] != order.Code {
		t.Fatalf("expected order %d expired, got %v", order.Code, codes)
	}
	if stored.Status != model.OrderStatusCancelled {
		t.Fatalf("expected cancelled status, got %v", stored.Status)
	}
}
