package usecase_test

import (
	"context"
	"fmt"
	"testing"

	domainErrors "github.com/melodix/vipgate/internal/domain/errors"
	pkgAuth "github.com/melodix/vipgate/internal/pkg/auth"
	testhelpers "github.com/melodix/vipgate/internal/test"
	"github.com/melodix/vipgate/internal/usecase"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(accountID int64) (string, error) {
			return fmt.Sprintf("token-%d", accountID), nil
		},
		ParseFn: func(token string) (int64, error) {
			var id int64
			if _, err := fmt.Sscanf(token, "token-%d", &id); err != nil {
				return 0, pkgAuth.ErrInvalidToken
			}
			return id, nil
		},
	}
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	repo := testhelpers.NewAccountRepositoryStub()
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	account, token, err := uc.Register(ctx, "alice", "password")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if account.ID == 0 {
		t.Fatalf("expected account to have ID assigned")
	}
	if token != "token-1" {
		t.Fatalf("unexpected token %q", token)
	}
	stored, err := repo.GetByLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("expected account in repository: %v", err)
	}
	if stored.PasswordHash != "hash:password" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
	if stored.VIPExpireAt != nil {
		t.Fatal("fresh account must not carry entitlement")
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	repo := testhelpers.NewAccountRepositoryStub()
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "bob", "secret"); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, _, err := uc.Register(ctx, "bob", "secret"); err != domainErrors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	repo := testhelpers.NewAccountRepositoryStub()
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "carol", "123456"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol", "bad"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "nobody", "123456"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for unknown login, got %v", err)
	}

	_, token, err := uc.Authenticate(ctx, "carol", "123456")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != "token-1" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc := usecase.NewAuthUseCase(testhelpers.NewAccountRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	id, err := uc.ParseToken("token-42")
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}

	if _, err := uc.ParseToken("bad-token"); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}

	if _, err := uc.ParseToken(""); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc := usecase.NewAuthUseCase(testhelpers.NewAccountRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())
	if _, _, err := uc.Register(context.Background(), "", "password"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Register(context.Background(), "user", ""); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
}

func TestAuthUseCaseRegisterHasherError(t *testing.T) {
	repo := testhelpers.NewAccountRepositoryStub()
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{HashFn: func(string) (string, error) {
		return "", fmt.Errorf("hash error")
	}}, newStrategyStub())

	if _, _, err := uc.Register(context.Background(), "dave", "password"); err == nil {
		t.Fatal("expected hasher error to propagate")
	}
}

func TestAuthUseCaseGetByID(t *testing.T) {
	repo := testhelpers.NewAccountRepositoryStub()
	uc := usecase.NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	account, _, err := uc.Register(context.Background(), "erin", "password")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	got, err := uc.GetByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if got.Login != "erin" {
		t.Fatalf("unexpected login %q", got.Login)
	}

	if _, err := uc.GetByID(context.Background(), 999); err != domainErrors.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
