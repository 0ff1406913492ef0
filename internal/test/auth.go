package test

import (
	"context"
	"errors"

	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	pkgAuth "github.com/Jayasakthi-07/foodie/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(string) (string, error)
	ParseFn func(string) (string, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(userID string) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(userID)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "user-1", nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// IdentifierStub implements middleware token resolution.
type IdentifierStub struct {
	User       *model.User
	Err        error
	IdentifyFn func(context.Context, string) (*model.User, error)
}

// Identify either delegates to override or returns predefined result.
func (s IdentifierStub) Identify(ctx context.Context, token string) (*model.User, error) {
	if s.IdentifyFn != nil {
		return s.IdentifyFn(ctx, token)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.User != nil {
		return s.User, nil
	}
	return &model.User{ID: "user-1", Role: model.RoleCustomer}, nil
}

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string) (*model.User, string, error)
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	IdentifyFn     func(context.Context, string) (*model.User, error)
}

// Register returns a fresh customer and token unless overridden.
func (s AuthFacadeStub) Register(ctx context.Context, login, password string) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password)
	}
	return &model.User{ID: "user-1", Login: login, Role: model.RoleCustomer}, "token", nil
}

// Authenticate returns the customer user-1 and token unless overridden.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return &model.User{ID: "user-1", Login: login, Role: model.RoleCustomer}, "token", nil
}

// Identify returns the customer user-1 unless overridden.
func (s AuthFacadeStub) Identify(ctx context.Context, token string) (*model.User, error) {
	if s.IdentifyFn != nil {
		return s.IdentifyFn(ctx, token)
	}
	return &model.User{ID: "user-1", Role: model.RoleCustomer}, nil
}

// FoodieFacadeStub aggregates facade dependencies for HTTP layer tests.
type FoodieFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	AdminFacadeStub
	HealthFacadeStub
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
