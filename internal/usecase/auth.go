package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/Jayasakthi-07/foodie/internal/domain/errors"
	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	"github.com/Jayasakthi-07/foodie/internal/domain/repository"
	pkgAuth "github.com/Jayasakthi-07/foodie/internal/pkg/auth"
)

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// Register creates a customer account with login/password and returns auth token.
// Staff roles are granted only through AssignRole or the admin seed.
func (u *AuthUseCase) Register(ctx context.Context, login, password string) (*model.User, string, error) {
	usr, err := u.create(ctx, login, password, model.RoleCustomer)
	if err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// AssignRole changes the role of userID. Only admins may do this.
func (u *AuthUseCase) AssignRole(ctx context.Context, actor Viewer, userID string, role model.Role) (*model.User, error) {
	if actor.Role != model.RoleAdmin {
		return nil, domainErrors.ErrForbidden
	}
	if !role.Valid() {
		return nil, domainErrors.ErrInvalidRole
	}
	if actor.UserID == userID && role != model.RoleAdmin {
		return nil, domainErrors.ErrForbidden
	}
	return u.users.UpdateRole(ctx, userID, role)
}

// EnsureAdmin makes sure an admin account with login exists.
// An existing account with that login is promoted; its password is left untouched.
func (u *AuthUseCase) EnsureAdmin(ctx context.Context, login, password string) (*model.User, error) {
	usr, err := u.create(ctx, login, password, model.RoleAdmin)
	if err == nil {
		return usr, nil
	}
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		return nil, err
	}

	usr, err = u.users.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		return nil, err
	}
	if usr.Role == model.RoleAdmin {
		return usr, nil
	}
	return u.users.UpdateRole(ctx, usr.ID, model.RoleAdmin)
}

func (u *AuthUseCase) create(ctx context.Context, login, password string, role model.Role) (*model.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	usr, err := u.users.Create(ctx, login, hash, role)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return usr, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken extracts user ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id string) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}
