// Package auth implements registration, login and token verification. It is
// the identity collaborator the rest of the service consumes: everything
// downstream receives an already-verified user ID and never reads identity
// from ambient state.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Almonte5/Finance-Tracker/internal/core"
)

// bcryptCost matches the original deployment's hashing cost.
const bcryptCost = 10

// defaultCategories are seeded for every new user.
var defaultCategories = []core.Category{
	{Name: "Salary", Kind: core.Income, Color: "#10B981"},
	{Name: "Food", Kind: core.Expense, Color: "#EF4444"},
	{Name: "Transport", Kind: core.Expense, Color: "#F59E0B"},
	{Name: "Entertainment", Kind: core.Expense, Color: "#8B5CF6"},
	{Name: "Utilities", Kind: core.Expense, Color: "#3B82F6"},
}

// Store is the slice of the datastore auth needs.
type Store interface {
	CreateUser(ctx context.Context, user *core.User) error
	FindUserByEmail(ctx context.Context, email string) (*core.User, error)
	FindUserByID(ctx context.Context, id string) (*core.User, error)
	CreateCategory(ctx context.Context, category *core.Category) error
}

type Service struct {
	store  Store
	tokens *TokenManager
}

func NewService(store Store, tokens *TokenManager) *Service {
	return &Service{store: store, tokens: tokens}
}

// Register creates a user with a hashed password, seeds the default
// categories, and returns the user with a signed token.
func (s *Service) Register(ctx context.Context, email, password, name string) (*core.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, "", errors.New("email, password and name are required")
	}

	if existing, err := s.store.FindUserByEmail(ctx, email); err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, "", fmt.Errorf("check existing user: %w", err)
	} else if existing != nil {
		return nil, "", core.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &core.User{Email: email, Name: name, PasswordHash: string(hash)}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	for _, c := range defaultCategories {
		category := c
		category.UserID = user.ID
		if err := s.store.CreateCategory(ctx, &category); err != nil {
			// The account is usable without its starter categories.
			slog.WarnContext(ctx, "Failed to seed default category",
				"user_id", user.ID, "category", category.Name, "error", err)
		}
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login authenticates a user and returns a signed token. Both unknown email
// and wrong password come back as the same generic error.
func (s *Service) Login(ctx context.Context, email, password string) (*core.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, "", core.ErrInvalidLogin
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", core.ErrInvalidLogin
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	slog.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return user, token, nil
}

// Me returns the profile of an already-authenticated user.
func (s *Service) Me(ctx context.Context, userID string) (*core.User, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", userID, err)
	}
	return user, nil
}

// VerifyToken resolves a bearer token to the user ID it was issued for.
func (s *Service) VerifyToken(token string) (string, error) {
	return s.tokens.Verify(token)
}
