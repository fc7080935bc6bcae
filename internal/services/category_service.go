package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Almonte5/Finance-Tracker/internal/core"
)

// CategoryStore is the slice of the datastore the category service needs.
type CategoryStore interface {
	ListCategories(ctx context.Context, userID string) ([]core.Category, error)
	GetCategory(ctx context.Context, userID, id string) (*core.Category, error)
	CreateCategory(ctx context.Context, category *core.Category) error
	UpdateCategory(ctx context.Context, category *core.Category) error
	DeleteCategory(ctx context.Context, userID, id string) error
	CountTransactionsByCategory(ctx context.Context, categoryID string) (int, error)
}

// CategoryPatch carries a partial update; nil fields are left unchanged.
type CategoryPatch struct {
	Name  *string
	Kind  *core.Kind
	Color *string
}

type CategoryService struct {
	store CategoryStore
}

func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

// List returns the user's categories ordered by name.
func (s *CategoryService) List(ctx context.Context, userID string) ([]core.Category, error) {
	return s.store.ListCategories(ctx, userID)
}

// Create validates and persists a new category. An empty color falls back
// to the default.
func (s *CategoryService) Create(ctx context.Context, userID, name, kindStr, color string) (*core.Category, error) {
	kind, err := core.ParseKind(kindStr)
	if err != nil {
		return nil, err
	}
	if color == "" {
		color = core.DefaultCategoryColor
	}

	category := &core.Category{
		UserID: userID,
		Name:   strings.TrimSpace(name),
		Kind:   kind,
		Color:  color,
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update applies a partial patch after the ownership check.
func (s *CategoryService) Update(ctx context.Context, userID, id string, patch CategoryPatch) (*core.Category, error) {
	category, err := s.store.GetCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		category.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Kind != nil {
		category.Kind = *patch.Kind
	}
	if patch.Color != nil {
		category.Color = *patch.Color
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category unless transactions still reference it.
func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.store.GetCategory(ctx, userID, id); err != nil {
		return err
	}

	count, err := s.store.CountTransactionsByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("count category transactions: %w", err)
	}
	if count > 0 {
		return core.ErrCategoryInUse
	}

	return s.store.DeleteCategory(ctx, userID, id)
}
