// Package services orchestrates writes across the datastore and the event
// publisher, and enforces the ownership and referential guards that sit in
// front of plain CRUD.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Almonte5/Finance-Tracker/internal/core"
	"github.com/Almonte5/Finance-Tracker/internal/events"
)

// TransactionStore is the slice of the datastore the transaction service
// writes through.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx *core.Transaction) error
	GetTransaction(ctx context.Context, userID, id string) (*core.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *core.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	FindTransactions(ctx context.Context, userID string, filter core.TransactionFilter) ([]core.Transaction, error)
	GetCategory(ctx context.Context, userID, id string) (*core.Category, error)
}

// TransactionInput carries a full transaction payload for creation.
type TransactionInput struct {
	CategoryID  string
	Amount      core.Money
	Kind        core.Kind
	Description string
	Date        core.Date
}

// TransactionPatch carries a partial update; nil fields are left unchanged.
type TransactionPatch struct {
	CategoryID  *string
	Amount      *core.Money
	Kind        *core.Kind
	Description *string
	Date        *core.Date
}

type TransactionService struct {
	store     TransactionStore
	publisher *events.Client
}

func NewTransactionService(store TransactionStore, publisher *events.Client) *TransactionService {
	return &TransactionService{store: store, publisher: publisher}
}

// List returns the user's transactions narrowed by the filter.
func (s *TransactionService) List(ctx context.Context, userID string, filter core.TransactionFilter) ([]core.Transaction, error) {
	return s.store.FindTransactions(ctx, userID, filter)
}

// Get returns one transaction; rows owned by other users read as not found.
func (s *TransactionService) Get(ctx context.Context, userID, id string) (*core.Transaction, error) {
	return s.store.GetTransaction(ctx, userID, id)
}

// Create validates the input, verifies the category belongs to the user and
// matches the transaction kind, persists, and publishes a lifecycle event.
func (s *TransactionService) Create(ctx context.Context, userID string, input TransactionInput) (*core.Transaction, error) {
	tx := &core.Transaction{
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Amount:      input.Amount,
		Kind:        input.Kind,
		Description: input.Description,
		Date:        input.Date,
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	category, err := s.store.GetCategory(ctx, userID, tx.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("verify category: %w", err)
	}
	if category.Kind != tx.Kind {
		return nil, core.ErrKindMismatch
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	tx.Category = category

	s.publish(ctx, tx.ID, userID, events.ActionCreated)
	return tx, nil
}

// Update applies a partial patch to an existing transaction. Ownership of
// both the transaction and any newly referenced category is verified first.
func (s *TransactionService) Update(ctx context.Context, userID, id string, patch TransactionPatch) (*core.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.CategoryID != nil {
		tx.CategoryID = *patch.CategoryID
	}
	if patch.Amount != nil {
		tx.Amount = *patch.Amount
	}
	if patch.Kind != nil {
		tx.Kind = *patch.Kind
	}
	if patch.Description != nil {
		tx.Description = *patch.Description
	}
	if patch.Date != nil {
		tx.Date = *patch.Date
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	category, err := s.store.GetCategory(ctx, userID, tx.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("verify category: %w", err)
	}
	if category.Kind != tx.Kind {
		return nil, core.ErrKindMismatch
	}

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	tx.Category = category

	s.publish(ctx, tx.ID, userID, events.ActionUpdated)
	return tx, nil
}

// Delete removes a transaction after the ownership check.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.store.GetTransaction(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}

	s.publish(ctx, id, userID, events.ActionDeleted)
	return nil
}

// publish emits a lifecycle event. The write has already succeeded, so a
// broker failure is logged and swallowed rather than failing the request.
func (s *TransactionService) publish(ctx context.Context, transactionID, userID, action string) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping",
			"action", action, "transaction_id", transactionID)
		return
	}
	event := events.NewTransactionEvent(transactionID, userID, action)
	if err := s.publisher.PublishTransactionEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"action", action, "transaction_id", transactionID, "error", err)
	}
}
