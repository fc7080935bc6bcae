// Package storage is the SQLite-backed datastore. Every read and write is
// scoped by the owning user; rows belonging to other users behave exactly
// like rows that do not exist.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Almonte5/Finance-Tracker/internal/core"
)

const dateLayout = "2006-01-02"

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- users ---

func (r *Repository) CreateUser(ctx context.Context, user *core.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User saved", "user_id", user.ID)
	return nil
}

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM users WHERE email = ?`, email))
}

func (r *Repository) FindUserByID(ctx context.Context, id string) (*core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM users WHERE id = ?`, id))
}

func (r *Repository) scanUser(row *sql.Row) (*core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// --- categories ---

func (r *Repository) CreateCategory(ctx context.Context, category *core.Category) error {
	category.ID = uuid.NewString()
	category.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, kind, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		category.ID, category.UserID, category.Name, category.Kind, category.Color, category.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateName
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// ListCategories returns the user's categories ordered by name ascending.
func (r *Repository) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, kind, color, created_at
		FROM categories WHERE user_id = ? ORDER BY name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Kind, &c.Color, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *Repository) GetCategory(ctx context.Context, userID, id string) (*core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, kind, color, created_at
		FROM categories WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Kind, &c.Color, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, category *core.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, kind = ?, color = ?
		WHERE id = ? AND user_id = ?`,
		category.Name, category.Kind, category.Color, category.ID, category.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateName
		}
		return fmt.Errorf("update category: %w", err)
	}
	return requireAffected(res)
}

func (r *Repository) DeleteCategory(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(res)
}

// CountTransactionsByCategory guards referential integrity before a
// category delete.
func (r *Repository) CountTransactionsByCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE category_id = ?`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions by category: %w", err)
	}
	return n, nil
}

// --- transactions ---

func (r *Repository) CreateTransaction(ctx context.Context, tx *core.Transaction) error {
	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, category_id, amount_cents, kind, description, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, tx.CategoryID, tx.Amount.Cents, tx.Kind,
		tx.Description, tx.Date.Format(dateLayout), tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", tx.ID,
		"user_id", tx.UserID,
		"kind", tx.Kind,
		"amount_cents", tx.Amount.Cents)
	return nil
}

func (r *Repository) GetTransaction(ctx context.Context, userID, id string) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, transactionSelect+`
		WHERE t.id = ? AND t.user_id = ?`, id, userID)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, tx *core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = ?, amount_cents = ?, kind = ?, description = ?, date = ?
		WHERE id = ? AND user_id = ?`,
		tx.CategoryID, tx.Amount.Cents, tx.Kind, tx.Description,
		tx.Date.Format(dateLayout), tx.ID, tx.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireAffected(res)
}

func (r *Repository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res)
}

const transactionSelect = `
	SELECT t.id, t.user_id, t.category_id, t.amount_cents, t.kind, t.description, t.date, t.created_at,
	       c.id, c.user_id, c.name, c.kind, c.color, c.created_at
	FROM transactions t
	JOIN categories c ON c.id = t.category_id`

// FindTransactions returns the user's transactions matching the filter,
// newest first, with categories attached.
func (r *Repository) FindTransactions(ctx context.Context, userID string, filter core.TransactionFilter) ([]core.Transaction, error) {
	query := transactionSelect + ` WHERE t.user_id = ?`
	args := []any{userID}

	if !filter.From.IsZero() {
		query += ` AND t.date >= ?`
		args = append(args, filter.From.Format(dateLayout))
	}
	if !filter.To.IsZero() {
		query += ` AND t.date <= ?`
		args = append(args, filter.To.Format(dateLayout))
	}
	if filter.CategoryID != "" {
		query += ` AND t.category_id = ?`
		args = append(args, filter.CategoryID)
	}
	if filter.Kind != "" {
		query += ` AND t.kind = ?`
		args = append(args, filter.Kind)
	}
	query += ` ORDER BY t.date DESC, t.created_at DESC`

	return r.queryTransactions(ctx, query, args...)
}

// FindRecentTransactions returns the user's most recently dated
// transactions, newest first.
func (r *Repository) FindRecentTransactions(ctx context.Context, userID string, limit int) ([]core.Transaction, error) {
	query := transactionSelect + `
		WHERE t.user_id = ?
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT ?`
	return r.queryTransactions(ctx, query, userID, limit)
}

func (r *Repository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []core.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, *tx)
	}
	return transactions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*core.Transaction, error) {
	var (
		tx      core.Transaction
		cat     core.Category
		dateStr string
	)
	err := row.Scan(
		&tx.ID, &tx.UserID, &tx.CategoryID, &tx.Amount.Cents, &tx.Kind,
		&tx.Description, &dateStr, &tx.CreatedAt,
		&cat.ID, &cat.UserID, &cat.Name, &cat.Kind, &cat.Color, &cat.CreatedAt)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	tx.Date = core.Date{Time: date}
	tx.Category = &cat
	return &tx, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// isUniqueViolation sniffs the driver error text; modernc.org/sqlite does
// not expose a typed constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
