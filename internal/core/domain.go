package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "INCOME"
	Expense Kind = "EXPENSE"
)

// DefaultCategoryColor is applied when a category is created without a color.
const DefaultCategoryColor = "#3B82F6"

type (
	// Kind discriminates income from expense on both categories and transactions.
	Kind string

	// Date is a calendar date; the time-of-day portion is not significant.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	User struct {
		ID           string    `json:"id"`
		Email        string    `json:"email"`
		Name         string    `json:"name"`
		PasswordHash string    `json:"-"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	Category struct {
		ID        string    `json:"id"`
		UserID    string    `json:"userId"`
		Name      string    `json:"name"`
		Kind      Kind      `json:"type"`
		Color     string    `json:"color"`
		CreatedAt time.Time `json:"createdAt"`
	}

	Transaction struct {
		ID          string    `json:"id"`
		UserID      string    `json:"userId"`
		CategoryID  string    `json:"categoryId"`
		Amount      Money     `json:"amount"`
		Kind        Kind      `json:"type"`
		Description string    `json:"description,omitempty"`
		Date        Date      `json:"date"`
		CreatedAt   time.Time `json:"createdAt"`
		Category    *Category `json:"category,omitempty"`
	}

	// TransactionFilter narrows FindTransactions reads. Zero values mean
	// "no constraint" for the corresponding field.
	TransactionFilter struct {
		From       time.Time
		To         time.Time
		CategoryID string
		Kind       Kind
	}
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidKind   = errors.New("type must be INCOME or EXPENSE")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyName     = errors.New("name is required")
	ErrEmptyCategory = errors.New("category is required")
	ErrDuplicateName = errors.New("category name already exists")
	ErrCategoryInUse = errors.New("category has existing transactions")
	ErrEmailTaken    = errors.New("user already exists")
	ErrInvalidLogin  = errors.New("invalid credentials")
	ErrKindMismatch  = errors.New("transaction type does not match category type")
)

// ParseKind validates a caller-supplied kind string.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// NewDate creates a Date at midnight UTC for year/month/day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MarshalJSON renders the calendar date as YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDate parses a caller-supplied ISO-8601 date string. A plain calendar
// date (2006-01-02) and a full RFC 3339 timestamp are both accepted; anything
// else is a caller error.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if !c.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}
