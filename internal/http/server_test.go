package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Almonte5/Finance-Tracker/internal/auth"
	"github.com/Almonte5/Finance-Tracker/internal/core"
	"github.com/Almonte5/Finance-Tracker/internal/dashboard"
	"github.com/Almonte5/Finance-Tracker/internal/services"
)

// memStore is an in-memory datastore backing every service in the tests.
type memStore struct {
	mu           sync.Mutex
	users        map[string]*core.User
	categories   map[string]*core.Category
	transactions map[string]*core.Transaction
	nextID       int
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[string]*core.User),
		categories:   make(map[string]*core.Category),
		transactions: make(map[string]*core.Transaction),
	}
}

func (m *memStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memStore) CreateUser(_ context.Context, user *core.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return core.ErrEmailTaken
		}
	}
	user.ID = m.id("user")
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (*core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memStore) FindUserByID(_ context.Context, id string) (*core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) ListCategories(_ context.Context, userID string) ([]core.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Category
	for _, c := range m.categories {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetCategory(_ context.Context, userID, id string) (*core.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok || c.UserID != userID {
		return nil, core.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) CreateCategory(_ context.Context, category *core.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.UserID == category.UserID && c.Name == category.Name {
			return core.ErrDuplicateName
		}
	}
	category.ID = m.id("cat")
	category.CreatedAt = time.Now()
	cp := *category
	m.categories[category.ID] = &cp
	return nil
}

func (m *memStore) UpdateCategory(_ context.Context, category *core.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.categories[category.ID]
	if !ok || existing.UserID != category.UserID {
		return core.ErrNotFound
	}
	cp := *category
	m.categories[category.ID] = &cp
	return nil
}

func (m *memStore) DeleteCategory(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok || c.UserID != userID {
		return core.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *memStore) CountTransactionsByCategory(_ context.Context, categoryID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, tx := range m.transactions {
		if tx.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateTransaction(_ context.Context, tx *core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx.ID = m.id("tx")
	tx.CreatedAt = time.Now()
	cp := *tx
	cp.Category = nil
	m.transactions[tx.ID] = &cp
	return nil
}

func (m *memStore) GetTransaction(_ context.Context, userID, id string) (*core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok || tx.UserID != userID {
		return nil, core.ErrNotFound
	}
	cp := *tx
	if c, ok := m.categories[cp.CategoryID]; ok {
		cat := *c
		cp.Category = &cat
	}
	return &cp, nil
}

func (m *memStore) UpdateTransaction(_ context.Context, tx *core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.transactions[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return core.ErrNotFound
	}
	cp := *tx
	cp.Category = nil
	m.transactions[tx.ID] = &cp
	return nil
}

func (m *memStore) DeleteTransaction(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok || tx.UserID != userID {
		return core.ErrNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *memStore) FindTransactions(_ context.Context, userID string, filter core.TransactionFilter) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Transaction
	for _, tx := range m.transactions {
		if tx.UserID != userID {
			continue
		}
		if !filter.From.IsZero() && tx.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && tx.Date.After(filter.To) {
			continue
		}
		if filter.CategoryID != "" && tx.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Kind != "" && tx.Kind != filter.Kind {
			continue
		}
		cp := *tx
		if c, ok := m.categories[cp.CategoryID]; ok {
			cat := *c
			cp.Category = &cat
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	return out, nil
}

func (m *memStore) FindRecentTransactions(ctx context.Context, userID string, limit int) ([]core.Transaction, error) {
	all, err := m.FindTransactions(ctx, userID, core.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func newTestServer(t *testing.T) (*Server, *memStore) {
	t.Helper()
	store := newMemStore()
	tokens := auth.NewTokenManager("test-secret-for-handlers", time.Hour)
	srv := NewServer(":0",
		auth.NewService(store, tokens),
		services.NewCategoryService(store),
		services.NewTransactionService(store, nil),
		dashboard.NewService(store),
		1000,
	)
	return srv, store
}

func doJSON(t *testing.T, srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return out
}

// registerUser registers a fresh user and returns its bearer token.
func registerUser(t *testing.T, srv *Server, email string) string {
	t.Helper()
	rr := doJSON(t, srv, http.MethodPost, "/api/auth/register", "",
		`{"email":"`+email+`","password":"secret123","name":"Test User"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register returned no token: %s", rr.Body.String())
	}
	return token
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := doJSON(t, srv, http.MethodGet, "/health", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("health status = %d", rr.Code)
	}
}

func TestAuthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	token := registerUser(t, srv, "Alice@Example.COM")

	t.Run("duplicate register rejected", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodPost, "/api/auth/register", "",
			`{"email":"alice@example.com","password":"secret123","name":"Alice"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("short password rejected", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodPost, "/api/auth/register", "",
			`{"email":"bob@example.com","password":"abc","name":"Bob"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("login normalizes email", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodPost, "/api/auth/login", "",
			`{"email":"ALICE@example.com","password":"secret123"}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodPost, "/api/auth/login", "",
			`{"email":"alice@example.com","password":"nope-nope"}`)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
	})

	t.Run("me returns the profile without the hash", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/auth/me", token, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		if strings.Contains(rr.Body.String(), "password") {
			t.Errorf("response leaks password material: %s", rr.Body.String())
		}
		body := decodeBody(t, rr)
		user, _ := body["user"].(map[string]any)
		if user["email"] != "alice@example.com" {
			t.Errorf("email = %v, want normalized lowercase", user["email"])
		}
	})

	t.Run("me without token is 401", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/auth/me", "", "")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
	})

	t.Run("me with garbage token is 401", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/auth/me", "not-a-jwt", "")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
	})
}

func TestCategoryEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerUser(t, srv, "carol@example.com")

	t.Run("registration seeds defaults", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/categories", token, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		body := decodeBody(t, rr)
		cats, _ := body["categories"].([]any)
		if len(cats) != 5 {
			t.Fatalf("seeded categories = %d, want 5", len(cats))
		}
	})

	rr := doJSON(t, srv, http.MethodPost, "/api/categories", token,
		`{"name":"Books","type":"expense","color":"#123456"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}
	created := decodeBody(t, rr)["category"].(map[string]any)
	catID := created["id"].(string)
	if created["type"] != "EXPENSE" {
		t.Errorf("type = %v, want EXPENSE", created["type"])
	}

	t.Run("duplicate name is 400", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodPost, "/api/categories", token,
			`{"name":"Books","type":"EXPENSE"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("invalid type is 400", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodPost, "/api/categories", token,
			`{"name":"Stuff","type":"TRANSFER"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("partial update", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodPut, "/api/categories/"+catID, token,
			`{"color":"#654321"}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
		}
		cat := decodeBody(t, rr)["category"].(map[string]any)
		if cat["color"] != "#654321" {
			t.Errorf("color = %v", cat["color"])
		}
		if cat["name"] != "Books" {
			t.Errorf("name changed on partial update: %v", cat["name"])
		}
	})

	t.Run("delete blocked while transactions reference it", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodPost, "/api/transactions", token,
			`{"categoryId":"`+catID+`","amount":12.50,"type":"EXPENSE","date":"2024-03-01"}`)
		if rr.Code != http.StatusCreated {
			t.Fatalf("create tx status = %d, body %s", rr.Code, rr.Body.String())
		}
		txID := decodeBody(t, rr)["transaction"].(map[string]any)["id"].(string)

		rr = doJSON(t, srv, http.MethodDelete, "/api/categories/"+catID, token, "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("delete status = %d, want 400", rr.Code)
		}

		rr = doJSON(t, srv, http.MethodDelete, "/api/transactions/"+txID, token, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("delete tx status = %d", rr.Code)
		}
		rr = doJSON(t, srv, http.MethodDelete, "/api/categories/"+catID, token, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("delete after ledger emptied status = %d", rr.Code)
		}
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodDelete, "/api/categories/nope", token, "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rr.Code)
		}
	})
}

func TestTransactionEndpoints(t *testing.T) {
	srv, store := newTestServer(t)
	token := registerUser(t, srv, "dave@example.com")

	// Grab a seeded expense category and the seeded income category.
	var expenseCat, incomeCat string
	for id, c := range store.categories {
		switch {
		case c.Kind == core.Expense && expenseCat == "":
			expenseCat = id
		case c.Kind == core.Income && incomeCat == "":
			incomeCat = id
		}
	}
	if expenseCat == "" || incomeCat == "" {
		t.Fatalf("seeded categories missing: expense=%q income=%q", expenseCat, incomeCat)
	}

	t.Run("kind mismatch is 400", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodPost, "/api/transactions", token,
			`{"categoryId":"`+incomeCat+`","amount":5,"type":"EXPENSE","date":"2024-03-01"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400, body %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("invalid amount is 400", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodPost, "/api/transactions", token,
			`{"categoryId":"`+expenseCat+`","amount":-5,"type":"EXPENSE","date":"2024-03-01"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})

	rr := doJSON(t, srv, http.MethodPost, "/api/transactions", token,
		`{"categoryId":"`+expenseCat+`","amount":42.99,"type":"EXPENSE","description":"dinner","date":"2024-03-05"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}
	tx := decodeBody(t, rr)["transaction"].(map[string]any)
	txID := tx["id"].(string)
	if tx["amount"].(float64) != 42.99 {
		t.Errorf("amount = %v, want 42.99", tx["amount"])
	}
	if tx["category"] == nil {
		t.Errorf("expected category attached to response")
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/transactions", token,
		`{"categoryId":"`+incomeCat+`","amount":1000,"type":"INCOME","date":"2024-03-01"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create income status = %d", rr.Code)
	}

	t.Run("list with type filter", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/transactions?type=EXPENSE", token, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		txs := decodeBody(t, rr)["transactions"].([]any)
		if len(txs) != 1 {
			t.Fatalf("filtered list = %d entries, want 1", len(txs))
		}
	})

	t.Run("list with date window", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/transactions?startDate=2024-03-04&endDate=2024-03-06", token, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		txs := decodeBody(t, rr)["transactions"].([]any)
		if len(txs) != 1 {
			t.Fatalf("windowed list = %d entries, want 1", len(txs))
		}
	})

	t.Run("malformed filter date is 400", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/transactions?startDate=tomorrow", token, "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("get and partial update", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/transactions/"+txID, token, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("get status = %d", rr.Code)
		}

		rr = doJSON(t, srv, http.MethodPut, "/api/transactions/"+txID, token,
			`{"description":"team dinner"}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("update status = %d, body %s", rr.Code, rr.Body.String())
		}
		updated := decodeBody(t, rr)["transaction"].(map[string]any)
		if updated["description"] != "team dinner" {
			t.Errorf("description = %v", updated["description"])
		}
		if updated["amount"].(float64) != 42.99 {
			t.Errorf("amount changed on partial update: %v", updated["amount"])
		}
	})

	t.Run("other user's transaction is invisible", func(t *testing.T) {
		otherToken := registerUser(t, srv, "eve@example.com")
		rr := doJSON(t, srv, http.MethodGet, "/api/transactions/"+txID, otherToken, "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rr.Code)
		}
	})

	t.Run("delete then get is 404", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodDelete, "/api/transactions/"+txID, token, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("delete status = %d", rr.Code)
		}
		rr = doJSON(t, srv, http.MethodGet, "/api/transactions/"+txID, token, "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("get after delete status = %d, want 404", rr.Code)
		}
	})
}

func TestDashboardEndpoints(t *testing.T) {
	srv, store := newTestServer(t)
	token := registerUser(t, srv, "frank@example.com")

	var expenseCat, incomeCat string
	for id, c := range store.categories {
		switch {
		case c.Kind == core.Expense && expenseCat == "":
			expenseCat = id
		case c.Kind == core.Income && incomeCat == "":
			incomeCat = id
		}
	}

	for _, body := range []string{
		`{"categoryId":"` + incomeCat + `","amount":1000,"type":"INCOME","date":"2024-01-05"}`,
		`{"categoryId":"` + expenseCat + `","amount":80,"type":"EXPENSE","date":"2024-01-10"}`,
		`{"categoryId":"` + expenseCat + `","amount":20,"type":"EXPENSE","date":"2024-01-20"}`,
	} {
		rr := doJSON(t, srv, http.MethodPost, "/api/transactions", token, body)
		if rr.Code != http.StatusCreated {
			t.Fatalf("seed tx status = %d, body %s", rr.Code, rr.Body.String())
		}
	}

	t.Run("summary over explicit window", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/dashboard/summary?startDate=2024-01-01&endDate=2024-01-31", token, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
		}
		body := decodeBody(t, rr)
		summary := body["summary"].(map[string]any)
		if summary["income"].(float64) != 1000 {
			t.Errorf("income = %v, want 1000", summary["income"])
		}
		if summary["expenses"].(float64) != 100 {
			t.Errorf("expenses = %v, want 100", summary["expenses"])
		}
		if summary["balance"].(float64) != 900 {
			t.Errorf("balance = %v, want 900", summary["balance"])
		}
		if summary["transactionCount"].(float64) != 3 {
			t.Errorf("transactionCount = %v, want 3", summary["transactionCount"])
		}
		breakdown := body["categoryBreakdown"].([]any)
		if len(breakdown) != 1 {
			t.Fatalf("breakdown rows = %d, want 1", len(breakdown))
		}
		if body["recentTransactions"] == nil || body["dateRange"] == nil {
			t.Errorf("payload missing recentTransactions or dateRange: %s", rr.Body.String())
		}
	})

	t.Run("summary with malformed date is 400", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/dashboard/summary?startDate=yesterday", token, "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("spending trend default length", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/dashboard/spending-trend", token, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		data := decodeBody(t, rr)["data"].([]any)
		if len(data) != dashboard.DefaultTrendMonths {
			t.Fatalf("trend points = %d, want %d", len(data), dashboard.DefaultTrendMonths)
		}
	})

	t.Run("spending trend custom length", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/dashboard/spending-trend?months=3", token, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		data := decodeBody(t, rr)["data"].([]any)
		if len(data) != 3 {
			t.Fatalf("trend points = %d, want 3", len(data))
		}
	})

	t.Run("invalid months values are 400", func(t *testing.T) {
		for _, q := range []string{"months=0", "months=-2", "months=abc"} {
			rr := doJSON(t, srv, http.MethodGet, "/api/dashboard/spending-trend?"+q, token, "")
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("%s: status = %d, want 400", q, rr.Code)
			}
		}
	})

	t.Run("dashboard requires auth", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/dashboard/summary", "", "")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
	})
}

func TestRateLimiting(t *testing.T) {
	store := newMemStore()
	tokens := auth.NewTokenManager("test-secret-for-handlers", time.Hour)
	srv := NewServer(":0",
		auth.NewService(store, tokens),
		services.NewCategoryService(store),
		services.NewTransactionService(store, nil),
		dashboard.NewService(store),
		2,
	)

	// Two mutating requests pass, the third within the window is rejected.
	for i := 0; i < 2; i++ {
		rr := doJSON(t, srv, http.MethodPost, "/api/auth/login", "",
			`{"email":"x@example.com","password":"whatever1"}`)
		if rr.Code == http.StatusTooManyRequests {
			t.Fatalf("request %d rate limited too early", i+1)
		}
	}
	rr := doJSON(t, srv, http.MethodPost, "/api/auth/login", "",
		`{"email":"x@example.com","password":"whatever1"}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rr.Code)
	}
}
