package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/baharkarakas/balance-ledger/internal/config"
	"github.com/baharkarakas/balance-ledger/internal/models"
	repo "github.com/baharkarakas/balance-ledger/internal/repository"
	"github.com/baharkarakas/balance-ledger/internal/services"
	"github.com/baharkarakas/balance-ledger/internal/worker"
)

// ---- in-memory doubles ----

type memUsers struct {
	users  map[int64]models.User
	nextID int64
}

func (m *memUsers) Create(_ context.Context, balance float64) (models.User, error) {
	m.nextID++
	u := models.User{ID: m.nextID, Balance: balance, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) UpdateBalance(_ context.Context, id int64, balance float64) (models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	u.Balance = balance
	m.users[id] = u
	return u, nil
}

type memLedger struct {
	txs    []models.Transaction
	nextID int64
}

func (m *memLedger) Create(_ context.Context, userID int64, action models.TransactionAction, amount float64) (models.Transaction, error) {
	m.nextID++
	tx := models.Transaction{ID: m.nextID, UserID: userID, Action: action, Amount: amount, Ts: time.Now()}
	m.txs = append(m.txs, tx)
	return tx, nil
}

func (m *memLedger) FindByUserID(_ context.Context, userID int64) ([]models.Transaction, error) {
	var out []models.Transaction
	for i := len(m.txs) - 1; i >= 0; i-- {
		if m.txs[i].UserID == userID {
			out = append(out, m.txs[i])
		}
	}
	return out, nil
}

func (m *memLedger) History(ctx context.Context, userID int64, limit, offset int) ([]models.Transaction, error) {
	all, _ := m.FindByUserID(ctx, userID)
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memLedger) GetByID(_ context.Context, id int64) (models.Transaction, error) {
	for _, tx := range m.txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return models.Transaction{}, repo.ErrNotFound
}

type noopCache struct{}

func (noopCache) Get(context.Context, string, any) bool           { return false }
func (noopCache) Set(context.Context, string, any, time.Duration) {}
func (noopCache) Delete(context.Context, string)                  {}

type noopAudit struct{}

func (noopAudit) Create(context.Context, models.AuditLog) error { return nil }

// ---- helpers ----

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	users := &memUsers{users: map[int64]models.User{}}
	ledger := &memLedger{}
	wp := worker.NewPool(1)
	t.Cleanup(wp.Stop)

	bs := services.NewBalanceService(users, ledger, noopAudit{}, noopCache{}, 30*time.Second, wp)
	us := services.NewUserService(users, ledger, bs)
	return NewRouter(config.Config{RateRPS: 1000}, us, bs, ledger)
}

func doRequest(t *testing.T, router http.Handler, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- tests ----

func TestCreditEndpoint(t *testing.T) {
	r := newTestRouter(t)

	if w := doRequest(t, r, http.MethodPost, "/api/v1/users", `{"balance":0}`); w.Code != http.StatusCreated {
		t.Fatalf("create user: status %d, body %s", w.Code, w.Body.String())
	}

	w := doRequest(t, r, http.MethodPost, "/api/v1/balance/credit", `{"user_id":1,"amount":500}`)
	if w.Code != http.StatusOK {
		t.Fatalf("credit: status %d, body %s", w.Code, w.Body.String())
	}
	var info models.BalanceInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Balance != 500 || info.UserID != 1 {
		t.Fatalf("unexpected result %+v", info)
	}
}

func TestDebitInsufficientFundsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	doRequest(t, r, http.MethodPost, "/api/v1/users", `{"balance":100}`)

	w := doRequest(t, r, http.MethodPost, "/api/v1/balance/debit", `{"user_id":1,"amount":150}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400; body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "insufficient_funds") {
		t.Fatalf("body %s missing insufficient_funds code", w.Body.String())
	}
}

func TestDebitValidationEndpoint(t *testing.T) {
	r := newTestRouter(t)
	doRequest(t, r, http.MethodPost, "/api/v1/users", `{"balance":100}`)

	w := doRequest(t, r, http.MethodPost, "/api/v1/balance/debit", `{"user_id":1,"amount":-5}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "validation_error") {
		t.Fatalf("body %s missing validation_error code", w.Body.String())
	}
}

func TestGetBalanceEndpoint(t *testing.T) {
	r := newTestRouter(t)
	doRequest(t, r, http.MethodPost, "/api/v1/users", `{"balance":250}`)

	w := doRequest(t, r, http.MethodGet, "/api/v1/balance/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var info models.BalanceInfo
	_ = json.Unmarshal(w.Body.Bytes(), &info)
	if info.Balance != 250 {
		t.Fatalf("balance = %v, want 250", info.Balance)
	}
}

func TestUserNotFoundEndpoint(t *testing.T) {
	r := newTestRouter(t)
	if w := doRequest(t, r, http.MethodGet, "/api/v1/users/99", ""); w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
	if w := doRequest(t, r, http.MethodGet, "/api/v1/balance/99", ""); w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
}

func TestTransactionsEndpointRequiresUserID(t *testing.T) {
	r := newTestRouter(t)
	if w := doRequest(t, r, http.MethodGet, "/api/v1/transactions", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestTransactionsHistoryEndpoint(t *testing.T) {
	r := newTestRouter(t)
	doRequest(t, r, http.MethodPost, "/api/v1/users", `{"balance":0}`)
	doRequest(t, r, http.MethodPost, "/api/v1/balance/credit", `{"user_id":1,"amount":500}`)
	doRequest(t, r, http.MethodPost, "/api/v1/balance/debit", `{"user_id":1,"amount":200}`)

	w := doRequest(t, r, http.MethodGet, "/api/v1/transactions?user_id=1&limit=10", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var txs []models.Transaction
	if err := json.Unmarshal(w.Body.Bytes(), &txs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	// Most recent first.
	if txs[0].Action != models.ActionDebit || txs[1].Action != models.ActionCredit {
		t.Fatalf("unexpected order: %+v", txs)
	}
}
