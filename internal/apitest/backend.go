// Package apitest runs an in-memory finance backend behind httptest for the
// client, repository and view-model tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"

	"fintrack/internal/api"
)

var signingKey = []byte("apitest-signing-key")

// Request is one request seen by the backend.
type Request struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	Body          []byte
}

type user struct {
	dto      api.UserDTO
	password string
}

type failure struct {
	status  int
	message string
}

// Backend is a fake REST backend. All state is guarded by mu.
type Backend struct {
	server *httptest.Server

	mu           sync.Mutex
	requireAuth  bool
	nextID       int
	requests     []Request
	failures     map[string]failure
	delays       map[string]time.Duration
	users        map[string]*user
	accounts     []api.AccountDTO
	transactions []api.TransactionDTO
	budgets      []api.BudgetDTO
	summaries    map[string]any
}

// New starts a backend and stops it when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		failures:  make(map[string]failure),
		delays:    make(map[string]time.Duration),
		users:     make(map[string]*user),
		summaries: make(map[string]any),
	}
	b.server = httptest.NewServer(b.router())
	t.Cleanup(b.server.Close)
	return b
}

func (b *Backend) router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(b.record)
	r.Use(b.inject)

	r.Post("/auth/login", b.login)
	r.Post("/auth/register", b.register)

	r.Group(func(r chi.Router) {
		r.Use(b.authenticate)

		r.Get("/users/{id}", b.getUser)

		r.Get("/accounts", b.listAccounts)
		r.Post("/accounts", b.createAccount)
		r.Get("/accounts/{id}", b.getAccount)
		r.Put("/accounts/{id}", b.updateAccount)
		r.Delete("/accounts/{id}", b.deleteAccount)

		r.Get("/transactions", b.listTransactions)
		r.Post("/transactions", b.createTransaction)
		r.Get("/transactions/summary/counts", b.counts)
		r.Get("/transactions/summary/{name}", b.summary)
		r.Get("/transactions/{id}", b.getTransaction)
		r.Put("/transactions/{id}", b.updateTransaction)
		r.Delete("/transactions/{id}", b.deleteTransaction)

		r.Get("/budgets", b.listBudgets)
		r.Post("/budgets", b.createBudget)
		r.Get("/budgets/{id}", b.getBudget)
		r.Put("/budgets/{id}", b.updateBudget)
		r.Delete("/budgets/{id}", b.deleteBudget)
	})
	return r
}

// URL is the base URL of the backend.
func (b *Backend) URL() string {
	return b.server.URL
}

// RequireAuth makes every non-auth route answer 401 without a valid token.
func (b *Backend) RequireAuth(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requireAuth = on
}

// Fail makes method+path answer status until cleared with status 0.
func (b *Backend) Fail(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(b.failures, key)
		return
	}
	b.failures[key] = failure{status: status, message: message}
}

// Delay holds method+path for d before answering, or until the client gives
// up.
func (b *Backend) Delay(method, path string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delays[method+" "+path] = d
}

// Requests returns a copy of every request seen so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// LastRequest returns the latest request for method+path.
func (b *Backend) LastRequest(method, path string) (Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if r := b.requests[i]; r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Request{}, false
}

// Count returns how many requests hit method+path.
func (b *Backend) Count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// AddUser registers a user and returns a token issued for it.
func (b *Backend) AddUser(name, email, password string) (api.UserDTO, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.addUserLocked(name, email, password)
	return u.dto, IssueToken(*u.dto.ID)
}

// AddAccount stores an account, assigning an id when it has none.
func (b *Backend) AddAccount(a api.AccountDTO) api.AccountDTO {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a.ID == nil {
		a.ID = b.newIDLocked("acc")
	}
	b.accounts = append(b.accounts, a)
	return a
}

func (b *Backend) AddTransaction(t api.TransactionDTO) api.TransactionDTO {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t.ID == nil {
		t.ID = b.newIDLocked("txn")
	}
	b.transactions = append(b.transactions, t)
	return t
}

func (b *Backend) AddBudget(bd api.BudgetDTO) api.BudgetDTO {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bd.ID == nil {
		bd.ID = b.newIDLocked("bud")
	}
	b.budgets = append(b.budgets, bd)
	return bd
}

// SetSummary sets the result of GET /transactions/summary/{name}.
func (b *Backend) SetSummary(name string, v any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.summaries[name] = v
}

// Accounts returns the stored accounts.
func (b *Backend) Accounts() []api.AccountDTO {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.AccountDTO(nil), b.accounts...)
}

func (b *Backend) Budgets() []api.BudgetDTO {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.BudgetDTO(nil), b.budgets...)
}

func (b *Backend) Transactions() []api.TransactionDTO {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.TransactionDTO(nil), b.transactions...)
}

func (b *Backend) addUserLocked(name, email, password string) *user {
	u := &user{
		dto:      api.UserDTO{ID: b.newIDLocked("usr"), Name: name, Email: email},
		password: password,
	}
	b.users[*u.dto.ID] = u
	return u
}

func (b *Backend) newIDLocked(prefix string) *string {
	b.nextID++
	id := fmt.Sprintf("%s-%d", prefix, b.nextID)
	return &id
}

// IssueToken signs a token whose subject is userID.
func IssueToken(userID string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return signed
}

func validToken(header string) bool {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err == nil && token.Valid
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		b.mu.Lock()
		f, failing := b.failures[key]
		d := b.delays[key]
		b.mu.Unlock()

		if d > 0 {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		required := b.requireAuth
		b.mu.Unlock()
		if required && !validToken(r.Header.Get("Authorization")) {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeResult wraps v in the result envelope.
func writeResult(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, map[string]any{"result": v})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}
