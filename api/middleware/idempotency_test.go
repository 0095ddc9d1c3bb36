package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/PHRJr/BuritisProject/pkg/enums"
	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
	"github.com/PHRJr/BuritisProject/pkg/identity"
	"github.com/PHRJr/BuritisProject/pkg/logger"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	str, _ := value.(string)
	f.data[key] = str
	return nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func requestWithPattern(method, url, pattern string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, url, body)
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rc)
	ctx = WithIdentity(ctx, "sess-1", identity.Identity{
		Role:    enums.RoleUser,
		Kind:    enums.CredentialKindEmail,
		Subject: "loja@example.com",
	})
	return req.WithContext(ctx)
}

func submitRequest(key, body string) *http.Request {
	req := requestWithPattern(http.MethodPost, "/api/adicionar_item", "/api/adicionar_item", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	return req
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		pattern string
		want    time.Duration
		ok      bool
	}{
		{"submission", http.MethodPost, "/api/adicionar_item", submissionIdempotencyTTL, true},
		{"submission wrong method", http.MethodGet, "/api/adicionar_item", 0, false},
		{"login", http.MethodPost, "/api/user-login", 0, false},
		{"empty", http.MethodPost, "", 0, false},
	}

	for _, tt := range tests {
		ttl, ok := routeTTL(tt.method, tt.pattern)
		if ok != tt.ok {
			t.Fatalf("%s: expected ok=%v got %v", tt.name, tt.ok, ok)
		}
		if ok && ttl != tt.want {
			t.Fatalf("%s: expected ttl=%v got %v", tt.name, tt.want, ttl)
		}
	}
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	store := newFakeStore()
	var calls int32
	handler := Idempotency(store, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusCreated)
	}))

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, submitRequest("", `{"rede":"A"}`))
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d", rr.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("expected handler to run twice, got %d", calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("expected nothing stored, got %v", store.data)
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	var calls int32
	handler := Idempotency(store, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"Itens adicionados com sucesso!","itens":2}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, submitRequest("abc", `{"rede":"A"}`))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, submitRequest("abc", `{"rede":"A"}`))

	if calls != 1 {
		t.Fatalf("expected handler once, got %d", calls)
	}
	if second.Code != http.StatusOK {
		t.Fatalf("expected replayed 200 got %d", second.Code)
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay header")
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("expected identical body, got %q vs %q", second.Body.String(), first.Body.String())
	}
	if got := second.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected stored content type, got %q", got)
	}
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	store := newFakeStore()
	handler := Idempotency(store, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), submitRequest("abc", `{"rede":"A"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, submitRequest("abc", `{"rede":"B"}`))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["code"] != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected idempotency code, got %v", payload["code"])
	}
}

func TestIdempotencyPendingRequestConflicts(t *testing.T) {
	store := newFakeStore()
	var calls int32
	handler := Idempotency(store, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))

	first := submitRequest("abc", `{"rede":"A"}`)
	key := store.IdempotencyKey(buildScope(first), "abc")
	lock, _ := json.Marshal(idempotencyRecord{Pending: true, RequestHash: hashBody([]byte(`{"rede":"A"}`))})
	store.data[key] = string(lock)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, first)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Envio já em processamento.") {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
	if calls != 0 {
		t.Fatalf("handler should not run while pending")
	}
}

func TestIdempotencyReleasesLockOnFailure(t *testing.T) {
	store := newFakeStore()
	var calls int32
	handler := Idempotency(store, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, submitRequest("abc", `{"rede":"A"}`))
	if first.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", first.Code)
	}
	if len(store.data) != 0 {
		t.Fatalf("expected lock to be released, got %v", store.data)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, submitRequest("abc", `{"rede":"A"}`))
	if second.Code != http.StatusOK {
		t.Fatalf("expected retry to run, got %d", second.Code)
	}
	if calls != 2 {
		t.Fatalf("expected two handler runs, got %d", calls)
	}
}

func TestIdempotencyScopesBySubject(t *testing.T) {
	a := submitRequest("abc", "{}")
	b := httptest.NewRequest(http.MethodPost, "/api/adicionar_item", nil)
	b = b.WithContext(WithIdentity(b.Context(), "sess-2", identity.Identity{
		Role: enums.RoleUser, Kind: enums.CredentialKindEmail, Subject: "outra@example.com",
	}))
	if buildScope(a) == buildScope(b) {
		t.Fatalf("expected distinct scopes for distinct subjects")
	}
}

func TestIdempotencyRejectsLongKey(t *testing.T) {
	handler := Idempotency(newFakeStore(), logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, submitRequest(strings.Repeat("k", maxIdempotencyKeyLen+1), "{}"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}
