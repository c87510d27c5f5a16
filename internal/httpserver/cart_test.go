package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront-cart/internal/blobstore"
	"storefront-cart/internal/domain"
	cartrepo "storefront-cart/internal/repository/cart"
	cartsvc "storefront-cart/internal/service/cart"
)

type stubCatalog struct {
	products map[int64]domain.Product
}

func (s *stubCatalog) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func testRouter(t *testing.T) (*gin.Engine, *blobstore.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := blobstore.NewMemory()
	logger := log.New(os.Stdout, "[test] ", 0)
	repo := cartrepo.NewBlob(store, "test-bucket", "https://storage.googleapis.com", logger)
	catalog := &stubCatalog{products: map[int64]domain.Product{
		7: {ID: 7, Name: "Limited Run Hoodie", Price: 89.99, Image1: "front.png", Image2: "back.png"},
	}}
	svc := cartsvc.New(repo, catalog, logger)

	router := buildRouter(logger, nil, Deps{CartSvc: svc}, Options{
		CORSOrigins: []string{"http://localhost:3000"},
	})
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, target, body, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) domain.CartState {
	t.Helper()
	var state domain.CartState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode cart response: %v (body %s)", err, rec.Body.String())
	}
	return state
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == cartCookieName {
			return c.Name + "=" + c.Value
		}
	}
	t.Fatalf("no %s cookie in response", cartCookieName)
	return ""
}

func TestCartScenario_GuestAddUpdateRemove(t *testing.T) {
	router, _ := testRouter(t)

	// Add to an empty guest cart mints a session cookie.
	rec := doJSON(t, router, http.MethodPost, "/api/cart/add", `{"id":7,"quantity":2}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(t, rec)
	state := decodeCart(t, rec)
	if len(state.Items) != 1 || state.Items[0].ID != 7 || state.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items after add: %+v", state.Items)
	}
	if state.CartURL == "" {
		t.Fatalf("expected cartUrl in response")
	}

	// Second add increments the quantity.
	rec = doJSON(t, router, http.MethodPost, "/api/cart/add", `{"id":7,"quantity":3}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("second add: expected 200, got %d", rec.Code)
	}
	state = decodeCart(t, rec)
	if len(state.Items) != 1 || state.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %+v", state.Items)
	}

	// Quantity 0 deletes the item.
	rec = doJSON(t, router, http.MethodPost, "/api/cart/update-quantity", `{"id":7,"quantity":0}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("update-quantity 0: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	state = decodeCart(t, rec)
	if len(state.Items) != 0 {
		t.Fatalf("expected empty items, got %+v", state.Items)
	}

	// Positive quantity on the now-empty cart is a 404.
	rec = doJSON(t, router, http.MethodPost, "/api/cart/update-quantity", `{"id":7,"quantity":4}`, cookie)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCartAdd_Failures(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/cart/add", `{"id":7,"quantity":0}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("quantity 0: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/cart/add", `{"id":999,"quantity":1}`, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown product: expected 404, got %d", rec.Code)
	}

	// Id 0 is a well-formed number, just not a product.
	rec = doJSON(t, router, http.MethodPost, "/api/cart/add", `{"id":0,"quantity":1}`, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("id 0: expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/cart/add", `{"id":"x"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: expected 400, got %d", rec.Code)
	}
}

func TestCartRemove_AbsentIsSuccess(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/cart/remove", `{"id":42}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	state := decodeCart(t, rec)
	if len(state.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", state.Items)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/cart/remove", `{"id":0}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("id 0: expected 200, got %d", rec.Code)
	}
}

func TestCartStorage_FetchAndReplace(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/cart/storage", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch: expected 200, got %d", rec.Code)
	}
	cookie := sessionCookie(t, rec)
	state := decodeCart(t, rec)
	if len(state.Items) != 0 {
		t.Fatalf("expected empty cart on first fetch, got %+v", state.Items)
	}

	body := `{"items":[{"id":3,"name":"Olive Zip Hoodie","price":69.99,"quantity":1}],"isOpen":false,"cartUrl":""}`
	rec = doJSON(t, router, http.MethodPost, "/api/cart/storage", body, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("replace: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/cart/storage", "", cookie)
	state = decodeCart(t, rec)
	if len(state.Items) != 1 || state.Items[0].ID != 3 {
		t.Fatalf("replace did not persist: %+v", state.Items)
	}
}

func TestCartStorage_MalformedReplaceIs500(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/cart/storage", `{"items":`, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("malformed replace: expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Internal server error.") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCartClear(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/cart/add", `{"id":7,"quantity":2}`, "")
	cookie := sessionCookie(t, rec)

	rec = doJSON(t, router, http.MethodPost, "/api/cart/clear", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear: expected 200, got %d", rec.Code)
	}
	state := decodeCart(t, rec)
	if len(state.Items) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", state.Items)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/cart/storage", "", cookie)
	state = decodeCart(t, rec)
	if len(state.Items) != 0 {
		t.Fatalf("clear did not persist, got %+v", state.Items)
	}
}

func TestWalletQueryPinsIdentifier(t *testing.T) {
	router, store := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/cart/add?walletId=w1", `{"id":7,"quantity":1}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// Wallet requests never mint a session cookie.
	for _, c := range rec.Result().Cookies() {
		if c.Name == cartCookieName {
			t.Fatalf("wallet request minted a session cookie")
		}
	}

	exists, err := store.Exists(context.Background(), "wallets/w1/cart.json")
	if err != nil || !exists {
		t.Fatalf("expected wallet document, exists=%v err=%v", exists, err)
	}
}

func TestMigrate(t *testing.T) {
	router, store := testRouter(t)

	// Seed a guest cart under a known session id.
	guest := domain.GuestIdentifier("sess-1")
	doc, _ := json.Marshal(domain.CartState{Items: []domain.CartItem{{ID: 7, Name: "Limited Run Hoodie", Price: 89.99, Quantity: 2}}})
	if err := store.Upload(context.Background(), cartrepo.Path(guest), doc, "application/json"); err != nil {
		t.Fatalf("seed guest cart: %v", err)
	}

	cookie := fmt.Sprintf("%s=sess-1", cartCookieName)

	// Mismatched session id is rejected.
	rec := doJSON(t, router, http.MethodPost, "/api/cart/migrate", `{"sessionId":"other","walletId":"w1"}`, cookie)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("mismatch: expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Session does not match.") {
		t.Fatalf("unexpected mismatch body: %s", rec.Body.String())
	}

	// Matching session id merges and clears.
	rec = doJSON(t, router, http.MethodPost, "/api/cart/migrate", `{"sessionId":"sess-1","walletId":"w1"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("migrate: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/cart/storage?walletId=w1", "", "")
	state := decodeCart(t, rec)
	if len(state.Items) != 1 || state.Items[0].ID != 7 || state.Items[0].Quantity != 2 {
		t.Fatalf("unexpected wallet cart after migrate: %+v", state.Items)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/cart/storage", "", cookie)
	state = decodeCart(t, rec)
	if len(state.Items) != 0 {
		t.Fatalf("guest cart not cleared after migrate: %+v", state.Items)
	}
}

func TestHealthz(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
