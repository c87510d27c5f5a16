package cart

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"storefront-cart/internal/blobstore"
	"storefront-cart/internal/domain"
)

func TestPath(t *testing.T) {
	guest := domain.GuestIdentifier("abc-123")
	wallet := domain.WalletIdentifier("abc-123")

	if got := Path(guest); got != "guests/abc-123/cart.json" {
		t.Fatalf("unexpected guest path %q", got)
	}
	if got := Path(wallet); got != "wallets/abc-123/cart.json" {
		t.Fatalf("unexpected wallet path %q", got)
	}
	// Same raw id, different kind: never the same document.
	if Path(guest) == Path(wallet) {
		t.Fatalf("guest and wallet paths collide")
	}
	// Deterministic.
	if Path(guest) != Path(domain.GuestIdentifier("abc-123")) {
		t.Fatalf("path not deterministic")
	}
}

func TestBlobRepo_LoadAbsentReturnsEmpty(t *testing.T) {
	repo := NewBlob(blobstore.NewMemory(), "test-bucket", "https://storage.googleapis.com", nil)

	state, err := repo.Load(context.Background(), domain.GuestIdentifier("never-written"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(state, domain.EmptyCart()) {
		t.Fatalf("expected canonical empty cart, got %+v", state)
	}
}

func TestBlobRepo_SaveLoadRoundTrip(t *testing.T) {
	repo := NewBlob(blobstore.NewMemory(), "test-bucket", "https://storage.googleapis.com", nil)
	id := domain.WalletIdentifier("w1")

	saved := domain.CartState{
		Items: []domain.CartItem{
			{ID: 7, Name: "Limited Run Hoodie", Price: 89.99, Quantity: 2, Image1: "a.png", Image2: "b.png"},
		},
		CartURL: repo.URL(id),
	}
	if err := repo.Save(context.Background(), id, saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := repo.Load(context.Background(), id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded, saved) {
		t.Fatalf("round trip mismatch: saved %+v loaded %+v", saved, loaded)
	}
}

func TestBlobRepo_CorruptDocument(t *testing.T) {
	store := blobstore.NewMemory()
	repo := NewBlob(store, "test-bucket", "https://storage.googleapis.com", nil)
	id := domain.GuestIdentifier("g1")

	if err := store.Upload(context.Background(), Path(id), []byte("{not json"), "application/json"); err != nil {
		t.Fatalf("seed corrupt doc: %v", err)
	}

	// Forgiving load masks corruption as the empty cart.
	state, err := repo.Load(context.Background(), id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(state, domain.EmptyCart()) {
		t.Fatalf("expected empty cart for corrupt doc, got %+v", state)
	}

	// Strict load surfaces it.
	if _, err := repo.LoadStrict(context.Background(), id); !errors.Is(err, domain.ErrCorruptCart) {
		t.Fatalf("expected ErrCorruptCart, got %v", err)
	}
}

func TestBlobRepo_LoadStrictAbsent(t *testing.T) {
	repo := NewBlob(blobstore.NewMemory(), "test-bucket", "https://storage.googleapis.com", nil)

	_, err := repo.LoadStrict(context.Background(), domain.GuestIdentifier("never-written"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBlobRepo_LoadNormalizesNilItems(t *testing.T) {
	store := blobstore.NewMemory()
	repo := NewBlob(store, "test-bucket", "https://storage.googleapis.com", nil)
	id := domain.GuestIdentifier("g1")

	if err := store.Upload(context.Background(), Path(id), []byte(`{"isOpen":false,"cartUrl":""}`), "application/json"); err != nil {
		t.Fatalf("seed doc: %v", err)
	}

	state, err := repo.Load(context.Background(), id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state.Items == nil {
		t.Fatalf("expected items normalized to empty slice")
	}
}

func TestBlobRepo_URL(t *testing.T) {
	repo := NewBlob(blobstore.NewMemory(), "djt45test", "https://storage.googleapis.com/", nil)

	got := repo.URL(domain.WalletIdentifier("w1"))
	want := "https://storage.googleapis.com/djt45test/wallets/w1/cart.json"
	if got != want {
		t.Fatalf("URL = %q, want %q", got, want)
	}
}
