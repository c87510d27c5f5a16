package importer

import (
	"context"
	"strings"
	"testing"

	"storefront-cart/internal/domain"
)

type stubWriter struct {
	upserts []domain.Product
	err     error
}

func (s *stubWriter) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.upserts = append(s.upserts, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csv := `id,name,price,image1,image2
1,Classic Black Hoodie,59.99,front.png,back.png
2,Washed Grey Hoodie,64.99,,
`
	writer := &stubWriter{}
	imp := NewCSVImporter(strings.NewReader(csv), writer)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 imported, got %d", count)
	}

	first := writer.upserts[0]
	if first.ID != 1 || first.Name != "Classic Black Hoodie" || first.Price != 59.99 || first.Image1 != "front.png" {
		t.Fatalf("unexpected first product %+v", first)
	}
	if writer.upserts[1].Image1 != "" {
		t.Fatalf("expected empty image for second product, got %+v", writer.upserts[1])
	}
}

func TestCSVImporter_InvalidRow(t *testing.T) {
	csv := `id,name,price
abc,Broken Hoodie,59.99
`
	imp := NewCSVImporter(strings.NewReader(csv), &stubWriter{})

	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}

func TestCSVImporter_MissingName(t *testing.T) {
	csv := `id,name,price
3,,9.99
`
	imp := NewCSVImporter(strings.NewReader(csv), &stubWriter{})

	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected error for missing name")
	}
}
