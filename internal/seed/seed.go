package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	ID     int64
	Name   string
	Price  float64
	Image1 string
	Image2 string
}

// Apply inserts the storefront catalog for manual testing. It is idempotent
// via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			ID:     1,
			Name:   "Classic Black Hoodie",
			Price:  59.99,
			Image1: "/images/hoodies/classic-black-front.png",
			Image2: "/images/hoodies/classic-black-back.png",
		},
		{
			ID:     2,
			Name:   "Washed Grey Hoodie",
			Price:  64.99,
			Image1: "/images/hoodies/washed-grey-front.png",
			Image2: "/images/hoodies/washed-grey-back.png",
		},
		{
			ID:     3,
			Name:   "Olive Zip Hoodie",
			Price:  69.99,
			Image1: "/images/hoodies/olive-zip-front.png",
			Image2: "/images/hoodies/olive-zip-back.png",
		},
		{
			ID:     7,
			Name:   "Limited Run Hoodie",
			Price:  89.99,
			Image1: "/images/hoodies/limited-front.png",
			Image2: "/images/hoodies/limited-back.png",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %d: %w", p.ID, err)
		}
	}
	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (id, name, price, image1, image2)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	price = EXCLUDED.price,
	image1 = EXCLUDED.image1,
	image2 = EXCLUDED.image2
`
	_, err := pool.Exec(ctx, q, p.ID, p.Name, p.Price, p.Image1, p.Image2)
	return err
}
