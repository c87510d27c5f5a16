package domain

import "time"

// Product is a catalog row. The cart snapshots name, price and images from
// it at add time.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image1    string    `json:"image1,omitempty"`
	Image2    string    `json:"image2,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartItemFromProduct builds the add-time snapshot for a product.
func CartItemFromProduct(p Product, quantity int) CartItem {
	return CartItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: quantity,
		Image1:   p.Image1,
		Image2:   p.Image2,
	}
}
