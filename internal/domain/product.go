package domain

import "time"

type Product struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"categoryId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	Stock       int       `json:"stock"`
	Active      bool      `json:"active"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Sellable reports whether the product may be added to a cart or ordered.
func (p Product) Sellable() bool {
	return p.Active && p.Stock > 0
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ItemCount   int       `json:"itemCount"`
}
