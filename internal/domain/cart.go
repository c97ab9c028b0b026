package domain

import "time"

type Cart struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"-"`
	TotalCents  int64      `json:"totalCents"`
	LastTouched time.Time  `json:"lastTouched"`
	CreatedAt   time.Time  `json:"createdAt"`
	Lines       []CartLine `json:"lineItems"`
}

type CartLine struct {
	ID             string    `json:"id"`
	CartID         string    `json:"cartId"`
	ProductID      string    `json:"productId"`
	ProductName    string    `json:"productName"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	TotalCents     int64     `json:"totalCents"`
	AddedAt        time.Time `json:"addedAt"`
}
