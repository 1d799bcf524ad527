package models

import "github.com/shopspring/decimal"

// OrderItem is one requested line of a new order. Prices are never sent;
// the API prices orders itself.
type OrderItem struct {
	MenuItemID int `json:"menu_item_id"`
	Quantity   int `json:"quantity"`
}

// OrderRequest is the body of POST /orders/.
type OrderRequest struct {
	Items []OrderItem `json:"items"`
}

// OrderLine is a priced line of a placed order.
type OrderLine struct {
	MenuItemID int             `json:"menu_item_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// Order is a placed order as the API reports it.
type Order struct {
	ID          int             `json:"id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedAt   Timestamp       `json:"created_at"`
	Items       []OrderLine     `json:"items"`
}
