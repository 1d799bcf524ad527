package models

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MenuItem is one dish or drink as the cafe API returns it.
type MenuItem struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   Timestamp       `json:"created_at"`
}

var (
	ErrNameRequired = errors.New("name is required")
	ErrInvalidPrice = errors.New("price must be a finite, non-negative number")
)

func validPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0
}

// MenuItemInput is the body of POST /menu/. Blank description and category
// are left out so the API applies its own defaults.
type MenuItemInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	IsAvailable bool    `json:"is_available"`
}

func (in MenuItemInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if !validPrice(in.Price) {
		return ErrInvalidPrice
	}
	return nil
}

// MenuItemPatch is the body of PUT /menu/{id}. Nil fields are omitted and
// stay untouched server-side; IsAvailable is always sent.
type MenuItemPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	IsAvailable bool     `json:"is_available"`
}

func (p MenuItemPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrNameRequired
	}
	if p.Price != nil && !validPrice(*p.Price) {
		return ErrInvalidPrice
	}
	return nil
}
