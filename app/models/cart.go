package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/cafefront/pkg/collection"
)

// CartLine is one entry of the cart. Name and price are copied from the
// catalog when the item is first added.
type CartLine struct {
	MenuItemID int             `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds at most one line per menu item, in first-added order.
// The zero value is an empty cart.
type Cart struct {
	lines []CartLine
}

// AddItem adds one unit of id. It returns false, leaving the cart as it
// was, when id is not in catalog.
func (c *Cart) AddItem(catalog []MenuItem, id int) bool {
	item, ok := collection.First(catalog, func(m MenuItem) bool { return m.ID == id })
	if !ok {
		return false
	}

	if i := collection.IndexOf(c.lines, func(l CartLine) bool { return l.MenuItemID == id }); i >= 0 {
		c.lines[i].Quantity++
		return true
	}

	c.lines = append(c.lines, CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   1,
	})
	return true
}

// Total is the sum of unit price times quantity over every line.
func (c *Cart) Total() decimal.Decimal {
	return collection.Reduce(c.lines, decimal.Zero, func(acc decimal.Decimal, l CartLine) decimal.Decimal {
		return acc.Add(l.Subtotal())
	})
}

func (c *Cart) Clear() { c.lines = nil }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []CartLine {
	return append([]CartLine(nil), c.lines...)
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	return collection.Reduce(c.lines, 0, func(n int, l CartLine) int { return n + l.Quantity })
}

// OrderItems strips the cart down to what POST /orders/ accepts.
func (c *Cart) OrderItems() []OrderItem {
	return collection.Map(c.lines, func(l CartLine) OrderItem {
		return OrderItem{MenuItemID: l.MenuItemID, Quantity: l.Quantity}
	})
}

func (c Cart) MarshalJSON() ([]byte, error) {
	if c.lines == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.lines)
}

// UnmarshalJSON restores a cart, dropping malformed lines and merging
// duplicates so the one-line-per-item rule holds for stored carts too.
func (c *Cart) UnmarshalJSON(b []byte) error {
	var lines []CartLine
	if err := json.Unmarshal(b, &lines); err != nil {
		return err
	}

	c.lines = nil
	for _, l := range lines {
		if l.MenuItemID <= 0 || l.Quantity <= 0 {
			continue
		}
		if i := collection.IndexOf(c.lines, func(x CartLine) bool { return x.MenuItemID == l.MenuItemID }); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return nil
}
