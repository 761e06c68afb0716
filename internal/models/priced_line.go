package models

import "github.com/shopspring/decimal"

// PricedLine is a resolved cart line: the catalog name and price copied at
// composition time. It is a plain value and holds no reference to the catalog row.
type PricedLine struct {
	Kind        OrderItemKind
	ReferenceID uint
	Name        string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// Subtotal returns quantity × unit price
func (p PricedLine) Subtotal() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// ToOrderItem turns the snapshot into a persistable order line
func (p PricedLine) ToOrderItem() OrderItem {
	refID := p.ReferenceID
	name := p.Name
	item := OrderItem{
		ItemType:  p.Kind,
		Quantity:  p.Quantity,
		UnitPrice: p.UnitPrice,
	}
	switch p.Kind {
	case ItemKindCombo:
		item.ComboID = &refID
		item.ComboName = &name
	default:
		item.FastFoodID = &refID
		item.FastFoodName = &name
	}
	return item
}
