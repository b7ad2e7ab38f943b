package cart

import (
	"strings"
	"time"
)

// MaxLineQuantity caps the quantity of any single cart line.
const MaxLineQuantity = 10

// Line is one product/variant/size entry in a cart. Price and display fields
// are refreshed from the catalog whenever the line is touched.
type Line struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	VariantID   string  `json:"variant_id"`
	Size        string  `json:"size"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	ProductName string  `json:"product_name"`
	ProductSlug string  `json:"product_slug"`
	Color       string  `json:"color"`
	Image       string  `json:"image"`
}

// Cart belongs to exactly one owner: a registered user (UserID set) or an
// anonymous session (SessionID set). Lines are stored as a JSON document.
type Cart struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    *string   `gorm:"index" json:"user_id"`
	SessionID *string   `gorm:"index" json:"session_id"`
	Lines     []Line    `gorm:"serializer:json" json:"lines"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FindLine returns the line with the given id, or nil.
func (c *Cart) FindLine(lineID string) *Line {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return &c.Lines[i]
		}
	}
	return nil
}

// FindMatchingLine returns the line for the same product/variant/size
// combination, matching size case-insensitively, or nil.
func (c *Cart) FindMatchingLine(productID, variantID, size string) *Line {
	for i := range c.Lines {
		l := &c.Lines[i]
		if l.ProductID == productID && l.VariantID == variantID && strings.EqualFold(l.Size, size) {
			return l
		}
	}
	return nil
}

// RemoveLine deletes the line with the given id; reports whether it existed.
func (c *Cart) RemoveLine(lineID string) bool {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Subtotal sums quantity times unit price across all lines.
func (c *Cart) Subtotal() float64 {
	var subtotal float64
	for _, l := range c.Lines {
		subtotal += float64(l.Quantity) * l.UnitPrice
	}
	return subtotal
}

// ItemCount sums line quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}
