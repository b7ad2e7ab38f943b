package catalog

import (
	"strings"
	"time"
)

// Category groups products for storefront navigation.
type Category struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// SizeStock is the stock level for one size of a variant.
type SizeStock struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// Variant is a colorway of a product with per-size stock and its own images.
type Variant struct {
	ID     string      `json:"id"`
	Color  string      `json:"color"`
	Images []string    `json:"images"`
	Sizes  []SizeStock `json:"sizes"`
}

// Product is a catalog item. Variants are stored as a JSON document column,
// keeping the variant/size structure intact in a single row.
type Product struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Slug         string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description  string    `json:"description"`
	CategoryID   string    `gorm:"index" json:"category_id"`
	CategoryName string    `json:"category_name"`
	Price        float64   `gorm:"not null" json:"price"`
	SalePrice    *float64  `json:"sale_price"`
	Fabric       string    `json:"fabric"`
	Tags         []string  `gorm:"serializer:json" json:"tags"`
	Variants     []Variant `gorm:"serializer:json" json:"variants"`
	IsFeatured   bool      `gorm:"default:false" json:"is_featured"`
	IsActive     bool      `gorm:"default:true;index" json:"is_active"`
	ReadyToShip  bool      `gorm:"default:true" json:"ready_to_ship"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EffectivePrice is the price the storefront charges: the sale price when one
// is set, the regular price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// FindVariant returns the variant with the given id, or nil.
func (p *Product) FindVariant(variantID string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// FindSize returns the size entry matching label, ignoring case, or nil.
func (v *Variant) FindSize(label string) *SizeStock {
	for i := range v.Sizes {
		if strings.EqualFold(v.Sizes[i].Size, label) {
			return &v.Sizes[i]
		}
	}
	return nil
}

// Colors lists the distinct variant colors in document order.
func (p *Product) Colors() []string {
	colors := make([]string, 0, len(p.Variants))
	seen := make(map[string]struct{}, len(p.Variants))
	for _, v := range p.Variants {
		if _, ok := seen[v.Color]; ok {
			continue
		}
		seen[v.Color] = struct{}{}
		colors = append(colors, v.Color)
	}
	return colors
}

// Sizes lists the distinct size labels across all variants.
func (p *Product) Sizes() []string {
	var sizes []string
	seen := make(map[string]struct{})
	for _, v := range p.Variants {
		for _, s := range v.Sizes {
			key := strings.ToLower(s.Size)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			sizes = append(sizes, s.Size)
		}
	}
	return sizes
}

// FirstImage returns the first image of the first variant that has one.
func (p *Product) FirstImage() string {
	for _, v := range p.Variants {
		if len(v.Images) > 0 {
			return v.Images[0]
		}
	}
	return ""
}

// TotalStock sums stock across every variant and size.
func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		for _, s := range v.Sizes {
			total += s.Stock
		}
	}
	return total
}
