package catalog

import "math"

// Product prices are integer cents.
type Product struct {
	ID                 string   `json:"id" yaml:"id"`
	Name               string   `json:"name" yaml:"name"`
	PriceCents         int64    `json:"price_cents" yaml:"price_cents"`
	OriginalPriceCents int64    `json:"original_price_cents,omitempty" yaml:"original_price_cents"`
	Category           string   `json:"category" yaml:"category"`
	Rating             float64  `json:"rating" yaml:"rating"`
	Reviews            int      `json:"reviews" yaml:"reviews"`
	InStock            bool     `json:"in_stock" yaml:"in_stock"`
	IsNew              bool     `json:"is_new,omitempty" yaml:"is_new"`
	IsSale             bool     `json:"is_sale,omitempty" yaml:"is_sale"`
	Description        string   `json:"description,omitempty" yaml:"description"`
	Colors             []string `json:"colors" yaml:"colors"`
	Sizes              []string `json:"sizes" yaml:"sizes"`
	Image              string   `json:"image,omitempty" yaml:"image"`
	Gallery            []string `json:"gallery,omitempty" yaml:"gallery"`
}

func (p Product) DiscountPercent() int {
	if p.OriginalPriceCents <= 0 || p.OriginalPriceCents <= p.PriceCents {
		return 0
	}
	off := float64(p.OriginalPriceCents-p.PriceCents) / float64(p.OriginalPriceCents) * 100
	return int(math.Round(off))
}

// DefaultColor is the variant a quick "add to cart" picks.
func (p Product) DefaultColor() string {
	if len(p.Colors) > 0 && p.Colors[0] != "" {
		return p.Colors[0]
	}
	return "Default"
}

func (p Product) DefaultSize() string {
	if len(p.Sizes) > 0 && p.Sizes[0] != "" {
		return p.Sizes[0]
	}
	return "One Size"
}

type Category struct {
	Name  string `json:"name" yaml:"name"`
	Slug  string `json:"slug" yaml:"slug"`
	Count int    `json:"count" yaml:"count"`
}
