package entities

import (
	"errors"
	"time"
)

// Variant is a purchasable variation of a product (weight, size). When a
// product has variants its base Price is the minimum display price.
type Variant struct {
	Label  string   `json:"label"`
	Price  int      `json:"price"`
	Images []string `json:"images,omitempty"`
}

// FormField describes one input of a custom-request form attached to a product.
type FormField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
}

type Product struct {
	ID           int64
	Slug         string
	Name         string
	Price        int
	Category     string
	CategorySlug string

	Image   string
	Gallery []string

	ShortDescription string
	Description      string
	Features         []string

	BestSeller    bool
	CustomRequest bool

	CustomForm  []FormField
	DefaultForm []FormField
	Variants    []Variant

	CreatedAt time.Time
}

var ErrProductNotFound = errors.New("product not found")
