package domain

import (
	"errors"
	"strings"
	"time"
)

// Category enumerates the product categories carried by the catalog.
type Category string

const (
	CategoryFoods       Category = "FOODS"
	CategoryClothes     Category = "CLOTHES"
	CategoryElectronics Category = "ELECTRONICS"
	CategoryBooks       Category = "BOOKS"
	CategoryOthers      Category = "OTHERS"
)

var (
	ErrNilProduct      = errors.New("product is required")
	ErrEmptyName       = errors.New("product name is required")
	ErrInvalidCategory = errors.New("product category is invalid")
	ErrNegativePrice   = errors.New("product price must not be negative")
	ErrNegativeStock   = errors.New("product stock must not be negative")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// Product models a sellable catalog entry. Price is expressed in the minor
// currency unit; Stock counts units currently available for sale.
type Product struct {
	ID               int64
	Name             string
	Category         Category
	Description      string
	ImageURLs        []string
	Price            int64
	Stock            int32
	CreatedDate      time.Time
	LastModifiedDate time.Time
}

// NewProduct validates and constructs a product aggregate.
func NewProduct(id int64, name string, category Category, price int64, stock int32) (*Product, error) {
	product := &Product{
		ID:       id,
		Name:     strings.TrimSpace(name),
		Category: category,
		Price:    price,
		Stock:    stock,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// ParseCategory maps a request string onto a known category.
func ParseCategory(raw string) (Category, error) {
	category := Category(strings.ToUpper(strings.TrimSpace(raw)))
	if !category.valid() {
		return "", ErrInvalidCategory
	}
	return category, nil
}

func (c Category) valid() bool {
	switch c {
	case CategoryFoods, CategoryClothes, CategoryElectronics, CategoryBooks, CategoryOthers:
		return true
	default:
		return false
	}
}

// Validate enforces the aggregate invariants.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if !p.Category.valid() {
		return ErrInvalidCategory
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// HasStock reports whether the product can cover the requested quantity.
func (p *Product) HasStock(quantity int32) bool {
	return p.Stock >= quantity
}
