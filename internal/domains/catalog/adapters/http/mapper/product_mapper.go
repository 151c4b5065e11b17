package mapper

import (
	"time"

	"github.com/ifan/go-mall-api/internal/domains/catalog/domain"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

// ProductRequest is the transport payload for creating or replacing a product.
type ProductRequest struct {
	ProductName string   `json:"productName" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	ImageURLs   []string `json:"imageUrls"`
	Price       int64    `json:"price" binding:"required,min=0"`
	Stock       int32    `json:"stock" binding:"min=0"`
	Description string   `json:"description"`
}

// ProductResponse is the transport representation of a product.
type ProductResponse struct {
	ProductID        int64     `json:"productId"`
	ProductName      string    `json:"productName"`
	Category         string    `json:"category"`
	ImageURLs        []string  `json:"imageUrls"`
	Price            int64     `json:"price"`
	Stock            int32     `json:"stock"`
	Description      string    `json:"description,omitempty"`
	CreatedDate      time.Time `json:"createdDate"`
	LastModifiedDate time.Time `json:"lastModifiedDate"`
}

// PageResponse wraps a product page with its paging envelope.
type PageResponse struct {
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	TotalItems int64             `json:"totalItems"`
	TotalPages int64             `json:"totalPages"`
	Results    []ProductResponse `json:"results"`
}

// ToDomain converts a transport request into a validated domain product.
func ToDomain(req ProductRequest) (*domain.Product, error) {
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	product, err := domain.NewProduct(0, req.ProductName, category, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.ImageURLs = append([]string(nil), req.ImageURLs...)
	return product, nil
}

// FromDomain converts a domain product into its transport representation.
func FromDomain(product *domain.Product) ProductResponse {
	if product == nil {
		return ProductResponse{}
	}
	return ProductResponse{
		ProductID:        product.ID,
		ProductName:      product.Name,
		Category:         string(product.Category),
		ImageURLs:        product.ImageURLs,
		Price:            product.Price,
		Stock:            product.Stock,
		Description:      product.Description,
		CreatedDate:      product.CreatedDate,
		LastModifiedDate: product.LastModifiedDate,
	}
}

// FromPage converts a domain page into the transport envelope.
func FromPage(page pagination.Page[*domain.Product]) PageResponse {
	results := make([]ProductResponse, 0, len(page.Items))
	for _, product := range page.Items {
		results = append(results, FromDomain(product))
	}
	return PageResponse{
		Page:       page.Number,
		Size:       page.Size,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages(),
		Results:    results,
	}
}
