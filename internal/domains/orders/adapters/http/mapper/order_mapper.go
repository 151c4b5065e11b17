package mapper

import (
	"time"

	"github.com/ifan/go-mall-api/internal/domains/orders/domain"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

// BuyItem is one requested order line.
type BuyItem struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int32 `json:"quantity" binding:"required"`
}

// OrderRequest is the transport payload for placing or revising an order.
type OrderRequest struct {
	BuyItemList []BuyItem `json:"buyItemList" binding:"required,min=1,dive"`
}

// OrderItemResponse is the transport representation of one order line.
type OrderItemResponse struct {
	OrderItemID int64 `json:"orderItemId"`
	ProductID   int64 `json:"productId"`
	Quantity    int32 `json:"quantity"`
	UnitPrice   int64 `json:"unitPrice"`
	Amount      int64 `json:"amount"`
}

// OrderResponse is the transport representation of an order header, optionally
// carrying its lines.
type OrderResponse struct {
	OrderID          int64               `json:"orderId"`
	UserID           int64               `json:"userId"`
	TotalAmount      int64               `json:"totalAmount"`
	CreatedDate      time.Time           `json:"createdDate"`
	LastModifiedDate time.Time           `json:"lastModifiedDate"`
	OrderItemList    []OrderItemResponse `json:"orderItemList,omitempty"`
}

// PageResponse wraps an order page with its paging envelope.
type PageResponse struct {
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalItems int64           `json:"totalItems"`
	TotalPages int64           `json:"totalPages"`
	Results    []OrderResponse `json:"results"`
}

// ToDraftItems converts requested lines into unpriced domain items. Prices and
// amounts are captured by the engine at reservation time.
func ToDraftItems(req OrderRequest) []*domain.OrderItem {
	items := make([]*domain.OrderItem, 0, len(req.BuyItemList))
	for _, line := range req.BuyItemList {
		items = append(items, &domain.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return items
}

// FromDomain converts an order header into its transport representation.
func FromDomain(order *domain.Order) OrderResponse {
	if order == nil {
		return OrderResponse{}
	}
	return OrderResponse{
		OrderID:          order.ID,
		UserID:           order.UserID,
		TotalAmount:      order.TotalAmount,
		CreatedDate:      order.CreatedDate,
		LastModifiedDate: order.LastModifiedDate,
	}
}

// FromDomainWithItems converts an order and its lines into one response.
func FromDomainWithItems(order *domain.Order, items []*domain.OrderItem) OrderResponse {
	response := FromDomain(order)
	response.OrderItemList = FromDomainItems(items)
	return response
}

// FromDomainItems converts order lines into transport representation.
func FromDomainItems(items []*domain.OrderItem) []OrderItemResponse {
	result := make([]OrderItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, OrderItemResponse{
			OrderItemID: item.ID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}
	return result
}

// FromPage converts a domain order page into the transport envelope.
func FromPage(page pagination.Page[*domain.Order]) PageResponse {
	results := make([]OrderResponse, 0, len(page.Items))
	for _, order := range page.Items {
		results = append(results, FromDomain(order))
	}
	return PageResponse{
		Page:       page.Number,
		Size:       page.Size,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages(),
		Results:    results,
	}
}
