package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ifan/go-mall-api/internal/domains/orders/domain"
	"github.com/ifan/go-mall-api/internal/domains/orders/ports"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their item lines in PostgreSQL using GORM.
// Header and items always change inside one transaction so readers never see
// an order without its lines or a half-replaced item set.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &orderItemRecord{})
	}
	return repo
}

type orderRecord struct {
	ID          int64     `gorm:"primaryKey;column:order_id;autoIncrement"`
	UserID      int64     `gorm:"column:user_id;index"`
	TotalAmount int64     `gorm:"column:total_amount"`
	CreatedAt   time.Time `gorm:"column:created_date"`
	UpdatedAt   time.Time `gorm:"column:last_modified_date"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64 `gorm:"primaryKey;column:order_item_id;autoIncrement"`
	OrderID   int64 `gorm:"column:order_id;index"`
	ProductID int64 `gorm:"column:product_id;index"`
	Quantity  int32 `gorm:"column:quantity"`
	UnitPrice int64 `gorm:"column:unit_price"`
	Amount    int64 `gorm:"column:amount"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Create inserts the header, stamps every item with the assigned order id,
// and bulk inserts the lines, all in one transaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNilOrder
	}
	record := orderRecord{UserID: order.UserID, TotalAmount: order.TotalAmount}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return insertItems(tx, record.ID, items)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// Replace updates the header and swaps the item set wholesale in one
// transaction.
func (r *Repository) Replace(ctx context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNilOrder
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&orderRecord{}).
			Where("order_id = ?", order.ID).
			Updates(map[string]any{
				"total_amount":       order.TotalAmount,
				"last_modified_date": gorm.Expr("NOW()"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		if err := tx.Delete(&orderItemRecord{}, "order_id = ?", order.ID).Error; err != nil {
			return err
		}
		return insertItems(tx, order.ID, items)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, order.ID)
}

// DeleteWithItems removes the item rows then the header. Absent rows are not
// an error at this layer.
func (r *Repository) DeleteWithItems(ctx context.Context, orderID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&orderItemRecord{}, "order_id = ?", orderID).Error; err != nil {
			return err
		}
		return tx.Delete(&orderRecord{}, "order_id = ?", orderID).Error
	})
}

// GetByID fetches an order header by identifier.
func (r *Repository) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// FindByUserID returns one page of a user's orders, sorted per the request.
func (r *Repository) FindByUserID(ctx context.Context, userID int64, req pagination.Request) (pagination.Page[*domain.Order], error) {
	var empty pagination.Page[*domain.Order]
	if err := r.ensureDB(); err != nil {
		return empty, err
	}
	query := r.db.WithContext(ctx).Model(&orderRecord{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return empty, err
	}
	var records []orderRecord
	if err := query.
		Order(orderClause(req)).
		Limit(req.Size).
		Offset(req.Offset()).
		Find(&records).Error; err != nil {
		return empty, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return pagination.NewPage(orders, total, req), nil
}

// ItemsByOrderID returns all lines belonging to an order.
func (r *Repository) ItemsByOrderID(ctx context.Context, orderID int64) ([]*domain.OrderItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderItemRecord
	if err := r.db.WithContext(ctx).
		Order("order_item_id ASC").
		Find(&records, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	items := make([]*domain.OrderItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items, nil
}

// List returns all orders.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("order_id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func orderClause(req pagination.Request) string {
	column := "order_id"
	switch req.SortBy {
	case "createdDate":
		column = "created_date"
	case "totalAmount":
		column = "total_amount"
	}
	if req.Direction == pagination.Descending {
		return column + " DESC"
	}
	return column + " ASC"
}

func insertItems(tx *gorm.DB, orderID int64, items []*domain.OrderItem) error {
	if len(items) == 0 {
		return domain.ErrNoItems
	}
	records := make([]orderItemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, orderItemRecord{
			OrderID:   orderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		})
	}
	if err := tx.Create(&records).Error; err != nil {
		return err
	}
	for i, item := range items {
		item.ID = records[i].ID
		item.OrderID = orderID
	}
	return nil
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:               r.ID,
		UserID:           r.UserID,
		TotalAmount:      r.TotalAmount,
		CreatedDate:      r.CreatedAt,
		LastModifiedDate: r.UpdatedAt,
	}
}

func (r orderItemRecord) toDomain() *domain.OrderItem {
	return &domain.OrderItem{
		ID:        r.ID,
		OrderID:   r.OrderID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		Amount:    r.Amount,
	}
}
