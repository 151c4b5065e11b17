package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ifan/go-mall-api/internal/domains/catalog/domain"
	"github.com/ifan/go-mall-api/internal/domains/catalog/ports"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&productRecord{})
	}
	return repo
}

type productRecord struct {
	ID          int64          `gorm:"primaryKey;column:product_id"`
	Name        string         `gorm:"column:name"`
	Category    string         `gorm:"column:category;type:varchar(32);index"`
	Description string         `gorm:"column:description"`
	ImageURLs   pq.StringArray `gorm:"column:image_urls;type:text[]"`
	Price       int64          `gorm:"column:price"`
	Stock       int32          `gorm:"column:stock;index"`
	CreatedAt   time.Time      `gorm:"column:created_date"`
	UpdatedAt   time.Time      `gorm:"column:last_modified_date"`
}

func (productRecord) TableName() string { return "products" }

// Save inserts or updates a product.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNilProduct
	}
	record := toRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":               record.Name,
				"category":           record.Category,
				"description":        record.Description,
				"image_urls":         record.ImageURLs,
				"price":              record.Price,
				"stock":              record.Stock,
				"last_modified_date": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "product_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Delete removes a product. Deleting an absent product is not an error.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&productRecord{}, "product_id = ?", id).Error
}

// List returns a filtered, sorted page of products.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter, req pagination.Request) (pagination.Page[*domain.Product], error) {
	var empty pagination.Page[*domain.Product]
	if err := r.ensureDB(); err != nil {
		return empty, err
	}
	query := r.db.WithContext(ctx).Model(&productRecord{})
	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}
	if filter.StockGreater != nil {
		query = query.Where("stock > ?", *filter.StockGreater)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return empty, err
	}

	var records []productRecord
	if err := query.
		Order(orderClause(req)).
		Limit(req.Size).
		Offset(req.Offset()).
		Find(&records).Error; err != nil {
		return empty, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return pagination.NewPage(products, total, req), nil
}

// DecrementStock reserves stock with a single conditional update. The row
// count is the sole authority: zero rows means either the product is missing
// or the stock cannot cover the quantity.
func (r *Repository) DecrementStock(ctx context.Context, id int64, quantity int32) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("product_id = ? AND stock >= ?", id, quantity).
		UpdateColumns(map[string]any{
			"stock":              gorm.Expr("stock - ?", quantity),
			"last_modified_date": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&productRecord{}).Where("product_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ports.ErrNotFound
		}
		return ports.ErrInsufficientStock
	}
	return nil
}

// IncrementStock returns reserved stock to the pool. No upper bound check:
// a restore compensates a prior decrement.
func (r *Repository) IncrementStock(ctx context.Context, id int64, quantity int32) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("product_id = ?", id).
		UpdateColumns(map[string]any{
			"stock":              gorm.Expr("stock + ?", quantity),
			"last_modified_date": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func orderClause(req pagination.Request) string {
	column := "product_id"
	switch req.SortBy {
	case "price":
		column = "price"
	case "stock":
		column = "stock"
	case "createdDate":
		column = "created_date"
	}
	if req.Direction == pagination.Descending {
		return column + " DESC"
	}
	return column + " ASC"
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:          product.ID,
		Name:        product.Name,
		Category:    string(product.Category),
		Description: product.Description,
		ImageURLs:   pq.StringArray(product.ImageURLs),
		Price:       product.Price,
		Stock:       product.Stock,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:               r.ID,
		Name:             r.Name,
		Category:         domain.Category(r.Category),
		Description:      r.Description,
		ImageURLs:        []string(r.ImageURLs),
		Price:            r.Price,
		Stock:            r.Stock,
		CreatedDate:      r.CreatedAt,
		LastModifiedDate: r.UpdatedAt,
	}
}
