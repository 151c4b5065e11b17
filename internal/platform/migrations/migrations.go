package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&userRecord{},
		&sessionRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID               int64          `gorm:"primaryKey;column:product_id;autoIncrement"`
	Name             string         `gorm:"column:name"`
	Category         string         `gorm:"column:category;type:varchar(32);index"`
	Description      string         `gorm:"column:description"`
	ImageURLs        pq.StringArray `gorm:"column:image_urls;type:text[]"`
	Price            int64          `gorm:"column:price"`
	Stock            int32          `gorm:"column:stock;index"`
	CreatedDate      time.Time      `gorm:"column:created_date"`
	LastModifiedDate time.Time      `gorm:"column:last_modified_date"`
}

func (productRecord) TableName() string { return "products" }

// Order header schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID               int64     `gorm:"primaryKey;column:order_id;autoIncrement"`
	UserID           int64     `gorm:"column:user_id;index"`
	TotalAmount      int64     `gorm:"column:total_amount"`
	CreatedDate      time.Time `gorm:"column:created_date;index"`
	LastModifiedDate time.Time `gorm:"column:last_modified_date"`
}

func (orderRecord) TableName() string { return "orders" }

// Order line schema mirrors the orders Postgres adapter.
type orderItemRecord struct {
	ID        int64 `gorm:"primaryKey;column:order_item_id;autoIncrement"`
	OrderID   int64 `gorm:"column:order_id;index"`
	ProductID int64 `gorm:"column:product_id;index"`
	Quantity  int32 `gorm:"column:quantity"`
	UnitPrice int64 `gorm:"column:unit_price"`
	Amount    int64 `gorm:"column:amount"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID               int64     `gorm:"primaryKey;column:user_id;autoIncrement"`
	Email            string    `gorm:"column:email;uniqueIndex"`
	PasswordHash     string    `gorm:"column:password_hash"`
	CreatedDate      time.Time `gorm:"column:created_date"`
	LastModifiedDate time.Time `gorm:"column:last_modified_date"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	UserID    int64      `gorm:"column:user_id;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }
