package models

import "time"

// Prices are integer minor units (cents). Float money never touches the DB.

type Product struct {
	ID    int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"not null"                 json:"name"`
	Price int64  `gorm:"not null"                 json:"price"`
	Image string `json:"image"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
}

type Order struct {
	ID        uint      `gorm:"primaryKey"     json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Total     int64     `gorm:"not null"       json:"total"`
	CreatedAt time.Time `gorm:"not null"       json:"created_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem snapshots the product price at checkout time; later catalog
// price changes must not affect past orders.
type OrderItem struct {
	ID        uint  `gorm:"primaryKey"                 json:"id"`
	OrderID   uint  `gorm:"index;not null"             json:"order_id"`
	ProductID int   `gorm:"not null"                   json:"product_id"`
	Quantity  uint  `gorm:"default:1;check:quantity>0" json:"quantity"`
	UnitPrice int64 `gorm:"not null"                   json:"unit_price"`
}
