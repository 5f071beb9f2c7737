package listing

import "time"

// Listing is a rentable property. IsActive doubles as the occupancy flag:
// a matched listing is flipped inactive and disappears from public browse.
type Listing struct {
	ID          int64     `gorm:"column:id;primaryKey" json:"id"`
	OwnerID     int64     `gorm:"column:owner_id;index" json:"owner_id"`
	Title       string    `gorm:"column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	Address     string    `gorm:"column:address" json:"address"`
	City        string    `gorm:"column:city;index" json:"city"`
	Rooms       int       `gorm:"column:rooms" json:"rooms"`
	Price       float64   `gorm:"column:price" json:"price"`
	IsActive    bool      `gorm:"column:is_active;index" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Listing) TableName() string { return "listings" }
