package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Product is a farmer's listing. Quantity is the mutable stock level and is
// decremented when an order against the listing is accepted.
type Product struct {
	bun.BaseModel `bun:"table:products"`

	ID          int64     `bun:",pk,autoincrement"`
	FarmerID    int64     `bun:"farmer_id,notnull"`
	Name        string    `bun:"name,notnull"`
	Category    string    `bun:"category,notnull"`
	Price       float64   `bun:"price,notnull"`
	Unit        string    `bun:"unit,notnull"`
	Quantity    float64   `bun:"quantity,notnull"`
	Description string    `bun:"description"`
	ImageURL    string    `bun:"image_url"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero"`

	Farmer *User `bun:"rel:belongs-to,join:farmer_id=id"`
}
