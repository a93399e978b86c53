package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// OrderStatus tracks the order lifecycle. PENDING moves to ACCEPTED or
// REJECTED by the owning farmer. COMPLETED is recognized in revenue
// aggregation but no endpoint produces it yet.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderAccepted  OrderStatus = "ACCEPTED"
	OrderRejected  OrderStatus = "REJECTED"
	OrderCompleted OrderStatus = "COMPLETED"
)

// Order links a buyer to a product and its farmer. UnitPrice and TotalAmount
// are snapshotted at creation and never track later price edits.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID              int64       `bun:",pk,autoincrement"`
	BuyerID         int64       `bun:"buyer_id,notnull"`
	FarmerID        int64       `bun:"farmer_id,notnull"`
	ProductID       int64       `bun:"product_id,notnull"`
	Quantity        float64     `bun:"quantity,notnull"`
	UnitPrice       float64     `bun:"unit_price,notnull"`
	TotalAmount     float64     `bun:"total_amount,notnull"`
	DeliveryAddress string      `bun:"delivery_address"`
	Notes           string      `bun:"notes"`
	Status          OrderStatus `bun:"status,notnull"`
	CreatedAt       time.Time   `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time   `bun:"updated_at,nullzero"`

	Buyer   *User    `bun:"rel:belongs-to,join:buyer_id=id"`
	Farmer  *User    `bun:"rel:belongs-to,join:farmer_id=id"`
	Product *Product `bun:"rel:belongs-to,join:product_id=id"`
}
