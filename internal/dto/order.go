package dto

import "time"

// CreateOrderRequest is the payload for placing an order against a listing.
type CreateOrderRequest struct {
	ProductID       int64   `json:"product_id"`
	Quantity        float64 `json:"quantity"`
	DeliveryAddress string  `json:"delivery_address"`
	Notes           string  `json:"notes"`
}

// RejectOrderRequest optionally records why the farmer turned the order down.
type RejectOrderRequest struct {
	Reason string `json:"reason"`
}

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID              int64           `json:"id"`
	BuyerID         int64           `json:"buyer_id"`
	FarmerID        int64           `json:"farmer_id"`
	ProductID       int64           `json:"product_id"`
	Quantity        float64         `json:"quantity"`
	UnitPrice       float64         `json:"unit_price"`
	TotalAmount     float64         `json:"total_amount"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Buyer           *UserProfile    `json:"buyer,omitempty"`
	Farmer          *UserProfile    `json:"farmer,omitempty"`
	Product         *ProductSummary `json:"product,omitempty"`
}
