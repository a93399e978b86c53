package dto

import "time"

// CreateProductRequest is the payload for a new listing.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

// UpdateProductRequest applies only the fields present in the request body.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Unit        *string  `json:"unit"`
	Quantity    *float64 `json:"quantity"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"image_url"`
}

// Empty reports whether no updatable field was supplied.
func (r UpdateProductRequest) Empty() bool {
	return r.Name == nil && r.Category == nil && r.Price == nil && r.Unit == nil &&
		r.Quantity == nil && r.Description == nil && r.ImageURL == nil
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// ProductResponse is a listing as exposed via the HTTP API.
type ProductResponse struct {
	ID          int64        `json:"id"`
	FarmerID    int64        `json:"farmer_id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Price       float64      `json:"price"`
	Unit        string       `json:"unit"`
	Quantity    float64      `json:"quantity"`
	Description string       `json:"description,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Farmer      *UserProfile `json:"farmer,omitempty"`
}

// ProductSummary is the minimal product shape joined into order listings.
type ProductSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	ImageURL string `json:"image_url,omitempty"`
}
