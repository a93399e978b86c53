package dto

// FarmerStats is the dashboard aggregate computed over the farmer's full
// product and order sets. Monetary figures are rounded to two decimals.
type FarmerStats struct {
	TotalProducts       int     `json:"totalProducts"`
	TotalInventoryValue float64 `json:"totalInventoryValue"`
	LowStockProducts    int     `json:"lowStockProducts"`
	TotalOrders         int     `json:"totalOrders"`
	PendingOrders       int     `json:"pendingOrders"`
	AcceptedOrders      int     `json:"acceptedOrders"`
	TotalRevenue        float64 `json:"totalRevenue"`
}
