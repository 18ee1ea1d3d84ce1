package domain

// CategoryCount is one entry of the popular-categories ranking.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats is a read-only summary over orders, catalog and tables. Safe to
// compute on an empty data set.
type Stats struct {
	TotalOrders       int             `json:"totalOrders"`
	PendingOrders     int             `json:"pendingOrders"`
	PreparingOrders   int             `json:"preparingOrders"`
	ReadyOrders       int             `json:"readyOrders"`
	TodayOrders       int             `json:"todayOrders"`
	TotalRevenue      float64         `json:"totalRevenue"`
	AverageOrderValue float64         `json:"averageOrderValue"`
	PopularCategories []CategoryCount `json:"popularCategories"`
	AvailableTables   int             `json:"availableTables"`
	TotalTables       int             `json:"totalTables"`
}
