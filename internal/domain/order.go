package domain

import "time"

type OrderType string

const (
	DineIn   OrderType = "dine-in"
	Takeaway OrderType = "takeaway"
	Delivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	switch t {
	case DineIn, Takeaway, Delivery:
		return true
	}
	return false
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every accepted status, in lifecycle order.
var OrderStatuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
	StatusDelivered, StatusCompleted, StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal statuses release the order's table, if any.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentRefunded}

func (s PaymentStatus) Valid() bool {
	for _, v := range PaymentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// OrderLine snapshots the menu item at order time. Later catalog edits never
// change persisted lines.
type OrderLine struct {
	ItemID   int     `json:"itemId"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

type Order struct {
	ID                  string        `json:"id"`
	Number              string        `json:"orderNumber"`
	CustomerName        string        `json:"customerName"`
	CustomerPhone       string        `json:"customerPhone"`
	CustomerEmail       string        `json:"customerEmail"`
	Items               []OrderLine   `json:"items"`
	TotalAmount         float64       `json:"totalAmount"`
	Type                OrderType     `json:"orderType"`
	TableNumber         *string       `json:"tableNumber"`
	DeliveryAddress     *string       `json:"deliveryAddress"`
	SpecialInstructions string        `json:"specialInstructions"`
	Status              OrderStatus   `json:"status"`
	PaymentStatus       PaymentStatus `json:"paymentStatus"`
	EstimatedTime       int           `json:"estimatedTime"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}
