package model

import "time"

// OrderStatus is the lifecycle status stored on the order header.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition may occur from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// TrackingStatus is the status recorded on a tracking entry. It is a superset
// of OrderStatus: out_for_delivery exists only in the tracking log.
type TrackingStatus string

const (
	TrackingStatusPending        TrackingStatus = "pending"
	TrackingStatusProcessing     TrackingStatus = "processing"
	TrackingStatusShipped        TrackingStatus = "shipped"
	TrackingStatusOutForDelivery TrackingStatus = "out_for_delivery"
	TrackingStatusDelivered      TrackingStatus = "delivered"
	TrackingStatusCancelled      TrackingStatus = "cancelled"
)

// trackingProgression is the forward path a simulated shipment follows,
// one step at a time. Cancellation is externally triggered and never part
// of the progression.
var trackingProgression = []TrackingStatus{
	TrackingStatusPending,
	TrackingStatusProcessing,
	TrackingStatusShipped,
	TrackingStatusOutForDelivery,
	TrackingStatusDelivered,
}

// Valid reports whether s is a known tracking status.
func (s TrackingStatus) Valid() bool {
	switch s {
	case TrackingStatusPending, TrackingStatusProcessing, TrackingStatusShipped,
		TrackingStatusOutForDelivery, TrackingStatusDelivered, TrackingStatusCancelled:
		return true
	}
	return false
}

// Next returns the status one step further along the progression and true,
// or s itself and false when s is the final progression step or not on the
// progression at all.
func (s TrackingStatus) Next() (TrackingStatus, bool) {
	for i, st := range trackingProgression {
		if st == s {
			if i == len(trackingProgression)-1 {
				return s, false
			}
			return trackingProgression[i+1], true
		}
	}
	return s, false
}

// OrderStatus maps a tracking status onto the order-header status enum.
// out_for_delivery has no header equivalent and maps to shipped.
func (s TrackingStatus) OrderStatus() OrderStatus {
	if s == TrackingStatusOutForDelivery {
		return OrderStatusShipped
	}
	return OrderStatus(s)
}

// Order represents a customer order.
type Order struct {
	ID              int64       `json:"id" db:"id"`
	CustomerName    string      `json:"customer_name" db:"customer_name"`
	CustomerEmail   string      `json:"customer_email" db:"customer_email"`
	CustomerAddress string      `json:"customer_address" db:"customer_address"`
	TotalAmount     float64     `json:"total_amount" db:"total_amount"`
	Status          OrderStatus `json:"status" db:"status"`
	TrackingNumber  string      `json:"tracking_number" db:"tracking_number"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem is a line item in an order. Price is the unit price at the time
// of purchase; it never changes when the product price changes later.
// ProductName and ImageURL are display-only fields joined from the current
// product row on reads.
type OrderItem struct {
	ID          int64   `json:"id" db:"id"`
	OrderID     int64   `json:"order_id" db:"order_id"`
	ProductID   int64   `json:"product_id" db:"product_id"`
	Quantity    int     `json:"quantity" db:"quantity"`
	Price       float64 `json:"price" db:"price"`
	ProductName string  `json:"name,omitempty" db:"-"`
	ImageURL    string  `json:"image_url,omitempty" db:"-"`
}

// OrderTracking is one entry in an order's append-only tracking log.
type OrderTracking struct {
	ID        int64          `json:"id" db:"id"`
	OrderID   int64          `json:"order_id" db:"order_id"`
	Status    TrackingStatus `json:"status" db:"status"`
	Location  string         `json:"location,omitempty" db:"location"`
	Timestamp time.Time      `json:"timestamp" db:"timestamp"`
	Details   string         `json:"details,omitempty" db:"details"`
}

// OrderRequest is the request payload for placing an order.
type OrderRequest struct {
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerAddress string             `json:"customer_address"`
	TotalAmount     float64            `json:"total_amount"`
	Items           []OrderItemRequest `json:"items"`
}

// OrderItemRequest is a single line item in an order request.
type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// UpdateStatusRequest is the request payload for an order status update.
type UpdateStatusRequest struct {
	Status  OrderStatus `json:"status"`
	Details string      `json:"details,omitempty"`
}
