package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Valid(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusPending, true},
		{OrderStatusProcessing, true},
		{OrderStatusShipped, true},
		{OrderStatusDelivered, true},
		{OrderStatusCancelled, true},
		{OrderStatus("out_for_delivery"), false},
		{OrderStatus("unknown"), false},
		{OrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Valid())
		})
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusPending.Terminal())
	assert.False(t, OrderStatusProcessing.Terminal())
	assert.False(t, OrderStatusShipped.Terminal())
}

func TestTrackingStatus_Next(t *testing.T) {
	tests := []struct {
		name     string
		status   TrackingStatus
		wantNext TrackingStatus
		wantOK   bool
	}{
		{"pending advances to processing", TrackingStatusPending, TrackingStatusProcessing, true},
		{"processing advances to shipped", TrackingStatusProcessing, TrackingStatusShipped, true},
		{"shipped advances to out for delivery", TrackingStatusShipped, TrackingStatusOutForDelivery, true},
		{"out for delivery advances to delivered", TrackingStatusOutForDelivery, TrackingStatusDelivered, true},
		{"delivered is final", TrackingStatusDelivered, TrackingStatusDelivered, false},
		{"cancelled never advances", TrackingStatusCancelled, TrackingStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := tt.status.Next()
			assert.Equal(t, tt.wantNext, next)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestTrackingStatus_Next_SingleStep(t *testing.T) {
	// Walking the full progression from pending must take exactly four
	// steps; no status is ever skipped.
	steps := 0
	current := TrackingStatusPending
	for {
		next, ok := current.Next()
		if !ok {
			break
		}
		current = next
		steps++
	}

	assert.Equal(t, 4, steps)
	assert.Equal(t, TrackingStatusDelivered, current)
}

func TestTrackingStatus_OrderStatus(t *testing.T) {
	assert.Equal(t, OrderStatusShipped, TrackingStatusOutForDelivery.OrderStatus())
	assert.Equal(t, OrderStatusPending, TrackingStatusPending.OrderStatus())
	assert.Equal(t, OrderStatusProcessing, TrackingStatusProcessing.OrderStatus())
	assert.Equal(t, OrderStatusShipped, TrackingStatusShipped.OrderStatus())
	assert.Equal(t, OrderStatusDelivered, TrackingStatusDelivered.OrderStatus())
	assert.Equal(t, OrderStatusCancelled, TrackingStatusCancelled.OrderStatus())
}
