package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected OrderStatus
		ok       bool
	}{
		{name: "exact name", input: "Pending", expected: StatusPending, ok: true},
		{name: "lower case", input: "delivering", expected: StatusDelivering, ok: true},
		{name: "upper case with spaces", input: "  CANCELLED ", expected: StatusCancelled, ok: true},
		{name: "unknown name", input: "Shipped", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "numeric value is not a name", input: "2", ok: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			status, ok := ParseOrderStatus(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestCanTransitionTo(t *testing.T) {
	testCases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{StatusPending, StatusPreparing, true},
		{StatusPending, StatusDelivering, true},
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusCancelled, true},
		{StatusPreparing, StatusDelivering, true},
		{StatusPreparing, StatusPending, false},
		{StatusDelivering, StatusCompleted, true},
		{StatusDelivering, StatusCancelled, true},
		{StatusDelivering, StatusPreparing, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusCompleted, StatusCompleted, true},
		{StatusPending, StatusPending, true},
	}

	for _, tt := range testCases {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}
