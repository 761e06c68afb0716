package models

import "strings"

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusPreparing  OrderStatus = "Preparing"
	StatusDelivering OrderStatus = "Delivering"
	StatusCompleted  OrderStatus = "Completed"
	StatusCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists every known status in lifecycle order
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusPreparing,
	StatusDelivering,
	StatusCompleted,
	StatusCancelled,
}

// progress ranks the forward path. Cancelled sits outside of it.
var progress = map[OrderStatus]int{
	StatusPending:    0,
	StatusPreparing:  1,
	StatusDelivering: 2,
	StatusCompleted:  3,
}

// ParseOrderStatus matches a symbolic status name, ignoring case and surrounding spaces
func ParseOrderStatus(name string) (OrderStatus, bool) {
	name = strings.TrimSpace(name)
	for _, s := range OrderStatuses {
		if strings.EqualFold(string(s), name) {
			return s, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further transition is allowed
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Orders only move forward (steps may be skipped), any open order may be
// cancelled, and terminal orders stay where they are.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, okFrom := progress[s]
	to, okTo := progress[next]
	return okFrom && okTo && to > from
}
