package domain

import "testing"

func TestOrderStatus_CanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPlaced, OrderStatusConfirmed, true},
		{OrderStatusPlaced, OrderStatusCancelled, true},
		{OrderStatusPlaced, OrderStatusShipped, false},
		{OrderStatusPlaced, OrderStatusCompleted, false},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusPlaced, false},
		{OrderStatusShipped, OrderStatusCompleted, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusCompleted, OrderStatusPlaced, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.want {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusCompleted, OrderStatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []OrderStatus{OrderStatusPlaced, OrderStatusConfirmed, OrderStatusShipped} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	if s, ok := ParseOrderStatus("confirmed"); !ok || s != OrderStatusConfirmed {
		t.Fatalf("parse confirmed: got %q ok=%v", s, ok)
	}
	if _, ok := ParseOrderStatus("pending"); ok {
		t.Fatalf("unknown status must not parse")
	}
}
