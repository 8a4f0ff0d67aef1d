// README: Transition-table tests for the three status axes.
package order

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		// happy-path forward transitions
		{StatusPlaced, StatusConfirmed, true},
		{StatusPlaced, StatusRejected, true},
		{StatusConfirmed, StatusAssigned, true},
		{StatusAssigned, StatusPicked, true},
		{StatusPicked, StatusOnTheWay, true},
		{StatusOnTheWay, StatusDelivered, true},
		// no skipping stages
		{StatusPlaced, StatusAssigned, false},
		{StatusConfirmed, StatusPicked, false},
		{StatusAssigned, StatusDelivered, false},
		{StatusPlaced, StatusDelivered, false},
		// no reverse transitions
		{StatusConfirmed, StatusPlaced, false},
		{StatusPicked, StatusAssigned, false},
		{StatusDelivered, StatusOnTheWay, false},
		// terminal states have no outgoing transitions
		{StatusDelivered, StatusConfirmed, false},
		{StatusRejected, StatusConfirmed, false},
		{StatusRejected, StatusPlaced, false},
		// rejection only from placed
		{StatusConfirmed, StatusRejected, false},
		{StatusAssigned, StatusRejected, false},
		// no self-loops
		{StatusPlaced, StatusPlaced, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestCanProgressDelivery(t *testing.T) {
	cases := []struct {
		from, to DeliveryStatus
		want     bool
	}{
		{DeliveryPending, DeliveryPicked, true},
		{DeliveryPicked, DeliveryOnTheWay, true},
		{DeliveryOnTheWay, DeliveryDelivered, true},
		// strictly sequential: no skipping
		{DeliveryPending, DeliveryOnTheWay, false},
		{DeliveryPending, DeliveryDelivered, false},
		{DeliveryPicked, DeliveryDelivered, false},
		// no reverse
		{DeliveryPicked, DeliveryPending, false},
		{DeliveryDelivered, DeliveryOnTheWay, false},
		// terminal
		{DeliveryDelivered, DeliveryPicked, false},
		// no self-loops
		{DeliveryPicked, DeliveryPicked, false},
	}
	for _, c := range cases {
		if got := CanProgressDelivery(c.from, c.to); got != c.want {
			t.Errorf("CanProgressDelivery(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestMirrorStatus(t *testing.T) {
	cases := []struct {
		ds   DeliveryStatus
		want Status
	}{
		{DeliveryPicked, StatusPicked},
		{DeliveryOnTheWay, StatusOnTheWay},
		{DeliveryDelivered, StatusDelivered},
		{DeliveryPending, ""},
	}
	for _, c := range cases {
		if got := MirrorStatus(c.ds); got != c.want {
			t.Errorf("MirrorStatus(%s) = %q, want %q", c.ds, got, c.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []Status{StatusPlaced, StatusConfirmed, StatusAssigned, StatusPicked, StatusOnTheWay} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []Status{StatusDelivered, StatusRejected} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}

func TestLineItemSubtotal(t *testing.T) {
	li := LineItem{UnitPrice: 50, Quantity: 3}
	if got := li.Subtotal(); got != 150 {
		t.Errorf("Subtotal() = %v, want 150", got)
	}
}
