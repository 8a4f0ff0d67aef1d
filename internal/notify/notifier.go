// README: Order event notifier: websocket fan-out plus best-effort emails.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"quickbite/internal/modules/order"
	"quickbite/internal/types"
)

// RestaurantEmails resolves a restaurant id to its contact address.
type RestaurantEmails interface {
	RestaurantEmail(ctx context.Context, id types.ID) (string, error)
}

// CustomerEmails is the hook into the auth/user collaborator, which
// owns customer contact data. Optional; unset means restaurant-only mail.
type CustomerEmails interface {
	CustomerEmail(ctx context.Context, id types.ID) (string, error)
}

// OrderNotifier implements the order service's notifier contract.
// Everything here happens after the order transaction commits and runs
// detached from the request; failures are logged and swallowed.
type OrderNotifier struct {
	hub         *Hub
	mailer      Mailer
	restaurants RestaurantEmails
	customers   CustomerEmails
	log         *logrus.Logger
}

func NewOrderNotifier(hub *Hub, mailer Mailer, restaurants RestaurantEmails, customers CustomerEmails, log *logrus.Logger) *OrderNotifier {
	return &OrderNotifier{
		hub:         hub,
		mailer:      mailer,
		restaurants: restaurants,
		customers:   customers,
		log:         log,
	}
}

func (n *OrderNotifier) OrderPlaced(o *order.Order) {
	n.hub.Emit(EventNewOrder, o)
	go n.sendOrderEmails(o)
}

func (n *OrderNotifier) OrderStatusChanged(o *order.Order, axis, from, to string) {
	n.hub.Emit(EventOrderStatus, map[string]any{
		"order_id": o.ID,
		"axis":     axis,
		"from":     from,
		"to":       to,
		"order":    o,
	})
}

func (n *OrderNotifier) sendOrderEmails(o *order.Order) {
	if n.mailer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	subject := fmt.Sprintf("Order %s placed", o.ID)
	body := orderSummary(o)

	if addr, err := n.restaurants.RestaurantEmail(ctx, o.RestaurantID); err == nil && addr != "" {
		if err := n.mailer.Send(addr, subject, body); err != nil {
			n.log.WithError(err).WithField("order_id", o.ID).Warn("restaurant order email failed")
		}
	} else if err != nil {
		n.log.WithError(err).WithField("order_id", o.ID).Warn("restaurant email lookup failed")
	}

	if n.customers == nil {
		return
	}
	if addr, err := n.customers.CustomerEmail(ctx, o.CustomerID); err == nil && addr != "" {
		if err := n.mailer.Send(addr, subject, body); err != nil {
			n.log.WithError(err).WithField("order_id", o.ID).Warn("customer order email failed")
		}
	}
}

func orderSummary(o *order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s\n\n", o.ID)
	for _, li := range o.Items {
		fmt.Fprintf(&b, "%d x %s @ %.2f\n", li.Quantity, li.Name, li.UnitPrice)
	}
	fmt.Fprintf(&b, "\nTotal: %.2f\nDeliver to: %s (%s)\n", o.TotalPrice, o.Address, o.Mobile)
	return b.String()
}
