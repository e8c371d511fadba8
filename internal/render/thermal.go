package render

import (
	"fmt"
	"time"

	"github.com/Riboost-Studio/order-print-hub/internal/model"
)

// Thermal returns the receipt as an ordered list of directives. Customer
// supplied text is passed through untouched.
func (l Layout) Thermal(order model.Order, printedAt time.Time) []Directive {
	l = l.withDefaults()

	// Header
	d := []Directive{
		Align(AlignCenter),
		TextSize(1, 1),
		Bold(true),
		Println("NEW ORDER"),
		Bold(false),
		DrawLine(l.LineWidth),
	}

	// Order details
	d = append(d,
		Align(AlignLeft),
		TextNormal(),
		Println("Order ID: "+order.ID),
		Println("Customer: "+order.CustomerName),
		Println("Time: "+formatDate(order.Timestamp)),
	)
	if order.Phone != "" {
		d = append(d, Println("Phone: "+order.Phone))
	}
	if order.Address != "" {
		d = append(d, Println("Address: "+order.Address))
	}
	d = append(d, DrawLine(l.LineWidth))

	// Items
	d = append(d, Bold(true), Println("ITEMS:"), Bold(false))
	for _, item := range order.Items {
		d = append(d,
			Println(item.Name),
			Println(fmt.Sprintf("  Qty: %d x %s = %s", item.Quantity, l.money(item.Price), l.money(item.Subtotal()))),
		)
	}
	d = append(d, DrawLine(l.LineWidth))

	// Total
	d = append(d,
		Bold(true),
		TextSize(1, 1),
		Println("TOTAL: "+l.money(order.Total)),
		Bold(false),
		TextNormal(),
		Println("Printed at: "+printedAt.Format(dateLayout)),
		Cut(),
	)
	return d
}
