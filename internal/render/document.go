package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/Riboost-Studio/order-print-hub/internal/model"
)

//go:embed templates/order.html
var orderTemplate string

var documentTemplate = template.Must(template.New("order.html").Parse(orderTemplate))

type documentLine struct {
	Name     string
	Quantity int
	Price    string
	Subtotal string
}

type documentData struct {
	Order     model.Order
	Lines     []documentLine
	Total     string
	Timestamp string
	PrintedAt string
}

// Document renders the order as a complete HTML page. Every customer supplied
// field is escaped by html/template.
func (l Layout) Document(order model.Order, printedAt time.Time) (string, error) {
	l = l.withDefaults()

	data := documentData{
		Order:     order,
		Total:     l.money(order.Total),
		Timestamp: formatDate(order.Timestamp),
		PrintedAt: printedAt.Format(dateLayout),
	}
	for _, item := range order.Items {
		data.Lines = append(data.Lines, documentLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    l.money(item.Price),
			Subtotal: l.money(item.Subtotal()),
		})
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
