package render

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency  = "$"
	DefaultLineWidth = 48
	dateLayout       = "02/01/2006 15:04"
)

// Layout holds the presentation settings shared by both render targets.
type Layout struct {
	Currency  string
	LineWidth int
}

func DefaultLayout() Layout {
	return Layout{Currency: DefaultCurrency, LineWidth: DefaultLineWidth}
}

func (l Layout) withDefaults() Layout {
	if l.Currency == "" {
		l.Currency = DefaultCurrency
	}
	if l.LineWidth <= 0 {
		l.LineWidth = DefaultLineWidth
	}
	return l
}

func (l Layout) money(amount decimal.Decimal) string {
	return l.Currency + amount.StringFixed(2)
}

// formatDate renders an RFC 3339 timestamp as dd/mm/yyyy hh:mm and returns
// anything else unchanged.
func formatDate(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format(dateLayout)
}
