package pricing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/balcao/backend/models"
)

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// FormatBRL renders v as Brazilian currency, e.g. "R$ 1.234,56".
func FormatBRL(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "R$ " + b.String() + "," + frac
}

// FormatDate renders a calendar date as dd/MM/yyyy.
func FormatDate(t time.Time) string {
	return t.Format(models.ValidityLayout)
}
