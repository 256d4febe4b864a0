package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseBRL parses a Brazilian-formatted currency string ("R$ 1.234,56",
// "1234,56", "1234.56") into a decimal amount.
func ParseBRL(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "R$")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty currency value")
	}

	// "1.234,56" uses '.' as thousands separator and ',' as decimal mark.
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid currency value %q: %w", s, err)
	}
	return value, nil
}

// FormatBRL renders an amount as "R$ 1.234,56".
func FormatBRL(value decimal.Decimal) string {
	fixed := value.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := "R$ " + strings.Join(groups, ".") + "," + fracPart
	if negative {
		out = "R$ -" + strings.Join(groups, ".") + "," + fracPart
	}
	return out
}

// Percent converts a percentage figure (e.g. 2 for 2%) into its decimal
// multiplier (0.02).
func Percent(rate decimal.Decimal) decimal.Decimal {
	return rate.Div(decimal.NewFromInt(100))
}

// RoundCents rounds an amount to 2 decimal places.
func RoundCents(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}
