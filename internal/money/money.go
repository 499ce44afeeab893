package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Cents is an amount of money in minor units (hundredths of the currency
// unit). All pricing arithmetic happens on this type; floats never touch
// order totals.
type Cents int64

var ErrInvalidAmount = errors.New("invalid money amount")

// Parse converts a decimal string like "5", "3.5" or "13.50" into minor
// units. At most two fractional digits are accepted; signs and an empty
// fraction after the dot are rejected.
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, ErrInvalidAmount
	}

	whole, frac, hasDot := strings.Cut(s, ".")
	if hasDot && frac == "" {
		return 0, ErrInvalidAmount
	}
	for i := 0; i < len(frac); i++ {
		if frac[i] < '0' || frac[i] > '9' {
			return 0, ErrInvalidAmount
		}
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	var hundredths int64
	switch len(frac) {
	case 0:
	case 1:
		frac += "0"
		fallthrough
	case 2:
		hundredths, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
	default:
		return 0, ErrInvalidAmount
	}

	return Cents(units*100 + hundredths), nil
}

// Mul multiplies a unit price by a quantity.
func (c Cents) Mul(qty int) Cents {
	return c * Cents(qty)
}

// String renders the amount as a decimal with two fractional digits, e.g. "13.50".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Scan reads a BIGINT minor-units column.
func (c *Cents) Scan(value any) error {
	switch v := value.(type) {
	case int64:
		*c = Cents(v)
		return nil
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("money: scan %q: %w", v, ErrInvalidAmount)
		}
		*c = Cents(n)
		return nil
	default:
		return fmt.Errorf("money: cannot scan %T", value)
	}
}

func (c Cents) Value() (driver.Value, error) {
	return int64(c), nil
}
