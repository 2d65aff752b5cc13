package grid

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is the inferred semantic category of a field value. It decides how
// the raw value is rendered into a display cell.
type Category int

const (
	CategoryText Category = iota
	CategoryCurrency
	CategoryInteger
	CategoryLargeCurrency
	CategoryPercent
	CategoryGreek
	CategoryTimestamp
)

var categoryNames = map[string]Category{
	"currency":       CategoryCurrency,
	"integer":        CategoryInteger,
	"large_currency": CategoryLargeCurrency,
	"percent":        CategoryPercent,
	"greek":          CategoryGreek,
	"timestamp":      CategoryTimestamp,
}

// TimestampLayout is the display layout for epoch timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Exchange timestamps are rendered in Indian Standard Time. A fixed zone
// avoids a dependency on the host's tzdata.
var istZone = time.FixedZone("IST", 5*3600+30*60)

// CategoryFor resolves the semantic category of a field. Pinned assignments
// from the embedded table win; otherwise the name heuristics apply.
func CategoryFor(field string) Category {
	name := strings.ToLower(field)
	if cat, ok := categoryPins[name]; ok {
		return cat
	}

	switch {
	case name == "timestamp" || name == "date" || name == "time" || strings.Contains(name, "timestamp"):
		return CategoryTimestamp
	case strings.Contains(name, "percent") || strings.HasSuffix(name, "_pct"):
		return CategoryPercent
	case strings.Contains(name, "price") || strings.Contains(name, "ltp") || strings.Contains(name, "avg"):
		return CategoryCurrency
	case strings.Contains(name, "qty") || strings.Contains(name, "quantity") || strings.Contains(name, "volume"):
		return CategoryInteger
	case strings.Contains(name, "pnl") || strings.Contains(name, "margin") ||
		strings.Contains(name, "cash") || strings.Contains(name, "collateral"):
		return CategoryLargeCurrency
	default:
		return CategoryText
	}
}

// FormatValue renders a raw field value as a display string according to the
// field's category. Values that cannot be interpreted for the category are
// passed through unchanged, which makes the function idempotent on already
// formatted strings.
func FormatValue(field string, value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok && s == "" {
		return ""
	}

	switch CategoryFor(field) {
	case CategoryTimestamp:
		if ts, ok := epochTime(value); ok {
			return ts.Format(TimestampLayout)
		}
	case CategoryCurrency, CategoryLargeCurrency:
		if d, ok := toDecimal(value); ok {
			return groupThousands(d.StringFixed(2))
		}
	case CategoryInteger:
		if d, ok := toDecimal(value); ok {
			return groupThousands(d.Round(0).StringFixed(0))
		}
	case CategoryPercent:
		if d, ok := toDecimal(value); ok {
			return d.StringFixed(2) + "%"
		}
	case CategoryGreek:
		if d, ok := toDecimal(value); ok {
			return d.StringFixed(4)
		}
	}

	return stringify(value)
}

// EpochDateTime splits an epoch value into separate IST date and time strings.
func EpochDateTime(value any) (string, string, bool) {
	ts, ok := epochTime(value)
	if !ok {
		return "", "", false
	}
	return ts.Format("2006-01-02"), ts.Format("15:04:05"), true
}

// epochTime interprets a numeric value as a Unix timestamp in IST. Values
// above 1e12 are taken as milliseconds.
func epochTime(value any) (time.Time, bool) {
	var epoch int64
	switch v := value.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return time.Time{}, false
		}
		epoch = d.IntPart()
	case float64:
		epoch = int64(v)
	case int:
		epoch = int64(v)
	case int64:
		epoch = v
	default:
		return time.Time{}, false
	}

	if epoch <= 0 {
		return time.Time{}, false
	}
	if epoch > 1_000_000_000_000 {
		return time.UnixMilli(epoch).In(istZone), true
	}
	return time.Unix(epoch, 0).In(istZone), true
}

func toDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case decimal.Decimal:
		return v, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

// groupThousands inserts comma separators into the integer part of a plain
// decimal string, e.g. "2500.00" -> "2,500.00".
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	if len(intPart) <= 3 {
		return sign + intPart + fracPart
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + fracPart
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case []any:
		return cellText(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
