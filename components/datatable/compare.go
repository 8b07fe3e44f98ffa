package datatable

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Compare is the three-way comparator used for column sorting. nil sorts
// first; values of different kinds fall back to their printed form so the
// order stays total.
func Compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch av := a.(type) {
	case decimal.Decimal:
		if bv, ok := asDecimal(b); ok {
			return av.Cmp(bv)
		}
	case *decimal.Decimal:
		if av != nil {
			if bv, ok := asDecimal(b); ok {
				return av.Cmp(bv)
			}
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return compareBool(av, bv)
		}
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if result, ok := compareNumeric(ra, rb); ok {
		return result
	}
	if ra.Kind() == reflect.String && rb.Kind() == reflect.String {
		return strings.Compare(ra.String(), rb.String())
	}
	return strings.Compare(printable(a), printable(b))
}

func asDecimal(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, true
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero, false
		}
		return *val, true
	default:
		return decimal.Zero, false
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func compareNumeric(a, b reflect.Value) (int, bool) {
	switch {
	case isInt(a) && isInt(b):
		return cmp.Compare(a.Int(), b.Int()), true
	case isUint(a) && isUint(b):
		return cmp.Compare(a.Uint(), b.Uint()), true
	case isNumber(a) && isNumber(b):
		return cmp.Compare(toFloat(a), toFloat(b)), true
	default:
		return 0, false
	}
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumber(v reflect.Value) bool {
	return isInt(v) || isUint(v) || v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isInt(v):
		return float64(v.Int())
	case isUint(v):
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

func printable(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

// FormatCell renders a raw field value as cell text. Missing values render
// as the empty string.
func FormatCell(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("Jan 2, 2006")
	case *decimal.Decimal:
		if val == nil {
			return ""
		}
		return val.StringFixed(2)
	case decimal.Decimal:
		return val.StringFixed(2)
	}
	return printable(v)
}
