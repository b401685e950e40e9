package export

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// humanize turns a camelCase key into a title: "currentStock" -> "Current Stock".
func humanize(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// formatNumber renders n with thousands separators and at most three
// fraction digits.
func formatNumber(n float64) string {
	return printer.Sprint(number.Decimal(n, number.MaxFractionDigits(3)))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// displayValue formats a record or summary value for HTML: missing values
// become "N/A", numbers get separators, lists are comma-joined and anything
// structured is shown as compact JSON.
func displayValue(v any) string {
	if v == nil {
		return "N/A"
	}
	if f, ok := asFloat(v); ok {
		return formatNumber(f)
	}
	if s, ok := v.(string); ok {
		return s
	}
	if items, ok := listItems(v); ok {
		return strings.Join(items, ", ")
	}
	if b, ok := v.(bool); ok {
		return fmt.Sprint(b)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}

// listItems stringifies the elements of a slice value.
func listItems(v any) ([]string, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]string, rv.Len())
	for i := range items {
		items[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return items, true
}

// cellValue converts a value for a spreadsheet cell. Numbers and strings are
// written natively so Excel can sum them.
func cellValue(v any) any {
	switch v.(type) {
	case nil:
		return ""
	case string, bool, int, int32, int64, float32, float64:
		return v
	}
	if f, ok := asFloat(v); ok {
		return f
	}
	if items, ok := listItems(v); ok {
		return strings.Join(items, ", ")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}
