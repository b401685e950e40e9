package reporting

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// ApplyFilters keeps the records that satisfy every filter, preserving order.
// An empty filter list returns records unchanged.
func ApplyFilters(records []models.Record, filters []models.Filter) []models.Record {
	if len(filters) == 0 {
		return records
	}

	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if matchesAll(r, filters) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAll(r models.Record, filters []models.Filter) bool {
	for _, f := range filters {
		v, _ := r.Get(f.Field)
		if !Match(v, f.Operator, f.Value) {
			return false
		}
	}
	return true
}

// Match evaluates one predicate against a field value. Numbers compare
// numerically whatever their Go type, strings compare lexically, and values of
// different kinds never satisfy an ordering comparison. Unknown operators
// match everything.
func Match(value any, op models.FilterOperator, operand any) bool {
	switch op {
	case models.OpEq:
		return equal(value, operand)
	case models.OpNe:
		return !equal(value, operand)
	case models.OpGt:
		c, ok := compare(value, operand)
		return ok && c > 0
	case models.OpGte:
		c, ok := compare(value, operand)
		return ok && c >= 0
	case models.OpLt:
		c, ok := compare(value, operand)
		return ok && c < 0
	case models.OpLte:
		c, ok := compare(value, operand)
		return ok && c <= 0
	case models.OpIn:
		return contains(operand, value)
	case models.OpLike:
		return strings.Contains(strings.ToLower(stringify(value)), strings.ToLower(stringify(operand)))
	default:
		return true
	}
}

func equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return false
}

func compare(a, b any) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

// contains reports whether list is a slice holding an element equal to value.
func contains(list, value any) bool {
	rv := reflect.ValueOf(list)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if equal(value, rv.Index(i).Interface()) {
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
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

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	}
	return fmt.Sprint(v)
}
