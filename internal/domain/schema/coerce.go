package schema

import (
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeLayouts are the accepted date/time formats, tried in order.
var TimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Coerce converts raw into the normalized value for fields of type t.
// Normalized types are int64, uint64, float64, decimal.Decimal, uuid.UUID,
// time.Time, bool and string. Non-scalar types report false.
func Coerce(t reflect.Type, raw string) (any, bool) {
	return CoerceKind(KindOf(t), raw)
}

// CoerceKind converts raw into the normalized value for kind k.
func CoerceKind(k Kind, raw string) (any, bool) {
	switch k {
	case KindString:
		return raw, true
	case KindBool:
		b, err := strconv.ParseBool(raw)
		return b, err == nil
	case KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		return n, err == nil
	case KindUint:
		n, err := strconv.ParseUint(raw, 10, 64)
		return n, err == nil
	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		return f, err == nil
	case KindDecimal:
		d, err := decimal.NewFromString(raw)
		return d, err == nil
	case KindUUID:
		id, err := uuid.Parse(raw)
		return id, err == nil
	case KindTime:
		for _, layout := range TimeLayouts {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts, true
			}
		}
		return nil, false
	}
	return nil, false
}

// Normalize converts a leaf field value into its normalized representation.
// Nil pointers and invalid values report false.
func Normalize(v reflect.Value) (any, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil, false
	}
	switch KindOf(v.Type()) {
	case KindString:
		return v.String(), true
	case KindBool:
		return v.Bool(), true
	case KindInt:
		return v.Int(), true
	case KindUint:
		return v.Uint(), true
	case KindFloat:
		return v.Float(), true
	case KindDecimal:
		d, ok := v.Interface().(decimal.Decimal)
		return d, ok
	case KindUUID:
		id, ok := v.Interface().(uuid.UUID)
		return id, ok
	case KindTime:
		ts, ok := v.Interface().(time.Time)
		return ts, ok
	}
	return nil, false
}

// Text renders a normalized value in its textual form, used for substring matching.
func Text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case decimal.Decimal:
		return x.String()
	case uuid.UUID:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339Nano)
	}
	return ""
}
