package schema

import (
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind is the comparison class of a leaf field.
type Kind string

// Kind constants.
const (
	KindInvalid Kind = ""
	KindString  Kind = "string"
	KindBool    Kind = "bool"
	KindInt     Kind = "int"
	KindUint    Kind = "uint"
	KindFloat   Kind = "float"
	KindDecimal Kind = "decimal"
	KindTime    Kind = "time"
	KindUUID    Kind = "uuid"
	KindStruct  Kind = "struct"
)

var (
	timeType    = reflect.TypeFor[time.Time]()
	uuidType    = reflect.TypeFor[uuid.UUID]()
	decimalType = reflect.TypeFor[decimal.Decimal]()
	bytesType   = reflect.TypeFor[[]byte]()
)

// IsScalar reports whether values of the kind can be compared directly.
func (k Kind) IsScalar() bool {
	return k != KindInvalid && k != KindStruct
}

// IsOrdered reports whether LT/LTE/GT/GTE are meaningful for the kind.
func (k Kind) IsOrdered() bool {
	switch k {
	case KindString, KindInt, KindUint, KindFloat, KindDecimal, KindTime:
		return true
	}
	return false
}

// KindOf classifies t after unwrapping pointers.
func KindOf(t reflect.Type) Kind {
	t = Indirect(t)
	if t == nil {
		return KindInvalid
	}
	switch t {
	case timeType:
		return KindTime
	case uuidType:
		return KindUUID
	case decimalType:
		return KindDecimal
	}
	switch t.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Struct:
		return KindStruct
	}
	return KindInvalid
}

// Indirect strips pointer wrappers from t.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// elementOf reports whether t is a collection and returns its unwrapped element type.
// Byte slices are scalars, not collections.
func elementOf(t reflect.Type) (reflect.Type, bool) {
	t = Indirect(t)
	if t == nil || t == bytesType {
		return t, false
	}
	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		if t.Elem().Kind() == reflect.Uint8 {
			return t, false
		}
		return Indirect(t.Elem()), true
	}
	return t, false
}
