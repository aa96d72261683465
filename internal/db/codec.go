package db

import (
	"encoding/json"
	"reflect"
)

// Decode unmarshals a JSON document into a new value of t.
// A nil t decodes into map[string]any.
func Decode(doc []byte, t reflect.Type) (any, error) {
	if t == nil {
		var m map[string]any
		if err := json.Unmarshal(doc, &m); err != nil {
			return nil, &Error{Op: OpDecode, Err: err}
		}
		return m, nil
	}
	v := reflect.New(t)
	if err := json.Unmarshal(doc, v.Interface()); err != nil {
		return nil, &Error{Op: OpDecode, Err: err}
	}
	return v.Elem().Interface(), nil
}
