package handlers

import (
	"bytes"
	"encoding/json"
)

// optional distinguishes a JSON field that was omitted from one sent as null.
// Set is true whenever the key appears in the body; Null is true for an explicit null.
type optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// ptr returns nil for an explicit null and a pointer to the value otherwise.
func (o optional[T]) ptr() *T {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}
