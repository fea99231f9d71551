package domain

import "encoding/json"

// Field is a three-valued patch field. JSON cannot distinguish an absent key
// from an explicit null by value alone, so Field records presence at decode
// time: an untouched Field means "leave unchanged", a present null means
// "clear", and a present value means "set".
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// UnmarshalJSON is only invoked for keys present in the request object, so
// Present is true whenever it runs.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if string(data) == "null" {
		f.Null = true
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// Set returns a present, non-null field holding value.
func Set[T any](value T) Field[T] {
	return Field[T]{Present: true, Value: value}
}

// SetNull returns a present field that clears the column.
func SetNull[T any]() Field[T] {
	return Field[T]{Present: true, Null: true}
}

// Apply merges the field into a column-update map. Nullable columns receive
// nil when the field was an explicit null.
func (f Field[T]) Apply(updates map[string]any, column string) {
	if !f.Present {
		return
	}
	if f.Null {
		updates[column] = nil
		return
	}
	updates[column] = f.Value
}
