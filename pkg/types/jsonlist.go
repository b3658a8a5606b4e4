package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONList is an ordered list persisted as a JSON array column (jsonb in
// Postgres, text in SQLite). Order is preserved on both sides.
type JSONList[T any] []T

// Value marshals the list; nil is stored as an empty array.
func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	buf, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes a JSON array column into the list.
func (l *JSONList[T]) Scan(value interface{}) error {
	if value == nil {
		*l = JSONList[T]{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("json list: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*l = JSONList[T]{}
		return nil
	}

	result := JSONList[T]{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*l = result
	return nil
}

// MarshalJSON renders nil lists as [] so clients never see null.
func (l JSONList[T]) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]T(l))
}
