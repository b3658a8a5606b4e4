package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RawJSON stores an opaque JSON document in a jsonb column.
type RawJSON json.RawMessage

func (r RawJSON) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "null", nil
	}
	if !json.Valid(r) {
		return nil, fmt.Errorf("raw json: invalid document")
	}
	return string(r), nil
}

func (r *RawJSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*r = nil
	case string:
		*r = RawJSON(v)
	case []byte:
		buf := make([]byte, len(v))
		copy(buf, v)
		*r = buf
	default:
		return fmt.Errorf("raw json: unsupported scan type %T", value)
	}
	return nil
}

func (r RawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *RawJSON) UnmarshalJSON(data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	*r = buf
	return nil
}
