package entity

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Attributes holds free-form custom fields, stored as JSONB.
// Implements sql.Scanner and driver.Valuer for PostgreSQL mapping.
//
// Decoding uses json.Number so numeric values keep their precision
// instead of collapsing to float64.
type Attributes map[string]any

// Scan implements sql.Scanner.
func (a *Attributes) Scan(src any) error {
	if src == nil {
		*a = nil
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported source type for Attributes: %T", src)
	}
	if len(raw) == 0 {
		*a = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return fmt.Errorf("decode attributes: %w", err)
	}
	*a = m
	return nil
}

// Value implements driver.Valuer.
func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// GetString returns the string value for key, or "" when absent or of
// another type.
func (a Attributes) GetString(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// GetInt returns the integer value for key. json.Number and plain
// numeric types are both handled.
func (a Attributes) GetInt(key string) int64 {
	switch v := a[key].(type) {
	case json.Number:
		n, _ := v.Int64()
		return n
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// GetBool returns the boolean value for key, or false when absent.
func (a Attributes) GetBool(key string) bool {
	v, _ := a[key].(bool)
	return v
}

// Has reports whether key is present, including explicit nulls.
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Set stores value under key, allocating the map if needed.
func (a *Attributes) Set(key string, value any) {
	if *a == nil {
		*a = make(Attributes)
	}
	(*a)[key] = value
}
