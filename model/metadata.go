package model

import (
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/siherrmann/metonym/helper"
)

// Metadata holds free-form attributes of senses and edges, stored as JSONB
type Metadata map[string]interface{}

// Value implements the driver.Valuer interface for database storage
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for database retrieval
func (m *Metadata) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case Metadata:
		*m = v
		return nil
	case []byte:
		return m.unmarshal(v)
	case string:
		return m.unmarshal([]byte(v))
	default:
		return helper.NewError("scan metadata", fmt.Errorf("unsupported type %T", value))
	}
}

func (m *Metadata) unmarshal(b []byte) error {
	out := Metadata{}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &out); err != nil {
			return helper.NewError("unmarshal metadata", err)
		}
	}
	*m = out
	return nil
}
