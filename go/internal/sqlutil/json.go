package sqlutil

import (
	"encoding/json"
	"fmt"

	"github.com/sqlc-dev/pqtype"
)

// ToNullRawMessage marshals v into a JSONB column value; nil marshals to SQL NULL
func ToNullRawMessage(v any) (pqtype.NullRawMessage, error) {
	if v == nil {
		return pqtype.NullRawMessage{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return pqtype.NullRawMessage{}, fmt.Errorf("failed to marshal json column: %w", err)
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}, nil
}

// FromNullRawMessage unmarshals a JSONB column into dst, leaving dst untouched when NULL
func FromNullRawMessage(src pqtype.NullRawMessage, dst any) error {
	if !src.Valid || len(src.RawMessage) == 0 {
		return nil
	}
	if err := json.Unmarshal(src.RawMessage, dst); err != nil {
		return fmt.Errorf("failed to unmarshal json column: %w", err)
	}
	return nil
}
