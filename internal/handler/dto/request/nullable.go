package request

import (
	"encoding/json"

	"github.com/google/uuid"
)

// NullableUUID tells an absent field apart from an explicit null.
type NullableUUID struct {
	Set   bool
	Value *uuid.UUID
}

func (n *NullableUUID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}
