package models

import (
	"encoding/json"
	"fmt"
)

// DecodeItem converts one loosely-typed bulk item into a concrete entity
// through its JSON shape.
func DecodeItem(item map[string]interface{}, dest interface{}) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode bulk item: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode bulk item: %w", err)
	}
	return nil
}

// ItemID extracts the identifier every update and delete item must carry.
func ItemID(item map[string]interface{}) (string, error) {
	raw, ok := item["id"]
	if !ok {
		return "", fmt.Errorf("bulk item is missing an id")
	}
	id, ok := raw.(string)
	if !ok || id == "" {
		return "", fmt.Errorf("bulk item id must be a non-empty string")
	}
	return id, nil
}
