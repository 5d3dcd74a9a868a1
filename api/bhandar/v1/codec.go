package bhandarv1

import (
	"encoding/json"
	"fmt"
)

// Codec marshals the bhandar.v1 messages as JSON. It is registered under the
// "json" name, so it serves the application/json and application/connect+json
// content types.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("bhandarv1: marshal %T: %w", msg, err)
	}
	return b, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("bhandarv1: unmarshal %T: %w", msg, err)
	}
	return nil
}
