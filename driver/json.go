package driver

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errEmptyPayload = errors.New("empty payload")

// JSON encodes event payloads as JSON objects.
type JSON struct{}

var _ Codec = JSON{}

func (JSON) Unmarshal(data []byte, dest any) error {
	if len(data) == 0 {
		return errEmptyPayload
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshaling %T: %w", dest, err)
	}
	return nil
}

func (JSON) Marshal(src any) ([]byte, error) {
	data, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("marshaling %T: %w", src, err)
	}
	return data, nil
}
