package domain

import (
	"encoding/json"
	"fmt"
)

// Fields holds the attributes of an open record that the service does not
// interpret. Values are kept as raw JSON and re-emitted unchanged.
type Fields map[string]json.RawMessage

// Clone returns an independent copy of f.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// decodeObject splits a JSON object into its members.
func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("expected JSON object, got null")
	}
	return raw, nil
}

// takeString removes key from raw and decodes it into dst.
// A missing key leaves dst empty.
func takeString(raw map[string]json.RawMessage, key string, dst *string) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	delete(raw, key)
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}

// remaining turns the members left after takeString calls into Fields.
func remaining(raw map[string]json.RawMessage) Fields {
	if len(raw) == 0 {
		return nil
	}
	return Fields(raw)
}

// encodeObject writes extra first so that named fields always win.
func encodeObject(extra Fields, named map[string]any) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(extra)+len(named))
	for k, v := range extra {
		out[k] = v
	}
	for k, v := range named {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = b
	}
	return json.Marshal(out)
}
