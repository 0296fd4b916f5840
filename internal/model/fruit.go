package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Fruit is the single record exchanged with the server.
// An empty ID means the record has not been created yet.
type Fruit struct {
	ID   string
	Name string
}

// IsNew reports whether the record still lacks a server-side id.
func (f Fruit) IsNew() bool { return f.ID == "" }

type wireFruit struct {
	ID   json.RawMessage `json:"id"`
	Name string          `json:"name"`
}

// MarshalJSON writes the form serialization: a null id for new records,
// the id string verbatim otherwise.
func (f Fruit) MarshalJSON() ([]byte, error) {
	var id any
	if f.ID != "" {
		id = f.ID
	}
	return json.Marshal(struct {
		ID   any    `json:"id"`
		Name string `json:"name"`
	}{ID: id, Name: f.Name})
}

// UnmarshalJSON accepts numeric, string and null ids.
func (f *Fruit) UnmarshalJSON(b []byte) error {
	var w wireFruit
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	id, err := decodeID(w.ID)
	if err != nil {
		return err
	}
	f.ID, f.Name = id, w.Name
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decode id: %w", err)
		}
		return s, nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", fmt.Errorf("decode id: %w", err)
		}
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10), nil
		}
		return n.String(), nil
	}
}

// DecodeList normalizes the three list shapes the server produces:
// an empty body or null, a single object, or an array.
// The result is never nil and keeps array order.
func DecodeList(body []byte) ([]Fruit, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Fruit{}, nil
	}
	switch trimmed[0] {
	case '[':
		var list []Fruit
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		if list == nil {
			list = []Fruit{}
		}
		return list, nil
	case '{':
		var one Fruit
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, fmt.Errorf("decode list item: %w", err)
		}
		return []Fruit{one}, nil
	}
	return nil, fmt.Errorf("decode list: unexpected payload %q", truncate(trimmed, 32))
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
