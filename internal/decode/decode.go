// Package decode maps every accepted upstream wire shape into one canonical
// internal type per entity. All shape tolerance lives here, at the gateway
// boundary, so downstream code never branches on record format.
package decode

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexFloat decodes from a JSON number or a numeric string. Older records
// stored prices as strings; canonical records are numeric.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse number %q: %w", s, err)
	}
	*f = FlexFloat(v)
	return nil
}

// FlexInt decodes from a JSON integer or a numeric string.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (i *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// Tolerate float-typed integers ("12.0").
		fv, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("parse integer %q: %w", s, err)
		}
		v = int(fv)
	}
	*i = FlexInt(v)
	return nil
}

// FlexString decodes from a JSON string or a number ("class": 8 vs "8").
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	*s = FlexString(raw)
	return nil
}

const maxNestingDepth = 2

// sectionArray locates the record array in a payload that may be a bare
// array, keyed at the root, or nested under up to two "data" wrappers
// (the carousel endpoint has shipped all three). First match wins.
func sectionArray(raw json.RawMessage, key string) ([]json.RawMessage, bool) {
	return sectionArrayDepth(raw, key, 0)
}

func sectionArrayDepth(raw json.RawMessage, key string, depth int) ([]json.RawMessage, bool) {
	if len(raw) == 0 || depth > maxNestingDepth {
		return nil, false
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, true
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	if inner, ok := obj[key]; ok {
		var keyed []json.RawMessage
		if err := json.Unmarshal(inner, &keyed); err == nil {
			return keyed, true
		}
	}
	if inner, ok := obj["data"]; ok {
		return sectionArrayDepth(inner, key, depth+1)
	}
	return nil, false
}

// wireID carries both id spellings the backend has used.
type wireID struct {
	ID    string `json:"id"`
	Mongo string `json:"_id"`
}

func (w wireID) value() string {
	if w.ID != "" {
		return w.ID
	}
	return w.Mongo
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
