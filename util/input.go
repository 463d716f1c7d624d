package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// ParseDate accepts an HTML date input value or a full RFC3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, BadRequest(INVALID_DATE)
}

// ParseOptionalDate returns nil for blank input.
func ParseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FlexFloat decodes from a JSON number or a numeric string. Form inputs
// send heights and weights as strings.
type FlexFloat struct {
	Value *float64
}

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		f.Value = nil
		return nil
	}
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	if strings.TrimSpace(s) == "" {
		f.Value = nil
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return BadRequest(INVALID_NUMBER)
	}
	f.Value = &v
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}

// ToFloat converts a value decoded into map[string]interface{}.
func ToFloat(v interface{}) (*float64, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &n, nil
	case int:
		f := float64(n)
		return &f, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil, BadRequest(INVALID_NUMBER)
		}
		return &f, nil
	case string:
		if strings.TrimSpace(n) == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil, BadRequest(INVALID_NUMBER)
		}
		return &f, nil
	}
	return nil, BadRequest(INVALID_NUMBER)
}

// NormalizeEmail lower-cases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var errNotString = errors.New("not a string")

// StringValue reads an optional string out of a decoded payload.
func StringValue(v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errNotString
	}
	return strings.TrimSpace(s), nil
}
