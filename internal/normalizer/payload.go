package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Payload is a decoded webhook body. Field lookups check the top level
// first and fall back to the nested "data" object.
type Payload struct {
	top  map[string]any
	data map[string]any
}

// Decode parses raw JSON keeping numbers in their original text form. The
// body must hold exactly one object; anything but whitespace after it is
// malformed.
func Decode(raw []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Payload{}, fmt.Errorf("%w: trailing data after object", ErrMalformed)
	}
	if m == nil {
		return Payload{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}
	return NewPayload(m), nil
}

func NewPayload(m map[string]any) Payload {
	p := Payload{top: m}
	if d, ok := m["data"].(map[string]any); ok {
		p.data = d
	}
	return p
}

func (p Payload) lookup(key string) (any, bool) {
	if v, ok := p.top[key]; ok && v != nil {
		return v, true
	}
	if p.data != nil {
		if v, ok := p.data[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Str returns the field as a string; empty when missing.
func (p Payload) Str(key string) string {
	v, ok := p.lookup(key)
	if !ok {
		return ""
	}
	return scalar(v)
}

// First returns the first non-empty field among keys.
func (p Payload) First(keys ...string) string {
	for _, k := range keys {
		if s := p.Str(k); s != "" {
			return s
		}
	}
	return ""
}

func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
