package cmof

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// MarshalJSON writes the element as a JSON object with attributes in order.
// Strings are not HTML-escaped.
func (e *Element) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	if err := e.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Element) writeJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, a := range e.attrs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(buf, a.Name); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeValue(buf, a.Value); err != nil {
			return fmt.Errorf("attribute %q: %w", a.Name, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeValue(buf *bytes.Buffer, v interface{}) error {
	switch val := v.(type) {
	case *Element:
		if val == nil {
			buf.WriteString("null")
			return nil
		}
		return val.writeJSON(buf)
	case []*Element:
		buf.WriteByte('[')
		for i, el := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, el); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// UnmarshalJSON reads a JSON object into the element, keeping member order.
// Nested objects become elements, arrays of objects become element lists and
// arrays of strings become string lists.
func (e *Element) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("cmof: expected JSON object, got %v", tok)
	}

	el, err := decodeObject(dec)
	if err != nil {
		return err
	}
	e.attrs = el.attrs
	return nil
}

// ReadJSON decodes a single element from r
func ReadJSON(r io.Reader) (*Element, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	el := &Element{}
	if err := el.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return el, nil
}

// decodeObject reads members until the closing brace; the opening brace has
// already been consumed.
func decodeObject(dec *json.Decoder) (*Element, error) {
	el := &Element{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("cmof: expected object key, got %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		el.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return el, nil
}

func decodeValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("cmof: unexpected delimiter %v", t)
	case json.Number:
		if n, err := t.Int64(); err == nil && !strings.ContainsAny(t.String(), ".eE") {
			return int(n), nil
		}
		return t.Float64()
	default:
		// string, bool, nil
		return t, nil
	}
}

func decodeArray(dec *json.Decoder) (interface{}, error) {
	items := make([]interface{}, 0)
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	allElements, allStrings := true, true
	for _, item := range items {
		if _, ok := item.(*Element); !ok {
			allElements = false
		}
		if _, ok := item.(string); !ok {
			allStrings = false
		}
	}

	switch {
	case allElements:
		out := make([]*Element, len(items))
		for i, item := range items {
			out[i] = item.(*Element)
		}
		return out, nil
	case allStrings:
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = item.(string)
		}
		return out, nil
	}
	return items, nil
}
