package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Extras holds JSON members the rendering layer attached to a node that this
// package does not model (width, dragging, positionAbsolute, ...).
type Extras map[string]json.RawMessage

// member is one object member in source order.
type member struct {
	key   string
	value json.RawMessage
}

// source is a node or edge exactly as it was read. Nothing in it is checked:
// an entry that is not an object, or whose members have unexpected types, is
// kept and written back unchanged.
type source struct {
	raw      json.RawMessage
	members  []member
	isObject bool
}

func readSource(data []byte) (source, error) {
	var compacted bytes.Buffer
	if err := json.Compact(&compacted, data); err != nil {
		return source{}, err
	}
	src := source{raw: compacted.Bytes()}
	src.members, src.isObject = readMembers(src.raw)
	return src, nil
}

// readMembers lists the members of a JSON object in source order. ok is
// false when data is not an object.
func readMembers(data []byte) (members []member, ok bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, false
	}
	members = []member{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		members = append(members, member{key: key, value: value})
	}
	return members, true
}

// lookup returns the value of key. With duplicate keys the last one wins, as
// in encoding/json.
func lookup(members []member, key string) (json.RawMessage, bool) {
	for i := len(members) - 1; i >= 0; i-- {
		if members[i].key == key {
			return members[i].value, true
		}
	}
	return nil, false
}

// looseString reads a JSON string, or the literal text of a JSON number.
// Anything else reads as "".
func looseString(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

// looseFloat reads a JSON number; anything else reads as 0.
func looseFloat(raw json.RawMessage) float64 {
	var f float64
	if json.Unmarshal(raw, &f) != nil {
		return 0
	}
	return f
}

// looseBool reads a JSON boolean; anything else reads as false.
func looseBool(raw json.RawMessage) bool {
	var b bool
	if json.Unmarshal(raw, &b) != nil {
		return false
	}
	return b
}

// known is a modelled member. changed reports whether it must be written
// from its field rather than copied from the source.
type known struct {
	key     string
	changed bool
	encode  func() ([]byte, error)
}

func value(v any) func() ([]byte, error) {
	return func() ([]byte, error) { return json.Marshal(v) }
}

// writeObject writes members in source order. A modelled member that changed
// gets its new value, and changed members that were absent are appended in
// field order. Extras set in this process replace or follow the source
// members; every other member keeps its original bytes.
func writeObject(members []member, fields []known, extras Extras) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	count := 0
	write := func(key string, value []byte) {
		if count > 0 {
			buf.WriteByte(',')
		}
		count++
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
	}

	byKey := make(map[string]known, len(fields))
	for _, f := range fields {
		byKey[f.key] = f
	}
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		seen[m.key] = true
		f, isKnown := byKey[m.key]
		switch {
		case isKnown && f.changed:
			v, err := f.encode()
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", m.key, err)
			}
			write(m.key, v)
		case !isKnown && extras[m.key] != nil:
			write(m.key, extras[m.key])
		default:
			write(m.key, m.value)
		}
	}

	for _, f := range fields {
		if !f.changed || seen[f.key] {
			continue
		}
		v, err := f.encode()
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.key, err)
		}
		write(f.key, v)
	}

	keys := make([]string, 0, len(extras))
	for k := range extras {
		if _, isKnown := byKey[k]; !isKnown && !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		write(k, extras[k])
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
