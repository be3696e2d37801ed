package entities

import "encoding/json"

// Edge is a directed connection between two node ids.
// Source and Target are not checked against the node list.
//
// Like Node, an edge read from JSON is written back as it was read except
// for the fields changed since.
type Edge struct {
	ID           string
	Source       string
	Target       string
	SourceHandle string
	TargetHandle string
	Selected     bool

	src *edgeSource
}

type edgeSource struct {
	source
	read Edge
}

// NewEdge creates an edge
func NewEdge(id, source, target string) Edge {
	return Edge{ID: id, Source: source, Target: target}
}

// WithSelected returns a copy with the selection flag set.
func (e Edge) WithSelected(selected bool) Edge {
	e.Selected = selected
	return e
}

// SameConnection reports whether both edges join the same handles.
func (e Edge) SameConnection(other Edge) bool {
	return e.Source == other.Source && e.Target == other.Target &&
		e.SourceHandle == other.SourceHandle && e.TargetHandle == other.TargetHandle
}

func (e Edge) fields() Edge {
	e.src = nil
	return e
}

// MarshalJSON implements json.Marshaler
func (e Edge) MarshalJSON() ([]byte, error) {
	src := e.src
	if src == nil {
		src = &edgeSource{}
	} else if !src.isObject && e.fields() == src.read {
		return src.raw, nil
	}
	r, fresh := src.read, e.src == nil

	return writeObject(src.members, []known{
		{key: "id", changed: fresh || e.ID != r.ID, encode: value(e.ID)},
		{key: "source", changed: fresh || e.Source != r.Source, encode: value(e.Source)},
		{key: "target", changed: fresh || e.Target != r.Target, encode: value(e.Target)},
		{key: "sourceHandle", changed: e.SourceHandle != r.SourceHandle, encode: value(e.SourceHandle)},
		{key: "targetHandle", changed: e.TargetHandle != r.TargetHandle, encode: value(e.TargetHandle)},
		{key: "selected", changed: e.Selected != r.Selected, encode: value(e.Selected)},
	}, nil)
}

// UnmarshalJSON implements json.Unmarshaler. Any valid JSON value is
// accepted; fields that are absent or of another type read as zero.
func (e *Edge) UnmarshalJSON(data []byte) error {
	src, err := readSource(data)
	if err != nil {
		return err
	}
	get := func(key string) json.RawMessage {
		raw, _ := lookup(src.members, key)
		return raw
	}
	read := Edge{
		ID:           looseString(get("id")),
		Source:       looseString(get("source")),
		Target:       looseString(get("target")),
		SourceHandle: looseString(get("sourceHandle")),
		TargetHandle: looseString(get("targetHandle")),
		Selected:     looseBool(get("selected")),
	}
	*e = read
	e.src = &edgeSource{source: src, read: read}
	return nil
}
