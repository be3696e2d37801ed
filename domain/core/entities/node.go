package entities

import (
	"encoding/json"

	"github.com/coltranesx/Project-Area/domain/core/valueobjects"
)

// NodeTypeCustom is the renderer type of every node the editor creates.
const NodeTypeCustom = "custom"

// NodeData is the user-editable content of a node.
type NodeData struct {
	Title string             `json:"title"`
	Label string             `json:"label"`
	Color valueobjects.Color `json:"color"`
}

// Node is a positioned, resizable, colored box.
//
// Node is a value: the With* methods return a modified copy and never touch
// the receiver, so a snapshot handed to the rendering layer stays stable.
//
// A node read from JSON remembers its source. Members it does not model,
// members with unexpected types and absent members are written back as they
// were; only fields changed since the read are re-encoded.
type Node struct {
	ID       valueobjects.NodeID
	Type     string
	Position valueobjects.Position
	Data     NodeData
	Style    valueobjects.Dimensions
	Selected bool

	src    *nodeSource
	extras Extras
}

// nodeSource is shared by every copy of a decoded node and never modified.
type nodeSource struct {
	source
	read  Node
	data  []member
	style []member
}

// NewNode creates a custom node
func NewNode(id valueobjects.NodeID, position valueobjects.Position, size valueobjects.Dimensions, data NodeData) Node {
	return Node{
		ID:       id,
		Type:     NodeTypeCustom,
		Position: position,
		Data:     data,
		Style:    size,
	}
}

// WithTitle returns a copy with the title replaced.
func (n Node) WithTitle(title string) Node {
	n.Data.Title = title
	return n
}

// WithLabel returns a copy with the label replaced.
func (n Node) WithLabel(label string) Node {
	n.Data.Label = label
	return n
}

// WithColor returns a copy with the color replaced.
func (n Node) WithColor(color valueobjects.Color) Node {
	n.Data.Color = color
	return n
}

// WithPosition returns a copy moved to p.
func (n Node) WithPosition(p valueobjects.Position) Node {
	n.Position = p
	return n
}

// WithStyle returns a copy whose style box is resized to d.
func (n Node) WithStyle(d valueobjects.Dimensions) Node {
	n.Style = d
	return n
}

// WithSelected returns a copy with the selection flag set.
func (n Node) WithSelected(selected bool) Node {
	n.Selected = selected
	return n
}

// WithMeasured returns a copy carrying the size the renderer measured, kept
// in the top-level width and height members.
func (n Node) WithMeasured(d valueobjects.Dimensions) Node {
	return n.withExtra("width", d.Width).withExtra("height", d.Height)
}

// WithPositionAbsolute returns a copy carrying the renderer's absolute position.
func (n Node) WithPositionAbsolute(p valueobjects.Position) Node {
	return n.withExtra("positionAbsolute", p)
}

// WithDragging returns a copy with the renderer's dragging flag set.
func (n Node) WithDragging(dragging bool) Node {
	return n.withExtra("dragging", dragging)
}

// WithResizing returns a copy with the renderer's resizing flag set.
func (n Node) WithResizing(resizing bool) Node {
	return n.withExtra("resizing", resizing)
}

// Extra returns the raw value of a member the node does not model.
func (n Node) Extra(key string) (json.RawMessage, bool) {
	if v, ok := n.extras[key]; ok {
		return v, true
	}
	if n.src == nil || isNodeKey(key) {
		return nil, false
	}
	return lookup(n.src.members, key)
}

func (n Node) withExtra(key string, v any) Node {
	raw, err := json.Marshal(v)
	if err != nil {
		return n
	}
	extras := make(Extras, len(n.extras)+1)
	for k, v := range n.extras {
		extras[k] = v
	}
	extras[key] = raw
	n.extras = extras
	return n
}

// CycleColor returns a copy with the next palette color.
func (n Node) CycleColor(p valueobjects.Palette) Node {
	return n.WithColor(p.Next(n.Data.Color))
}

var nodeKeys = []string{"id", "type", "position", "data", "style", "selected"}

func isNodeKey(key string) bool {
	for _, k := range nodeKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (n Node) unchanged() bool {
	r := n.src.read
	return n.ID == r.ID && n.Type == r.Type && n.Position == r.Position &&
		n.Data == r.Data && n.Style == r.Style && n.Selected == r.Selected &&
		len(n.extras) == 0
}

// MarshalJSON implements json.Marshaler
func (n Node) MarshalJSON() ([]byte, error) {
	fresh := n.src == nil
	src := n.src
	if fresh {
		src = &nodeSource{}
	} else if !src.isObject && n.unchanged() {
		return src.raw, nil
	}
	r := src.read

	data := func() ([]byte, error) {
		return writeObject(src.data, []known{
			{key: "title", changed: fresh || n.Data.Title != r.Data.Title, encode: value(n.Data.Title)},
			{key: "label", changed: fresh || n.Data.Label != r.Data.Label, encode: value(n.Data.Label)},
			{key: "color", changed: fresh || n.Data.Color != r.Data.Color, encode: value(n.Data.Color)},
		}, nil)
	}
	style := func() ([]byte, error) {
		return writeObject(src.style, []known{
			{key: "width", changed: fresh || n.Style.Width != r.Style.Width, encode: value(n.Style.Width)},
			{key: "height", changed: fresh || n.Style.Height != r.Style.Height, encode: value(n.Style.Height)},
		}, nil)
	}

	return writeObject(src.members, []known{
		{key: "id", changed: fresh || n.ID != r.ID, encode: value(n.ID)},
		{key: "type", changed: n.Type != r.Type, encode: value(n.Type)},
		{key: "position", changed: fresh || n.Position != r.Position, encode: value(n.Position)},
		{key: "data", changed: fresh || n.Data != r.Data, encode: data},
		{key: "style", changed: fresh || n.Style != r.Style, encode: style},
		{key: "selected", changed: n.Selected != r.Selected, encode: value(n.Selected)},
	}, n.extras)
}

// UnmarshalJSON implements json.Unmarshaler. Any valid JSON value is
// accepted; fields that are absent or of another type read as zero.
func (n *Node) UnmarshalJSON(data []byte) error {
	src, err := readSource(data)
	if err != nil {
		return err
	}

	var read Node
	get := func(key string) json.RawMessage {
		raw, _ := lookup(src.members, key)
		return raw
	}
	if raw := get("id"); raw != nil {
		_ = json.Unmarshal(raw, &read.ID)
	}
	read.Type = looseString(get("type"))
	read.Selected = looseBool(get("selected"))

	if position, ok := readMembers(get("position")); ok {
		x, _ := lookup(position, "x")
		y, _ := lookup(position, "y")
		read.Position = valueobjects.NewPosition(looseFloat(x), looseFloat(y))
	}
	dataMembers, _ := readMembers(get("data"))
	title, _ := lookup(dataMembers, "title")
	label, _ := lookup(dataMembers, "label")
	color, _ := lookup(dataMembers, "color")
	read.Data = NodeData{Title: looseString(title), Label: looseString(label), Color: valueobjects.Color(looseString(color))}

	styleMembers, _ := readMembers(get("style"))
	width, _ := lookup(styleMembers, "width")
	height, _ := lookup(styleMembers, "height")
	read.Style = valueobjects.NewDimensions(looseFloat(width), looseFloat(height))

	*n = read
	n.src = &nodeSource{source: src, read: read, data: dataMembers, style: styleMembers}
	return nil
}
