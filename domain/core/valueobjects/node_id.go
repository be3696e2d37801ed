package valueobjects

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// nodeIDPrefix is the prefix of every allocator-generated node id.
const nodeIDPrefix = "node_"

// NodeID is a value object representing a node identifier.
// Seed nodes use bare numbers ("1", "2"); nodes created in a session use "node_<n>".
type NodeID struct {
	value string
}

// NewNodeID formats the allocator id for counter value n.
func NewNodeID(n int) NodeID {
	return NodeID{value: nodeIDPrefix + strconv.Itoa(n)}
}

// NewNodeIDFromString creates a NodeID from an existing string
func NewNodeIDFromString(id string) (NodeID, error) {
	if id == "" {
		return NodeID{}, errors.New("node ID cannot be empty")
	}
	return NodeID{value: id}, nil
}

// MustNodeID is NewNodeIDFromString for literals known to be valid.
func MustNodeID(id string) NodeID {
	nid, err := NewNodeIDFromString(id)
	if err != nil {
		panic(err)
	}
	return nid
}

// String returns the string representation of the NodeID
func (id NodeID) String() string {
	return id.value
}

// Equals checks if two NodeIDs are equal
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// IsZero checks if the NodeID is the zero value
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// Suffix returns the numeric part of "node_<n>" or of a bare numeric id.
// ok is false for any other shape.
func (id NodeID) Suffix() (n int, ok bool) {
	digits := strings.TrimPrefix(id.value, nodeIDPrefix)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// MarshalJSON implements json.Marshaler
func (id NodeID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler. A JSON number is taken by its
// literal text, so {"id": 7} and {"id": "7"} name the same node.
func (id *NodeID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		id.value = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("NodeID must be a string or a number")
	}
	id.value = n.String()
	return nil
}
