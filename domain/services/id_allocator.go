package services

import (
	"sync"

	"github.com/coltranesx/Project-Area/domain/core/aggregates"
	"github.com/coltranesx/Project-Area/domain/core/valueobjects"
)

// FirstAllocatedID is the first counter value; ids 1 and 2 belong to the seed nodes.
const FirstAllocatedID = 3

// IDAllocator hands out session-unique node ids of the form "node_<n>".
// It is owned by a single editor session and is safe for concurrent use.
type IDAllocator struct {
	mu   sync.Mutex
	next int
}

// NewIDAllocator creates an allocator starting at FirstAllocatedID
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: FirstAllocatedID}
}

// Next returns a fresh id and advances the counter.
func (a *IDAllocator) Next() valueobjects.NodeID {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := valueobjects.NewNodeID(a.next)
	a.next++
	return id
}

// Reseed moves the counter past every numeric id in doc. The counter never
// goes backwards, so ids handed out earlier in the session are never reused.
func (a *IDAllocator) Reseed(doc aggregates.Document) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if candidate := doc.MaxNodeSuffix() + 1; candidate > a.next {
		a.next = candidate
	}
}
