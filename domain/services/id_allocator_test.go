package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/coltranesx/Project-Area/domain/core/aggregates"
	"github.com/coltranesx/Project-Area/domain/core/entities"
	"github.com/coltranesx/Project-Area/domain/core/valueobjects"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func docWithIDs(ids ...string) aggregates.Document {
	nodes := make([]entities.Node, len(ids))
	for i, id := range ids {
		nodes[i] = entities.NewNode(valueobjects.MustNodeID(id), valueobjects.Position{}, valueobjects.Dimensions{}, entities.NodeData{})
	}
	return aggregates.NewDocument("p", nodes, nil)
}

func TestIDAllocatorSequence(t *testing.T) {
	a := NewIDAllocator()

	var got []string
	for range 4 {
		got = append(got, a.Next().String())
	}
	assert.Equal(t, []string{"node_3", "node_4", "node_5", "node_6"}, got)
}

func TestIDAllocatorReseed(t *testing.T) {
	tests := []struct {
		name     string
		advance  int
		doc      aggregates.Document
		wantNext int
	}{
		{name: "seed document keeps the start", doc: aggregates.DefaultDocument(), wantNext: 3},
		{name: "imported higher ids", doc: docWithIDs("1", "node_41", "node_7"), wantNext: 42},
		{name: "bare numeric ids", doc: docWithIDs("17"), wantNext: 18},
		{name: "non-numeric ids ignored", doc: docWithIDs("start", "node_x"), wantNext: 3},
		{name: "never moves backwards", advance: 10, doc: docWithIDs("node_4"), wantNext: 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewIDAllocator()
			for range tt.advance {
				a.Next()
			}
			a.Reseed(tt.doc)
			assert.Equal(t, valueobjects.NewNodeID(tt.wantNext), a.Next())
		})
	}
}

func TestIDAllocatorConcurrentUse(t *testing.T) {
	a := NewIDAllocator()
	const workers, perWorker = 8, 50

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				id := a.Next().String()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestIDUniquenessProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("n allocations yield node_3 .. node_(n+2)", prop.ForAll(
		func(n int) bool {
			a := NewIDAllocator()
			seen := make(map[string]bool, n)
			for i := range n {
				id := a.Next().String()
				if seen[id] || id != fmt.Sprintf("node_%d", i+3) {
					return false
				}
				seen[id] = true
			}
			return true
		},
		gen.IntRange(0, 500),
	))

	properties.Property("ids after reseed never collide with the document", prop.ForAll(
		func(suffixes []int) bool {
			ids := make([]string, len(suffixes))
			for i, s := range suffixes {
				ids[i] = fmt.Sprintf("node_%d", s)
			}
			doc := docWithIDs(ids...)
			a := NewIDAllocator()
			a.Reseed(doc)
			return !doc.HasNode(a.Next().String())
		},
		gen.SliceOf(gen.IntRange(0, 10000)),
	))

	properties.TestingRun(t)
}
