package editor

import (
	"context"
	"sync"

	"github.com/coltranesx/Project-Area/domain/core/aggregates"
	"github.com/google/uuid"
)

// ImportTask is a single in-flight file import. At most one exists per
// controller; document changes are rejected until it finishes.
type ImportTask struct {
	ID       string
	FileName string

	cancel context.CancelFunc
	done   chan struct{}

	once sync.Once
	doc  aggregates.Document
	err  error
}

func newImportTask(fileName string, cancel context.CancelFunc) *ImportTask {
	return &ImportTask{
		ID:       uuid.NewString(),
		FileName: fileName,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Cancel abandons the import. A cancelled import leaves the document as it was.
func (t *ImportTask) Cancel() {
	t.cancel()
}

// Done is closed once the import has finished and its result, if any, is
// visible through the controller.
func (t *ImportTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the import finishes or ctx ends. It returns the imported
// document, or the error that left the controller unchanged.
func (t *ImportTask) Wait(ctx context.Context) (aggregates.Document, error) {
	select {
	case <-t.done:
		return t.doc, t.err
	case <-ctx.Done():
		return aggregates.Document{}, ctx.Err()
	}
}

func (t *ImportTask) finish(doc aggregates.Document, err error) {
	t.once.Do(func() {
		t.doc, t.err = doc, err
		t.cancel()
		close(t.done)
	})
}
