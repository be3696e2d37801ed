package services

import (
	"bytes"
	"context"
	"io"
)

// StaticPrompter answers prompts with values known up front, such as the
// fields of an HTTP request body. An empty FileName dismisses the prompt.
type StaticPrompter struct {
	FileName  string
	Confirmed bool
}

// PromptFileName returns the preset file name
func (p StaticPrompter) PromptFileName(_ context.Context, _ string) (string, bool, error) {
	return p.FileName, p.FileName != "", nil
}

// Confirm returns the preset answer
func (p StaticPrompter) Confirm(_ context.Context, _ string) (bool, error) {
	return p.Confirmed, nil
}

// BytesHandle is an in-memory FileHandle, used for uploads that were already
// buffered by the transport.
type BytesHandle struct {
	FileName string
	Type     string
	Data     []byte
}

// Name returns the file name
func (h BytesHandle) Name() string { return h.FileName }

// MediaType returns the declared media type
func (h BytesHandle) MediaType() string { return h.Type }

// Open returns a reader over the buffered bytes
func (h BytesHandle) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(h.Data)), nil
}
