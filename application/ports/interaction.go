package ports

import (
	"context"
	"time"

	"github.com/coltranesx/Project-Area/domain/events"
)

// Prompter asks the user for input. The HTTP layer answers from the request
// body; the CLI reads stdin.
type Prompter interface {
	// PromptFileName asks for an export file name, offering suggested.
	// ok is false when the user dismissed the prompt.
	PromptFileName(ctx context.Context, suggested string) (name string, ok bool, err error)

	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, message string) (bool, error)
}

// NoticeLevel classifies a user-facing notice.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a short message shown to the user.
type Notice struct {
	WorkspaceID string      `json:"workspace_id,omitempty"`
	Level       NoticeLevel `json:"level"`
	Message     string      `json:"message"`
	Code        string      `json:"code,omitempty"`
}

// Notifier delivers notices to the user of a workspace.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// EventPublisher publishes domain events to interested parties
type EventPublisher interface {
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// Metrics records service-level measurements
type Metrics interface {
	// RecordCommand counts an editor command and its outcome.
	RecordCommand(command, outcome string, duration time.Duration)

	// RecordFallback counts a load that fell back to the seed document.
	RecordFallback(reason string)

	// RecordImport counts a finished import by outcome.
	RecordImport(outcome string)
}
