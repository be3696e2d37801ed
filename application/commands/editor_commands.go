package commands

import (
	"github.com/coltranesx/Project-Area/application/ports"
	"github.com/coltranesx/Project-Area/domain/core/aggregates"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
	"github.com/coltranesx/Project-Area/pkg/utils"
)

// Workspace scopes a command to one workspace's controller.
type Workspace struct {
	WorkspaceID string `json:"workspaceId" validate:"required,max=128,excludesall=:/"`
}

// AddNodeCommand appends a node with the configured defaults.
type AddNodeCommand struct {
	Workspace
}

// Validate validates the command
func (c AddNodeCommand) Validate() error { return validate(c) }

// DeleteSelectedCommand removes every selected node.
type DeleteSelectedCommand struct {
	Workspace
}

// Validate validates the command
func (c DeleteSelectedCommand) Validate() error { return validate(c) }

// QuickSaveCommand writes the document to the local-storage channel.
type QuickSaveCommand struct {
	Workspace
}

// Validate validates the command
func (c QuickSaveCommand) Validate() error { return validate(c) }

// SaveAsCommand exports the document to a named file.
type SaveAsCommand struct {
	Workspace
	Prompter ports.Prompter `validate:"-"`
}

// Validate validates the command
func (c SaveAsCommand) Validate() error { return validatePrompted(c, c.Prompter) }

// OpenCommand imports a document from a picked file. A nil Handle means the
// picker was dismissed. With Wait set the handler blocks until the import
// finishes and returns the document; otherwise it returns the *editor.ImportTask.
type OpenCommand struct {
	Workspace
	Handle ports.FileHandle `validate:"-"`
	Wait   bool
}

// Validate validates the command
func (c OpenCommand) Validate() error { return validate(c) }

// ResetCommand clears the stored document after confirmation.
type ResetCommand struct {
	Workspace
	Prompter ports.Prompter `validate:"-"`
}

// Validate validates the command
func (c ResetCommand) Validate() error { return validatePrompted(c, c.Prompter) }

// RenameProjectCommand sets the project name. Empty names are allowed.
type RenameProjectCommand struct {
	Workspace
	Name string `json:"name"`
}

// Validate validates the command
func (c RenameProjectCommand) Validate() error { return validate(c) }

// EditTitleCommand replaces a node's title.
type EditTitleCommand struct {
	Workspace
	NodeID string `json:"nodeId" validate:"required"`
	Text   string `json:"text"`
}

// Validate validates the command
func (c EditTitleCommand) Validate() error { return validate(c) }

// EditLabelCommand replaces a node's label.
type EditLabelCommand struct {
	Workspace
	NodeID string `json:"nodeId" validate:"required"`
	Text   string `json:"text"`
}

// Validate validates the command
func (c EditLabelCommand) Validate() error { return validate(c) }

// CycleColorCommand moves a node to the next palette color.
type CycleColorCommand struct {
	Workspace
	NodeID string `json:"nodeId" validate:"required"`
}

// Validate validates the command
func (c CycleColorCommand) Validate() error { return validate(c) }

// ApplyNodeChangesCommand applies a batch of rendering-surface node changes.
type ApplyNodeChangesCommand struct {
	Workspace
	Changes []aggregates.NodeChange `json:"changes" validate:"dive"`
}

// Validate validates the command
func (c ApplyNodeChangesCommand) Validate() error { return validate(c) }

// ApplyEdgeChangesCommand applies a batch of rendering-surface edge changes.
type ApplyEdgeChangesCommand struct {
	Workspace
	Changes []aggregates.EdgeChange `json:"changes" validate:"dive"`
}

// Validate validates the command
func (c ApplyEdgeChangesCommand) Validate() error { return validate(c) }

// ConnectCommand links two node handles with an edge.
type ConnectCommand struct {
	Workspace
	Connection aggregates.Connection `json:"connection"`
}

// Validate validates the command
func (c ConnectCommand) Validate() error { return validate(c) }

func validate(cmd any) error {
	if err := utils.ValidateStruct(cmd); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}

func validatePrompted(cmd any, prompter ports.Prompter) error {
	if prompter == nil {
		return apperrors.NewValidationError("prompter is required")
	}
	return validate(cmd)
}
