package queries

import (
	"errors"

	"github.com/coltranesx/Project-Area/domain/core/aggregates"
	"github.com/coltranesx/Project-Area/domain/core/entities"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
)

// GetDocumentQuery returns the current document of a workspace
type GetDocumentQuery struct {
	WorkspaceID string
}

// Validate validates the GetDocumentQuery
func (q GetDocumentQuery) Validate() error {
	if q.WorkspaceID == "" {
		return apperrors.NewValidationError("workspace ID is required")
	}
	return nil
}

// ImportStatus describes a pending import
type ImportStatus struct {
	TaskID   string `json:"taskId"`
	FileName string `json:"fileName"`
}

// DocumentView is the result of GetDocumentQuery
type DocumentView struct {
	WorkspaceID string              `json:"workspaceId"`
	Document    aggregates.Document `json:"document"`
	Version     int                 `json:"version"`
	Importing   *ImportStatus       `json:"importing,omitempty"`
	// DanglingEdges counts edges whose endpoints are missing. Informational.
	DanglingEdges int `json:"danglingEdges"`
}

// GetNodeQuery returns a single node
type GetNodeQuery struct {
	WorkspaceID string
	NodeID      string
}

// Validate validates the GetNodeQuery
func (q GetNodeQuery) Validate() error {
	if q.WorkspaceID == "" {
		return apperrors.NewValidationError("workspace ID is required")
	}
	if q.NodeID == "" {
		return apperrors.NewValidationError("node ID is required")
	}
	return nil
}

// NodeView is the result of GetNodeQuery
type NodeView struct {
	Node    entities.Node `json:"node"`
	Version int           `json:"version"`
}

// ListWorkspacesQuery lists the workspaces loaded in this process
type ListWorkspacesQuery struct{}

// Validate validates the ListWorkspacesQuery
func (ListWorkspacesQuery) Validate() error { return nil }

// ErrNodeNotFound is returned by GetNodeQuery for unknown ids.
var ErrNodeNotFound = errors.New("node not found")
