package commands

import (
	"github.com/coltranesx/Project-Area/domain/core/aggregates"
	"github.com/coltranesx/Project-Area/domain/core/entities"
)

// DocumentResult is the post-command snapshot of a workspace.
type DocumentResult struct {
	Document aggregates.Document `json:"document"`
	Version  int                 `json:"version"`
}

// AddNodeResult is returned by AddNodeCommand.
type AddNodeResult struct {
	Node    entities.Node `json:"node"`
	Version int           `json:"version"`
}

// DeleteSelectedResult is returned by DeleteSelectedCommand.
type DeleteSelectedResult struct {
	Removed int `json:"removed"`
	Version int `json:"version"`
}

// ChangesResult is returned by the change-batch commands.
type ChangesResult struct {
	Applied int      `json:"applied"`
	Ignored []string `json:"ignored,omitempty"`
	Version int      `json:"version"`
}

// ConnectResult is returned by ConnectCommand. Created is false when the
// connection already existed or was incomplete.
type ConnectResult struct {
	Edge    entities.Edge `json:"edge"`
	Created bool          `json:"created"`
	Version int           `json:"version"`
}
