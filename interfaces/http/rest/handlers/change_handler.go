package handlers

import (
	"net/http"

	"github.com/coltranesx/Project-Area/application/commands"
	"github.com/coltranesx/Project-Area/application/commands/bus"
	"github.com/coltranesx/Project-Area/domain/core/aggregates"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
	"go.uber.org/zap"
)

// ChangeHandler applies change batches coming from the rendering surface.
// Bodies are validated by the commands they become.
type ChangeHandler struct {
	base
	commandBus *bus.CommandBus
}

// NewChangeHandler creates a new change handler
func NewChangeHandler(commandBus *bus.CommandBus, errs *apperrors.ErrorHandler, logger *zap.Logger) *ChangeHandler {
	return &ChangeHandler{
		base:       base{errors: errs, logger: logger},
		commandBus: commandBus,
	}
}

// NodeChanges handles POST /changes/nodes
func (h *ChangeHandler) NodeChanges(w http.ResponseWriter, r *http.Request) {
	var changes []aggregates.NodeChange
	if err := h.decodeJSON(w, r, &changes); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.send(w, r, commands.ApplyNodeChangesCommand{Workspace: workspace(r), Changes: changes})
}

// EdgeChanges handles POST /changes/edges
func (h *ChangeHandler) EdgeChanges(w http.ResponseWriter, r *http.Request) {
	var changes []aggregates.EdgeChange
	if err := h.decodeJSON(w, r, &changes); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.send(w, r, commands.ApplyEdgeChangesCommand{Workspace: workspace(r), Changes: changes})
}

// Connect handles POST /connections
func (h *ChangeHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var conn aggregates.Connection
	if err := h.decodeJSON(w, r, &conn); err != nil {
		h.respondError(w, r, err)
		return
	}
	result, err := h.commandBus.Send(r.Context(), commands.ConnectCommand{Workspace: workspace(r), Connection: conn})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	status := http.StatusOK
	if result.(commands.ConnectResult).Created {
		status = http.StatusCreated
	}
	h.respondJSON(w, status, result)
}

func (h *ChangeHandler) send(w http.ResponseWriter, r *http.Request, cmd bus.Command) {
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}
