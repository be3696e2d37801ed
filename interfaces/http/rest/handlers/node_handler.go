package handlers

import (
	"net/http"

	"github.com/coltranesx/Project-Area/application/commands"
	"github.com/coltranesx/Project-Area/application/commands/bus"
	"github.com/coltranesx/Project-Area/application/queries"
	querybus "github.com/coltranesx/Project-Area/application/queries/bus"
	"github.com/coltranesx/Project-Area/interfaces/http/rest/middleware"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NodeHandler handles node-related HTTP requests
type NodeHandler struct {
	base
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *apperrors.ErrorHandler,
	logger *zap.Logger,
) *NodeHandler {
	return &NodeHandler{
		base:       base{errors: errs, logger: logger},
		commandBus: commandBus,
		queryBus:   queryBus,
	}
}

// TextRequest represents the request body for editing node text
type TextRequest struct {
	Text string `json:"text"`
}

// CreateNode handles POST /nodes
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	result, err := h.commandBus.Send(r.Context(), commands.AddNodeCommand{Workspace: workspace(r)})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, result)
}

// GetNode handles GET /nodes/{nodeID}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetNodeQuery{
		WorkspaceID: middleware.WorkspaceFrom(r.Context()),
		NodeID:      chi.URLParam(r, "nodeID"),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// DeleteSelected handles POST /nodes/delete-selected
func (h *NodeHandler) DeleteSelected(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.DeleteSelectedCommand{Workspace: workspace(r)})
}

// EditTitle handles PATCH /nodes/{nodeID}/title
func (h *NodeHandler) EditTitle(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.send(w, r, commands.EditTitleCommand{
		Workspace: workspace(r),
		NodeID:    chi.URLParam(r, "nodeID"),
		Text:      req.Text,
	})
}

// EditLabel handles PATCH /nodes/{nodeID}/label
func (h *NodeHandler) EditLabel(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.send(w, r, commands.EditLabelCommand{
		Workspace: workspace(r),
		NodeID:    chi.URLParam(r, "nodeID"),
		Text:      req.Text,
	})
}

// CycleColor handles POST /nodes/{nodeID}/cycle-color
func (h *NodeHandler) CycleColor(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.CycleColorCommand{
		Workspace: workspace(r),
		NodeID:    chi.URLParam(r, "nodeID"),
	})
}

func (h *NodeHandler) send(w http.ResponseWriter, r *http.Request, cmd bus.Command) {
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}
