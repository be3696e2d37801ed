package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/coltranesx/Project-Area/application/commands"
	"github.com/coltranesx/Project-Area/application/commands/bus"
	"github.com/coltranesx/Project-Area/application/queries"
	querybus "github.com/coltranesx/Project-Area/application/queries/bus"
	"github.com/coltranesx/Project-Area/application/services"
	"github.com/coltranesx/Project-Area/interfaces/http/rest/middleware"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
	"go.uber.org/zap"
)

// maxImportBytes bounds uploaded project files.
const maxImportBytes = 10 << 20

// DocumentHandler handles whole-document HTTP requests
type DocumentHandler struct {
	base
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *apperrors.ErrorHandler,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		base:       base{errors: errs, logger: logger},
		commandBus: commandBus,
		queryBus:   queryBus,
	}
}

// RenameRequest represents the request body for renaming the project
type RenameRequest struct {
	Name string `json:"name"`
}

// ExportRequest represents the request body for exporting the document.
// An empty file name cancels the export.
type ExportRequest struct {
	FileName string `json:"fileName" validate:"max=255"`
}

// ResetRequest represents the request body for resetting the document
type ResetRequest struct {
	Confirm bool `json:"confirm"`
}

// GetDocument handles GET /document
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetDocumentQuery{
		WorkspaceID: middleware.WorkspaceFrom(r.Context()),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// ListWorkspaces handles GET /workspaces
func (h *DocumentHandler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListWorkspacesQuery{})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"workspaces": result})
}

// RenameProject handles PUT /document/name
func (h *DocumentHandler) RenameProject(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.send(w, r, commands.RenameProjectCommand{Workspace: workspace(r), Name: req.Name})
}

// QuickSave handles POST /document/save
func (h *DocumentHandler) QuickSave(w http.ResponseWriter, r *http.Request) {
	if _, err := h.commandBus.Send(r.Context(), commands.QuickSaveCommand{Workspace: workspace(r)}); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles POST /document/export and answers with the file as an
// attachment.
func (h *DocumentHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.SaveAsCommand{
		Workspace: workspace(r),
		Prompter:  services.StaticPrompter{FileName: req.FileName},
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	export := result.(services.ExportResult)
	w.Header().Set("Content-Type", services.JSONMediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Data); err != nil {
		h.logger.Warn("Failed to write export", zap.Error(err))
	}
}

// Import handles POST /document/import. The multipart "file" part is
// imported and the request waits for the import to finish. A request
// without a file is a dismissed picker.
func (h *DocumentHandler) Import(w http.ResponseWriter, r *http.Request) {
	cmd := commands.OpenCommand{Workspace: workspace(r), Wait: true}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		h.respondError(w, r, apperrors.NewValidationError("invalid upload: "+err.Error()))
		return
	default:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			h.respondError(w, r, apperrors.NewValidationError("invalid upload: "+err.Error()))
			return
		}
		cmd.Handle = services.BytesHandle{
			FileName: header.Filename,
			Type:     header.Header.Get("Content-Type"),
			Data:     data,
		}
	}

	if _, err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.GetDocument(w, r)
}

// Reset handles POST /document/reset
func (h *DocumentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.send(w, r, commands.ResetCommand{
		Workspace: workspace(r),
		Prompter:  services.StaticPrompter{Confirmed: req.Confirm},
	})
}

func (h *DocumentHandler) send(w http.ResponseWriter, r *http.Request, cmd bus.Command) {
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

func workspace(r *http.Request) commands.Workspace {
	return commands.Workspace{WorkspaceID: middleware.WorkspaceFrom(r.Context())}
}
