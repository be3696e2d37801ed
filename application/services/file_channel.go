package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/coltranesx/Project-Area/application/ports"
	"github.com/coltranesx/Project-Area/domain/core/aggregates"
	"github.com/coltranesx/Project-Area/domain/core/validators"
	pkgerrors "github.com/coltranesx/Project-Area/pkg/errors"
	"go.uber.org/zap"
)

// JSONMediaType is the only media type accepted for import.
const JSONMediaType = "application/json"

// Notice codes sent by the file channel.
const (
	NoticeImportWrongType = "IMPORT_WRONG_TYPE"
	NoticeImportInvalid   = "IMPORT_INVALID_CONTENT"
	NoticeImportReadError = "IMPORT_READ_FAILED"
)

var (
	// ErrExportCancelled is returned when the file name prompt was dismissed.
	ErrExportCancelled = pkgerrors.NewCancelledError("export").WithCode("EXPORT_CANCELLED")

	// ErrImportCancelled is returned when no file was picked.
	ErrImportCancelled = pkgerrors.NewCancelledError("import").WithCode("IMPORT_CANCELLED")
)

// ExportResult is a written export file
type ExportResult struct {
	FileName string
	Data     []byte
}

// FileChannel moves documents between the editor and user-chosen files.
// It keeps no state between calls.
type FileChannel struct {
	files       ports.FileStore
	notifier    ports.Notifier
	workspaceID string
	logger      *zap.Logger
}

// NewFileChannel creates the file channel for a workspace
func NewFileChannel(files ports.FileStore, notifier ports.Notifier, workspaceID string, logger *zap.Logger) *FileChannel {
	return &FileChannel{
		files:       files,
		notifier:    notifier,
		workspaceID: workspaceID,
		logger:      logger.With(zap.String("workspaceID", workspaceID)),
	}
}

// ExportFileName forces the .json suffix onto name
func ExportFileName(name string) string {
	if strings.HasSuffix(name, ".json") {
		return name
	}
	return name + ".json"
}

// Export asks for a file name and writes doc there as indented JSON.
// A dismissed prompt or an empty name returns ErrExportCancelled.
func (c *FileChannel) Export(ctx context.Context, doc aggregates.Document, suggestedName string, prompter ports.Prompter) (ExportResult, error) {
	name, ok, err := prompter.PromptFileName(ctx, suggestedName)
	if err != nil {
		return ExportResult{}, fmt.Errorf("prompt file name: %w", err)
	}
	if !ok || name == "" {
		return ExportResult{}, ErrExportCancelled
	}
	fileName := ExportFileName(name)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return ExportResult{}, fmt.Errorf("encode document: %w", err)
	}
	if err := validators.ValidateValue(doc); err != nil {
		c.logger.Warn("Exported document will not import back", zap.String("file", fileName), zap.Error(err))
	}

	w, err := c.files.Write(ctx, c.path(fileName))
	if err != nil {
		return ExportResult{}, pkgerrors.NewStorageError("export", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return ExportResult{}, pkgerrors.NewStorageError("export", err)
	}
	if err := w.Close(); err != nil {
		return ExportResult{}, pkgerrors.NewStorageError("export", err)
	}

	c.logger.Info("Document exported", zap.String("file", fileName), zap.Int("bytes", len(data)))
	return ExportResult{FileName: fileName, Data: data}, nil
}

// Import reads and validates the picked file. On failure the user gets a
// notice and the returned error is an IMPORT_INVALID AppError; the caller's
// document must stay untouched.
func (c *FileChannel) Import(ctx context.Context, handle ports.FileHandle) (aggregates.Document, error) {
	if handle == nil {
		return aggregates.Document{}, ErrImportCancelled
	}
	log := c.logger.With(zap.String("file", handle.Name()))

	if !IsJSONMediaType(handle.MediaType()) {
		log.Info("Rejected import with wrong media type", zap.String("mediaType", handle.MediaType()))
		return aggregates.Document{}, c.reject(ctx, NoticeImportWrongType,
			"Please choose a valid .json project file.", nil)
	}

	data, err := readAll(ctx, handle)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return aggregates.Document{}, ErrImportCancelled
		}
		log.Error("Failed to read import file", zap.Error(err))
		return aggregates.Document{}, c.reject(ctx, NoticeImportReadError,
			"An error occurred while reading the file.", err)
	}

	doc, err := validators.ValidateDocument(data)
	if errors.Is(err, validators.ErrIncompleteDocument) {
		log.Info("Rejected incomplete import", zap.Error(err))
		return aggregates.Document{}, c.reject(ctx, NoticeImportInvalid,
			"The file content is invalid (expected projectName, nodes, edges).", err)
	}
	if err != nil {
		log.Error("Failed to parse import file", zap.Error(err))
		return aggregates.Document{}, c.reject(ctx, NoticeImportReadError,
			"An error occurred while reading the file.", err)
	}

	return doc, nil
}

func (c *FileChannel) reject(ctx context.Context, code, message string, cause error) error {
	c.notifier.Notify(ctx, ports.Notice{
		WorkspaceID: c.workspaceID,
		Level:       ports.NoticeError,
		Message:     message,
		Code:        code,
	})
	return pkgerrors.NewImportInvalidError(message).WithCode(code).WithCause(cause)
}

// path maps an export to workspace/<file> in the store. Separators and dot
// segments are neutralized so a file name cannot leave its directory.
func (c *FileChannel) path(fileName string) string {
	return safeSegment(c.workspaceID) + "/" + safeSegment(fileName)
}

func safeSegment(s string) string {
	s = strings.NewReplacer("/", "_", "\\", "_").Replace(s)
	if s == "." || s == ".." || s == "" {
		return "_"
	}
	return s
}

// IsJSONMediaType reports whether mediaType is application/json, ignoring
// parameters such as charset.
func IsJSONMediaType(mediaType string) bool {
	mt, _, err := mime.ParseMediaType(mediaType)
	return err == nil && mt == JSONMediaType
}

func readAll(ctx context.Context, handle ports.FileHandle) ([]byte, error) {
	r, err := handle.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return data, nil
}
