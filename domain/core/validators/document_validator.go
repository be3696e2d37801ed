package validators

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/coltranesx/Project-Area/domain/core/aggregates"
	"github.com/coltranesx/Project-Area/domain/core/entities"
	pkgerrors "github.com/coltranesx/Project-Area/pkg/errors"
)

// Error codes carried by validation failures.
const (
	CodeMalformedDocument  = "MALFORMED_DOCUMENT"
	CodeIncompleteDocument = "INCOMPLETE_DOCUMENT"
)

var (
	// ErrMalformedDocument matches candidates that are not JSON, or whose
	// projectName is not a string or nodes and edges are not arrays.
	ErrMalformedDocument = pkgerrors.NewValidationError("malformed document").WithCode(CodeMalformedDocument)

	// ErrIncompleteDocument matches candidates missing projectName, nodes or edges.
	ErrIncompleteDocument = pkgerrors.NewValidationError("incomplete document").WithCode(CodeIncompleteDocument)
)

// Required top-level members, in the order they are reported.
var requiredFields = []string{"nodes", "edges", "projectName"}

// ValidateDocument parses candidate and checks the schema shared by the local
// cache and exported files. The whole document is accepted or rejected; there
// is no partial result.
//
// Only the three top-level members are checked. Node and edge entries pass
// through whatever their shape: entries and members the editor cannot read
// are kept and written back byte for byte.
func ValidateDocument(candidate []byte) (aggregates.Document, error) {
	if !json.Valid(candidate) {
		var v any
		cause := json.Unmarshal(candidate, &v)
		return aggregates.Document{}, malformed("", cause)
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(candidate, &members); err != nil || members == nil {
		return aggregates.Document{}, incomplete("", "document is not an object")
	}

	for _, name := range requiredFields {
		raw, ok := members[name]
		if !ok || isFalsy(raw) {
			return aggregates.Document{}, incomplete(name, "missing or empty")
		}
	}

	var (
		projectName string
		nodes       []entities.Node
		edges       []entities.Edge
	)
	if err := json.Unmarshal(members["projectName"], &projectName); err != nil {
		return aggregates.Document{}, malformed("projectName", err)
	}
	if err := json.Unmarshal(members["nodes"], &nodes); err != nil {
		return aggregates.Document{}, malformed("nodes", err)
	}
	if err := json.Unmarshal(members["edges"], &edges); err != nil {
		return aggregates.Document{}, malformed("edges", err)
	}

	return aggregates.NewDocument(projectName, nodes, edges), nil
}

// ValidateValue applies the same rules to an in-memory document. A document
// that fails here would be rejected when read back.
func ValidateValue(doc aggregates.Document) error {
	if doc.ProjectName() == "" {
		return incomplete("projectName", "missing or empty")
	}
	return nil
}

// isFalsy reports whether a JSON value would fail a truthiness test:
// null, false, "", or zero.
func isFalsy(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "null", "false", `""`:
		return true
	}
	if f, err := strconv.ParseFloat(string(trimmed), 64); err == nil {
		return f == 0
	}
	return false
}

func malformed(field string, cause error) error {
	msg := "document is not valid JSON"
	if field != "" {
		msg = fmt.Sprintf("field %q has the wrong type", field)
	}
	return pkgerrors.NewValidationError(msg).
		WithCode(CodeMalformedDocument).
		WithDetails(map[string]any{"field": field}).
		WithCause(cause)
}

func incomplete(field, reason string) error {
	msg := reason
	if field != "" {
		msg = fmt.Sprintf("field %q is %s", field, reason)
	}
	return pkgerrors.NewValidationError(msg).
		WithCode(CodeIncompleteDocument).
		WithDetails(map[string]any{"field": field})
}
