package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/coltranesx/Project-Area/pkg/utils"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
	"go.uber.org/zap"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 4 << 20

// base carries what every handler needs to answer a request
type base struct {
	errors *apperrors.ErrorHandler
	logger *zap.Logger
}

// decodeJSON reads a JSON body into dst
func (b base) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}

// decode reads a JSON body into the struct dst and validates it
func (b base) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := b.decodeJSON(w, r, dst); err != nil {
		return err
	}
	if err := utils.ValidateStruct(dst); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}

// respondJSON sends a JSON response
func (b base) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// respondError sends err through the shared error handler
func (b base) respondError(w http.ResponseWriter, r *http.Request, err error) {
	b.errors.Handle(w, r, err)
}
