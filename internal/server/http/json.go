package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError maps the error taxonomy onto status codes. Internal
// details never reach the client: anything unclassified becomes a generic 500,
// and unauthorized stays generic so the reason for a rejection is not
// observable.
func (s *Server) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorInvalidOperation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "please authenticate")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		s.logger.Error(ctx, "internal error", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrorValidation)
	}
	return nil
}
