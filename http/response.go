package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tollgate/tollgate"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError writes a JSON error body with the given status code.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// HandleError translates err into an HTTP error response. Tagged errors
// carry their own status; anything else is reported as an internal error
// without leaking detail to the client.
func HandleError(w http.ResponseWriter, err error) {
	var terr *tollgate.Error
	if errors.As(err, &terr) {
		if terr.Kind == tollgate.KindUpstream {
			slog.Error("upstream error", "status", terr.Status(), "error", err)
		}
		WriteError(w, terr.Status(), terr.Message)
		return
	}
	slog.Error("unhandled error", "error", err)
	WriteError(w, http.StatusInternalServerError, "internal server error")
}
