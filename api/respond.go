package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// handlerFunc is an http.HandlerFunc that reports failures by returning them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) handle(h handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.renderError(w, r, err)
		}
	})
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	he := toHTTPError(err)
	if he.Status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "status", he.Status, "error", err)
	} else if he.Err != nil {
		s.logger.DebugContext(r.Context(), "request rejected",
			"method", r.Method, "path", r.URL.Path, "status", he.Status, "error", he.Err)
	}

	var body errorBody
	body.Error.Message = he.Message
	body.Error.Status = he.Status
	s.writeJSON(w, he.Status, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("api: encode response", "error", err)
	}
}

// decodeJSON decodes a single JSON object from the request body into dst.
// Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errMissingData
		}
		return &Error{Status: http.StatusBadRequest, Message: "Invalid JSON body: " + err.Error(), Err: err}
	}
	if dec.More() {
		return errorf(http.StatusBadRequest, "Invalid JSON body: trailing data")
	}
	return nil
}

// message is the body of delete responses.
type message struct {
	Message string `json:"message"`
}
