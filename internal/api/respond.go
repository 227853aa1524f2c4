package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"parallel/internal/common"
	"parallel/internal/session"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

var errNoPartner = errors.New("no partner paired with this account")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// StatusCode maps an engine error onto an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotAuthorized), errors.Is(err, errNoPartner):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidStateTransition), errors.Is(err, common.ErrAlreadyWrittenToday):
		return http.StatusConflict
	case errors.Is(err, common.ErrExpired):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusCode(err)
	if code >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeMessage(w, code, "internal error")
		return
	}
	writeMessage(w, code, err.Error())
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.Validationf("malformed request body: %v", err)
	}
	return nil
}

func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, common.Validationf("limit must be a non-negative integer")
	}
	if n > maxLimit {
		n = maxLimit
	}
	return n, nil
}

// pairSession returns the caller's session and requires a partner.
func pairSession(r *http.Request) (session.Session, error) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		return sess, err
	}
	if !sess.Paired() {
		return sess, errNoPartner
	}
	return sess, nil
}
