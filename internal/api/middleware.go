package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"parallel/internal/common"
	"parallel/internal/session"
)

// authenticate turns "Authorization: Bearer <jwt>" into a session.Session.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Fields(r.Header.Get("Authorization"))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeMessage(w, http.StatusUnauthorized, "authorization required")
			return
		}

		claims, err := common.ValidToken(h.secret, parts[1])
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := session.WithSession(r.Context(), session.Session{
			UserID:    claims.UserID,
			PartnerID: claims.PartnerID,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// observe logs each request and feeds the HTTP metrics, labelled by route
// template so ids do not explode cardinality.
func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		elapsed := time.Since(start)
		h.metrics.ObserveRequest(route, r.Method, rec.status, elapsed)
		h.logger.DebugContext(r.Context(), "request",
			"method", r.Method, "route", route, "status", rec.status, "elapsed", elapsed)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				h.logger.ErrorContext(r.Context(), "handler panic", "path", r.URL.Path, "panic", v)
				writeMessage(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
