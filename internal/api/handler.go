// Package api is the HTTP surface of the engine. Every /api/v1 route runs as
// the session user carried by the bearer token.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"parallel/internal/calendar"
	chat "parallel/internal/chat/service"
	"parallel/internal/common"
	"parallel/internal/config"
	"parallel/internal/diary"
	"parallel/internal/location"
	"parallel/internal/metrics"
	"parallel/internal/model"
)

// PositionPublisher pushes fresh location fixes to the partner's devices.
type PositionPublisher interface {
	PublishLocation(ctx context.Context, share *model.LocationShare, active bool) error
}

// ReminderService schedules event reminders and lets their recipients list
// and cancel them.
type ReminderService interface {
	common.NotificationScheduler
	CancelFor(ctx context.Context, handle, userID string) error
	Reminders(ctx context.Context, userID string, limit, offset int) ([]*common.Reminder, error)
}

// Deps lists everything the handler needs. Reminders and Positions may be nil.
type Deps struct {
	Config    *config.Config
	Chat      chat.ChatService
	Diary     diary.DiaryService
	Location  location.LocationService
	Events    calendar.EventService
	Reminders ReminderService
	Positions PositionPublisher
	Metrics   *metrics.Recorder
	Clock     common.Clock
	Logger    *slog.Logger
}

type Handler struct {
	chat      chat.ChatService
	diary     diary.DiaryService
	location  location.LocationService
	events    calendar.EventService
	reminders ReminderService
	positions PositionPublisher
	metrics   *metrics.Recorder
	clock     common.Clock
	secret    []byte
	logger    *slog.Logger
	router    *mux.Router
}

func NewHandler(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rec := deps.Metrics
	if rec == nil {
		rec = metrics.NewRecorder()
	}

	clock := deps.Clock
	if clock == nil {
		clock = common.SystemClock
	}

	var secret []byte
	if deps.Config != nil {
		secret = []byte(deps.Config.Auth.JWTSecret)
	}

	h := &Handler{
		chat:      deps.Chat,
		diary:     deps.Diary,
		location:  deps.Location,
		events:    deps.Events,
		reminders: deps.Reminders,
		positions: deps.Positions,
		metrics:   rec,
		clock:     clock,
		secret:    secret,
		logger:    logger,
	}
	h.router = h.routes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.recoverer, h.observe, cors)

	r.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Use(h.authenticate)

	v1.HandleFunc("/messages", h.createMessage).Methods(http.MethodPost)
	v1.HandleFunc("/messages", h.messageHistory).Methods(http.MethodGet)
	v1.HandleFunc("/messages/miss-you", h.missYou).Methods(http.MethodPost)
	v1.HandleFunc("/messages/{id}", h.getMessage).Methods(http.MethodGet)
	v1.HandleFunc("/messages/{id}/send", h.sendMessage).Methods(http.MethodPost)
	v1.HandleFunc("/messages/{id}/status", h.advanceMessage).Methods(http.MethodPut)

	v1.HandleFunc("/diary", h.startEntry).Methods(http.MethodPost)
	v1.HandleFunc("/diary", h.diaryEntries).Methods(http.MethodGet)
	v1.HandleFunc("/diary/status", h.diaryStatus).Methods(http.MethodGet)
	v1.HandleFunc("/diary/{id}", h.getEntry).Methods(http.MethodGet)
	v1.HandleFunc("/diary/{id}/images", h.addImage).Methods(http.MethodPost)
	v1.HandleFunc("/diary/{id}/lock", h.lockEntry).Methods(http.MethodPost)
	v1.HandleFunc("/diary/{id}/share", h.shareEntry).Methods(http.MethodPost)
	v1.HandleFunc("/diary/{id}/read", h.readEntry).Methods(http.MethodPost)

	v1.HandleFunc("/location", h.startSharing).Methods(http.MethodPost)
	v1.HandleFunc("/location", h.myLocation).Methods(http.MethodGet)
	v1.HandleFunc("/location", h.revokeSharing).Methods(http.MethodDelete)
	v1.HandleFunc("/location/position", h.updatePosition).Methods(http.MethodPut)
	v1.HandleFunc("/location/duration", h.changeDuration).Methods(http.MethodPut)
	v1.HandleFunc("/location/partner", h.partnerLocation).Methods(http.MethodGet)

	v1.HandleFunc("/events", h.createEvent).Methods(http.MethodPost)
	v1.HandleFunc("/events/upcoming", h.upcomingEvents).Methods(http.MethodGet)
	v1.HandleFunc("/events/anniversary", h.nextAnniversary).Methods(http.MethodGet)
	v1.HandleFunc("/events/reminders", h.dueReminders).Methods(http.MethodGet)
	v1.HandleFunc("/events/days-together", h.daysTogether).Methods(http.MethodGet)
	v1.HandleFunc("/events/on", h.eventsOn).Methods(http.MethodGet)
	v1.HandleFunc("/reminders", h.listReminders).Methods(http.MethodGet)
	v1.HandleFunc("/reminders/{handle}", h.cancelReminder).Methods(http.MethodDelete)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
