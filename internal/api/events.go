package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"parallel/internal/calendar"
	"parallel/internal/common"
	"parallel/internal/model"
	"parallel/internal/session"
)

const dateLayout = "2006-01-02"

// createEvent stores the event for the pair and, when it carries a reminder
// time in the future, schedules the reminder for every participant.
func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	sess, err := pairSession(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req createEventRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	event, err := h.events.CreateEvent(r.Context(), calendar.EventInput{
		Title:          req.Title,
		Description:    req.Description,
		Type:           model.EventType(req.Type),
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		IsAllDay:       req.IsAllDay,
		IsRecurring:    req.IsRecurring,
		ReminderTime:   req.ReminderTime,
		CreatedBy:      sess.UserID,
		ParticipantIDs: []string{sess.UserID, sess.PartnerID},
		Color:          req.Color,
		Location:       req.Location,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := toEventResponse(event)
	if h.reminders != nil && event.ReminderTime != nil && event.ReminderTime.After(h.clock.Now()) {
		content := event.Description
		if content == "" {
			content = event.Title
		}
		handle, err := h.reminders.Schedule(r.Context(), *event.ReminderTime, common.NotificationPayload{
			Type:    common.EventReminderType,
			UserIDs: event.ParticipantIDs,
			Header:  event.Title,
			Content: content,
			Metadata: common.NotificationMetadata{
				"event_id":   event.ID,
				"event_type": string(event.Type),
			},
		})
		if err != nil {
			h.logger.WarnContext(r.Context(), "failed to schedule event reminder", "event", event.ID, "error", err)
		} else {
			resp.ReminderHandle = handle
		}
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) upcomingEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := pairSession(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := limitParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	events, err := h.events.Upcoming(r.Context(), sess.UserID, sess.PartnerID, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := toEventResponses(events)
	scheduler := h.events.Scheduler()
	now := h.clock.Now()
	for i, e := range events {
		days := scheduler.DaysUntil(e.StartDate, now)
		out[i].DaysUntil = &days
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) nextAnniversary(w http.ResponseWriter, r *http.Request) {
	sess, err := pairSession(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	event, err := h.events.NextAnniversary(r.Context(), sess.UserID, sess.PartnerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := toEventResponse(event)
	days := h.events.Scheduler().DaysUntil(event.StartDate, h.clock.Now())
	resp.DaysUntil = &days
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) dueReminders(w http.ResponseWriter, r *http.Request) {
	sess, err := pairSession(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	events, err := h.events.DueReminders(r.Context(), sess.UserID, sess.PartnerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(events))
}

// daysTogether counts calendar days since the date in ?since=YYYY-MM-DD,
// counting that first day as day one.
func (h *Handler) daysTogether(w http.ResponseWriter, r *http.Request) {
	scheduler := h.events.Scheduler()

	since, err := time.ParseInLocation(dateLayout, r.URL.Query().Get("since"), scheduler.Location())
	if err != nil {
		h.writeError(w, r, common.Validationf("since must be a date like 2024-02-14"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"days": scheduler.DaysTogether(since, h.clock.Now()),
	})
}

// eventsOn lists the pair's events starting on ?date=YYYY-MM-DD.
func (h *Handler) eventsOn(w http.ResponseWriter, r *http.Request) {
	sess, err := pairSession(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	scheduler := h.events.Scheduler()
	day, err := time.ParseInLocation(dateLayout, r.URL.Query().Get("date"), scheduler.Location())
	if err != nil {
		h.writeError(w, r, common.Validationf("date must be a date like 2024-02-14"))
		return
	}

	events, err := h.events.PairEvents(r.Context(), sess.UserID, sess.PartnerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(scheduler.EventsOn(events, day)))
}

func (h *Handler) listReminders(w http.ResponseWriter, r *http.Request) {
	if h.reminders == nil {
		writeMessage(w, http.StatusServiceUnavailable, "reminders are disabled")
		return
	}
	sess, err := session.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := limitParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	reminders, err := h.reminders.Reminders(r.Context(), sess.UserID, limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReminderResponses(reminders))
}

// cancelReminder withdraws a reminder the caller is a recipient of.
func (h *Handler) cancelReminder(w http.ResponseWriter, r *http.Request) {
	if h.reminders == nil {
		writeMessage(w, http.StatusServiceUnavailable, "reminders are disabled")
		return
	}
	sess, err := session.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.reminders.CancelFor(r.Context(), mux.Vars(r)["handle"], sess.UserID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
