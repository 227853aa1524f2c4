package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"parallel/internal/common"
	"parallel/internal/model"
	"parallel/internal/session"
)

func (h *Handler) startEntry(w http.ResponseWriter, r *http.Request) {
	sess, err := pairSession(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req startEntryRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	entry, err := h.diary.StartEntry(r.Context(), sess.UserID, sess.PartnerID, req.Title, req.Content, req.Weather, req.Mood, req.CoverStyle)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDiaryResponse(entry, sess.UserID))
}

func (h *Handler) diaryEntries(w http.ResponseWriter, r *http.Request) {
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

	entries, err := h.diary.Entries(r.Context(), sess.UserID, sess.PartnerID, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]diaryResponse, len(entries))
	for i, e := range entries {
		out[i] = toDiaryResponse(e, sess.UserID)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) diaryStatus(w http.ResponseWriter, r *http.Request) {
	sess, err := pairSession(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	text, err := h.diary.StatusText(r.Context(), sess.UserID, sess.PartnerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	canWrite, err := h.diary.CanAuthorWriteToday(r.Context(), sess.UserID, sess.PartnerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          text,
		"can_write_today": canWrite,
	})
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	entry, sess, err := h.participantEntry(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDiaryResponse(entry, sess.UserID))
}

func (h *Handler) addImage(w http.ResponseWriter, r *http.Request) {
	entry, sess, err := h.authoredEntry(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req imageRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	updated, err := h.diary.AddImage(r.Context(), entry, req.Image)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDiaryResponse(updated, sess.UserID))
}

func (h *Handler) lockEntry(w http.ResponseWriter, r *http.Request) {
	entry, sess, err := h.authoredEntry(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	updated, err := h.diary.Lock(r.Context(), entry)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDiaryResponse(updated, sess.UserID))
}

func (h *Handler) shareEntry(w http.ResponseWriter, r *http.Request) {
	entry, sess, err := h.authoredEntry(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	updated, err := h.diary.Share(r.Context(), entry)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDiaryResponse(updated, sess.UserID))
}

// readEntry leaves the reader check to the engine so a wrong reader gets 403
// whatever the entry's state.
func (h *Handler) readEntry(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	entry, err := h.diary.GetEntry(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	updated, err := h.diary.MarkRead(r.Context(), entry, sess.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDiaryResponse(updated, sess.UserID))
}

func (h *Handler) participantEntry(r *http.Request) (*model.DiaryEntry, session.Session, error) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		return nil, sess, err
	}

	entry, err := h.diary.GetEntry(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		return nil, sess, err
	}
	if entry.AuthorID != sess.UserID && entry.RecipientID != sess.UserID {
		return nil, sess, common.ErrNotAuthorized
	}
	return entry, sess, nil
}

func (h *Handler) authoredEntry(r *http.Request) (*model.DiaryEntry, session.Session, error) {
	entry, sess, err := h.participantEntry(r)
	if err != nil {
		return nil, sess, err
	}
	if entry.AuthorID != sess.UserID {
		return nil, sess, common.ErrNotAuthorized
	}
	return entry, sess, nil
}
