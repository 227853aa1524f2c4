package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"parallel/internal/common"
	"parallel/internal/model"
	"parallel/internal/session"
)

func (h *Handler) createMessage(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req createMessageRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.RecipientID == "" {
		if !sess.Paired() {
			h.writeError(w, r, errNoPartner)
			return
		}
		req.RecipientID = sess.PartnerID
	}
	if req.Type == "" {
		req.Type = string(model.MessageTypeText)
	}

	msg, err := h.chat.CreateMessage(r.Context(), sess.UserID, req.RecipientID, req.Content, model.MessageType(req.Type), req.Media)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if req.Send {
		if msg, err = h.chat.Send(r.Context(), msg); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, toMessageResponse(msg))
}

func (h *Handler) missYou(w http.ResponseWriter, r *http.Request) {
	sess, err := pairSession(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	msg, err := h.chat.SendMissYou(r.Context(), sess.UserID, sess.PartnerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if msg, err = h.chat.Send(r.Context(), msg); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMessageResponse(msg))
}

func (h *Handler) messageHistory(w http.ResponseWriter, r *http.Request) {
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

	msgs, err := h.chat.GetMessageHistory(r.Context(), sess.UserID, sess.PartnerID, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]messageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = toMessageResponse(m)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getMessage(w http.ResponseWriter, r *http.Request) {
	msg, _, err := h.participantMessage(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMessageResponse(msg))
}

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	msg, sess, err := h.participantMessage(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if msg.SenderID != sess.UserID {
		h.writeError(w, r, common.ErrNotAuthorized)
		return
	}

	sent, err := h.chat.Send(r.Context(), msg)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMessageResponse(sent))
}

// advanceMessage records a status change. Receipts past sent come from the
// recipient only.
func (h *Handler) advanceMessage(w http.ResponseWriter, r *http.Request) {
	msg, sess, err := h.participantMessage(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req statusRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	target := model.MessageStatus(req.Status)
	if target.After(model.MessageStatusSent) && sess.UserID != msg.RecipientID {
		h.writeError(w, r, fmt.Errorf("only the recipient confirms %s: %w", target, common.ErrNotAuthorized))
		return
	}

	updated, err := h.chat.Advance(r.Context(), msg, target)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMessageResponse(updated))
}

// participantMessage loads the message named in the path and checks the caller
// is one of its two ends.
func (h *Handler) participantMessage(r *http.Request) (*model.Message, session.Session, error) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		return nil, sess, err
	}

	msg, err := h.chat.GetMessage(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		return nil, sess, err
	}
	if msg.SenderID != sess.UserID && msg.RecipientID != sess.UserID {
		return nil, sess, common.ErrNotAuthorized
	}
	return msg, sess, nil
}
