package api

import (
	"context"
	"net/http"

	"parallel/internal/common"
	"parallel/internal/model"
	"parallel/internal/session"
)

func (h *Handler) startSharing(w http.ResponseWriter, r *http.Request) {
	sess, err := pairSession(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req positionRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Duration == "" {
		req.Duration = string(model.SharingOneHour)
	}

	share, err := h.location.StartSharing(r.Context(), sess.UserID, sess.PartnerID, req.coordinates(), req.Accuracy, req.BatteryLevel, model.SharingDuration(req.Duration))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondShare(w, r, http.StatusCreated, share)
}

func (h *Handler) myLocation(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	share, active, err := h.location.Current(r.Context(), sess.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLocationResponse(share, active))
}

func (h *Handler) updatePosition(w http.ResponseWriter, r *http.Request) {
	share, err := h.ownShare(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req positionRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	updated, err := h.location.UpdatePosition(r.Context(), share, req.coordinates(), req.Accuracy, req.BatteryLevel)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondShare(w, r, http.StatusOK, updated)
}

func (h *Handler) changeDuration(w http.ResponseWriter, r *http.Request) {
	share, err := h.ownShare(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req durationRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	updated, err := h.location.ChangeDuration(r.Context(), share, model.SharingDuration(req.Duration))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondShare(w, r, http.StatusOK, updated)
}

func (h *Handler) revokeSharing(w http.ResponseWriter, r *http.Request) {
	share, err := h.ownShare(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	updated, err := h.location.Revoke(r.Context(), share)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondShare(w, r, http.StatusOK, updated)
}

// partnerLocation shows the partner's latest fix. Coordinates of a share that
// is no longer active are withheld.
func (h *Handler) partnerLocation(w http.ResponseWriter, r *http.Request) {
	sess, err := pairSession(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	share, active, err := h.location.Current(r.Context(), sess.PartnerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if share.PartnerID != sess.UserID {
		h.writeError(w, r, common.ErrNotAuthorized)
		return
	}

	resp := toLocationResponse(share, active)
	if !active {
		resp.Latitude, resp.Longitude, resp.Accuracy, resp.BatteryLevel = 0, 0, 0, nil
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ownShare(r *http.Request) (*model.LocationShare, error) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		return nil, err
	}
	share, _, err := h.location.Current(r.Context(), sess.UserID)
	return share, err
}

// respondShare writes the share and pushes it to the partner. A failed push
// does not fail the request.
func (h *Handler) respondShare(w http.ResponseWriter, r *http.Request, status int, share *model.LocationShare) {
	active := h.location.IsActive(share)
	if h.positions != nil {
		ctx := context.WithoutCancel(r.Context())
		if err := h.positions.PublishLocation(ctx, share, active); err != nil {
			h.logger.WarnContext(ctx, "failed to push location", "user", share.UserID, "error", err)
		}
	}
	writeJSON(w, status, toLocationResponse(share, active))
}
