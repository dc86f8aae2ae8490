package handler

import (
	"encoding/json"
	"net/http"
)

// Bulk endpoints act on the whole loaded period. Each one requires an
// explicit confirm flag in the body; the browser-side confirmation dialog
// sets it, so a bare request is rejected before touching the store.

func (h *Handler) requireConfirm(w http.ResponseWriter, r *http.Request) bool {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Confirm {
		writeNotice(w, http.StatusBadRequest, "confirm", "Operação em massa requer confirmação.")
		return false
	}
	return true
}

// ZeroPrices resets every unit price of the period to zero.
func (h *Handler) ZeroPrices(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)
	if !h.requireConfirm(w, r) {
		return
	}
	if err := s.ZeroPrices(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"view": s.View()})
}

// DeleteMonth removes every item of the period.
func (h *Handler) DeleteMonth(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)
	if !h.requireConfirm(w, r) {
		return
	}
	if err := s.DeleteMonth(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"view": s.View()})
}

// RestoreMonth brings soft-deleted items of the period back.
func (h *Handler) RestoreMonth(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)
	if !h.requireConfirm(w, r) {
		return
	}
	count, err := s.RestoreMonth(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"restored": count, "view": s.View()})
}

// CopyToNextMonth duplicates the period's items into the next month.
func (h *Handler) CopyToNextMonth(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)
	if !h.requireConfirm(w, r) {
		return
	}
	count, next, err := s.CopyToNextMonth(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"copied":      count,
		"period_name": next.Name,
	})
}

// SoftDeletedCount reports how many items of the period could be restored.
func (h *Handler) SoftDeletedCount(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)
	v := s.View()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":       v.SoftDeleted,
		"can_restore": v.CanRestoreMonth,
	})
}
