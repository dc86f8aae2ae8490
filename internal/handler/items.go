package handler

import (
	"encoding/json"
	"net/http"

	"listinha/internal/session"
)

// SubmitItem handles the full form: create when the payload has no id,
// wholesale edit when it does.
func (h *Handler) SubmitItem(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)

	var req session.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeNotice(w, http.StatusBadRequest, "validation", "JSON inválido.")
		return
	}

	item, err := s.SubmitItem(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"item": item, "view": s.View()})
}

// PatchItem commits a single inline-edited cell.
func (h *Handler) PatchItem(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)
	id := r.PathValue("id")

	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeNotice(w, http.StatusBadRequest, "validation", "JSON inválido.")
		return
	}

	item, err := s.CommitInlineEdit(r.Context(), id, req.Field, req.Value)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item, "view": s.View()})
}

// ToggleItem flips an item between pending and bought.
func (h *Handler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)

	item, err := s.ToggleStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item, "view": s.View()})
}

// DeleteItem removes one item from the list.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)

	if err := s.DeleteItem(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"view": s.View()})
}
