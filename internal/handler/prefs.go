package handler

import (
	"encoding/json"
	"net/http"

	"listinha/internal/derive"
)

// SetName records the collaborator identity for the session.
func (h *Handler) SetName(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeNotice(w, http.StatusBadRequest, "validation", "JSON inválido.")
		return
	}
	if err := s.SetCollaboratorName(req.Name); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.syncPrefCookies(w, s)
	writeJSON(w, http.StatusOK, map[string]string{"name": s.CollaboratorName()})
}

// UpdatePrefs changes display preferences, currently just the theme.
func (h *Handler) UpdatePrefs(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)

	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeNotice(w, http.StatusBadRequest, "validation", "JSON inválido.")
		return
	}
	if err := s.SetTheme(req.Theme); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.syncPrefCookies(w, s)
	writeJSON(w, http.StatusOK, map[string]string{"theme": s.Theme()})
}

// PrevMonth and NextMonth move the period cursor and return the reloaded view.

func (h *Handler) PrevMonth(w http.ResponseWriter, r *http.Request) {
	h.moveMonth(w, r, -1)
}

func (h *Handler) NextMonth(w http.ResponseWriter, r *http.Request) {
	h.moveMonth(w, r, 1)
}

func (h *Handler) moveMonth(w http.ResponseWriter, r *http.Request, delta int) {
	s := h.resolveSession(w, r)
	if err := s.MoveMonth(r.Context(), delta); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.syncPrefCookies(w, s)
	writeJSON(w, http.StatusOK, s.View())
}

// SetFilters updates the filter and sort state and returns the re-derived
// view without touching the store.
func (h *Handler) SetFilters(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)

	var req struct {
		Status       string `json:"status"`
		Collaborator string `json:"collaborator"`
		Search       string `json:"search"`
		Sort         string `json:"sort"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeNotice(w, http.StatusBadRequest, "validation", "JSON inválido.")
		return
	}
	s.SetFilters(derive.Filters{
		Status:       req.Status,
		Collaborator: req.Collaborator,
		Search:       req.Search,
	}, derive.SortKey(req.Sort))
	writeJSON(w, http.StatusOK, s.View())
}
