// Package handler exposes the session engine over HTTP. Every route resolves
// the caller's session from a cookie, invokes one session operation, and
// answers with JSON. Expected failures (validation, duplicates, store errors)
// map to a notice payload the client shows as a transient banner.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"listinha/internal/session"
)

const (
	sessionCookie = "listinha_sid"
	nameCookie    = "collaborator_name"
	themeCookie   = "theme"
	cursorCookie  = "cursor_month"
)

type Handler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

func New(sessions *session.Manager, logger *slog.Logger) *Handler {
	return &Handler{sessions: sessions, logger: logger}
}

// notice is a user-facing transient message.
type notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeNotice(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, map[string]any{"notice": notice{Kind: kind, Message: message}})
}

// writeError maps session errors onto HTTP responses. Anything not
// recognized is a store failure: the client keeps its state and shows a
// retry notice.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *session.ValidationError
	var dErr *session.DuplicateError
	switch {
	case errors.As(err, &vErr):
		writeNotice(w, http.StatusUnprocessableEntity, "validation", vErr.Message)
	case errors.As(err, &dErr):
		writeNotice(w, http.StatusUnprocessableEntity, "duplicate", dErr.Error())
	case errors.Is(err, session.ErrEditInFlight):
		writeNotice(w, http.StatusConflict, "busy", "Salvando, aguarde.")
	case errors.Is(err, session.ErrNotFound):
		writeNotice(w, http.StatusNotFound, "not_found", "Item não encontrado.")
	case errors.Is(err, session.ErrNoPeriod):
		writeNotice(w, http.StatusConflict, "no_period", "Nenhum período carregado.")
	default:
		h.logger.Error("operation failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeNotice(w, http.StatusBadGateway, "store", "Falha ao salvar. Tente novamente.")
	}
}

// resolveSession finds or creates the caller's session. New sessions are
// seeded from the preference cookies so a returning browser keeps its name,
// theme, and month across restarts.
func (h *Handler) resolveSession(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}
	s, newID := h.sessions.Get(id, session.Prefs{
		CollaboratorName: cookieValue(r, nameCookie),
		Theme:            cookieValue(r, themeCookie),
		CursorMonth:      cookieValue(r, cursorCookie),
	})
	if newID != id {
		setCookie(w, sessionCookie, newID)
	}
	return s
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return c.Value
	}
	return v
}

func setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		Expires:  time.Now().AddDate(1, 0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// syncPrefCookies mirrors the session preferences back to the browser.
func (h *Handler) syncPrefCookies(w http.ResponseWriter, s *session.Session) {
	setCookie(w, nameCookie, s.CollaboratorName())
	setCookie(w, themeCookie, s.Theme())
	setCookie(w, cursorCookie, s.CursorMonthKey())
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// View loads (or reloads) the cursor month and returns the full render
// payload.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)
	if err := s.Refresh(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.syncPrefCookies(w, s)
	writeJSON(w, http.StatusOK, s.View())
}

// Analytics returns the chart series for the loaded period.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)
	a, err := s.ComputeAnalytics(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
