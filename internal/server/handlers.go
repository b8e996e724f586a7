package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/alexisbeaulieu97/emuhud/internal/config"
	"github.com/alexisbeaulieu97/emuhud/internal/session"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

const maxBodyBytes = 4 << 20

// UpdateRequest is the body of POST /api/themes/{theme}/update. Data is not
// checked here: an undecodable envelope reaches the theme and shows as an
// error frame.
type UpdateRequest struct {
	Data    string `json:"data" validate:"required" jsonschema:"description=Base64 snapshot envelope"`
	Initial bool   `json:"initial,omitempty" jsonschema:"description=Set on the first update after the bridge attaches"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Uptime  string          `json:"uptime"`
	Clients int             `json:"clients"`
	Themes  []session.Stats `json:"themes"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var validationErr *emuerrors.ValidationError
	if errors.As(err, &validationErr) {
		resp.Error = validationErr.Message
		resp.Field = validationErr.Field
	}
	writeJSON(w, status, resp)
}

// decodeBody reads a JSON body into dst and validates it.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return emuerrors.NewValidationError("body", "invalid JSON body: "+err.Error(), err)
	}
	return config.ValidateStruct(dst)
}

func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	name := mux.Vars(r)["theme"]
	sess, ok := s.session(name)
	if !ok {
		writeError(w, http.StatusNotFound, emuerrors.NewThemeError(name, errors.New("theme not enabled")))
		return nil, false
	}
	return sess, true
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := sess.Submit(r.Context(), req.Data, req.Initial); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"queued": true})
}

func (s *Server) handleClosed(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	if err := sess.Close(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"queued": true})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	var action theme.Action
	if err := decodeBody(w, r, &action); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := sess.Act(r.Context(), action); err != nil {
		var validationErr *emuerrors.ValidationError
		if errors.As(err, &validationErr) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Frame())
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	if s.store != nil && sess.Stats().Ticks == 0 {
		if frame, found := s.storedFrame(r.Context(), sess.Theme()); found {
			writeJSON(w, http.StatusOK, frame)
			return
		}
	}
	writeJSON(w, http.StatusOK, sess.Frame())
}

// storedFrame serves the stored frame until the session has seen a tick of
// its own. Store failures fall back to the session frame.
func (s *Server) storedFrame(ctx context.Context, name string) (theme.Frame, bool) {
	frame, found, err := s.store.Latest(ctx, name)
	if err != nil {
		s.log.WithTheme(name).Error(err, "read stored frame")
		return theme.Frame{}, false
	}
	return frame, found
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	metas := make([]theme.Metadata, 0, len(s.sessions))
	for _, name := range s.themeNames() {
		if meta, ok := s.registry.Metadata(name); ok {
			metas = append(metas, meta)
		}
	}
	writeJSON(w, http.StatusOK, metas)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Clients: s.hub.Count(),
		Themes:  make([]session.Stats, 0, len(s.sessions)),
	}
	for _, sess := range s.sortedSessions() {
		resp.Themes = append(resp.Themes, sess.Stats())
	}
	writeJSON(w, http.StatusOK, resp)
}
