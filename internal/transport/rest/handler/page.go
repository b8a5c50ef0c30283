package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"surveybuilder/internal/editor"
	"surveybuilder/internal/model"
	"surveybuilder/internal/service"
	"surveybuilder/internal/transport/rest/middleware"
)

// PageHandler serves the HTML editor. Every button posts the whole form with
// an action value; the server applies it and redirects back to the page.
type PageHandler struct {
	editorSvc *service.EditorService
	authSvc   *service.AuthService
	secure    bool
	logger    *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(editorSvc *service.EditorService, authSvc *service.AuthService, secure bool, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		editorSvc: editorSvc,
		authSvc:   authSvc,
		secure:    secure,
		logger:    logger,
	}
}

// SubmitResponse is returned when the editor form is submitted
type SubmitResponse struct {
	SessionID string       `json:"sessionId"`
	Survey    model.Survey `json:"survey"`
	Form      string       `json:"form"`
}

// New handles GET / by opening a fresh session
func (h *PageHandler) New(w http.ResponseWriter, r *http.Request) {
	session, err := h.editorSvc.Create(r.Context())
	if err != nil {
		h.logger.Error("create editor session", zap.Error(err))
		http.Error(w, "failed to create editor", http.StatusInternalServerError)
		return
	}
	token, err := h.authSvc.IssueEditorToken(session.ID)
	if err != nil {
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}
	h.setTokenCookie(w, session.ID, token)
	http.Redirect(w, r, editorPath(session.ID), http.StatusSeeOther)
}

// Show handles GET /editor/{id}
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	e, err := h.editorSvc.Editor(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	// a token passed in the link is moved into the cookie
	if token := r.URL.Query().Get("token"); token != "" {
		h.setTokenCookie(w, id, token)
	}

	var buf bytes.Buffer
	if err := editor.Render(&buf, editor.BuildView(e, id, editorPath(id))); err != nil {
		h.logger.Error("render editor", zap.String("session", id), zap.Error(err))
		http.Error(w, "failed to render editor", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Questions handles GET /editor/{id}/questions and returns only the question
// container, for pages refreshing after an editor_updated event
func (h *PageHandler) Questions(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	e, err := h.editorSvc.Editor(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	var buf bytes.Buffer
	if err := editor.RenderQuestions(&buf, editor.BuildView(e, id, editorPath(id))); err != nil {
		h.logger.Error("render questions", zap.String("session", id), zap.Error(err))
		http.Error(w, "failed to render questions", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Post handles POST /editor/{id}
func (h *PageHandler) Post(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	action := r.PostForm.Get(editor.FieldAction)
	if action == "" {
		action = string(editor.ActionSave)
	}
	cmd, err := editor.ParseCommand(action)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := editor.Decode(r.PostForm)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if _, err := h.editorSvc.ApplyForm(r.Context(), id, e, cmd); err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			h.logger.Error("store editor form", zap.String("session", id), zap.Error(err))
		}
		http.Error(w, err.Error(), code)
		return
	}

	if cmd.Action == editor.ActionSubmit {
		h.logger.Info("editor submitted", zap.String("session", id), zap.Int("questions", e.Len()))
		writeJSON(w, http.StatusOK, SubmitResponse{
			SessionID: id,
			Survey:    editor.Submission(e),
			Form:      editor.Encode(e).Encode(),
		})
		return
	}
	http.Redirect(w, r, editorPath(id), http.StatusSeeOther)
}

func (h *PageHandler) setTokenCookie(w http.ResponseWriter, sessionID, token string) {
	cookie := &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     editorPath(sessionID),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if claims, err := h.authSvc.ValidateEditorToken(token); err == nil && claims.ExpiresAt != nil {
		cookie.Expires = claims.ExpiresAt.Time
		cookie.MaxAge = int(time.Until(claims.ExpiresAt.Time).Seconds())
	}
	http.SetCookie(w, cookie)
}

func editorPath(id string) string {
	return "/editor/" + id
}
