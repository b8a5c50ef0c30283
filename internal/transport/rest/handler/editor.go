package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"surveybuilder/internal/editor"
	"surveybuilder/internal/model"
	"surveybuilder/internal/service"
)

// EditorHandler handles the JSON editor API
type EditorHandler struct {
	editorSvc *service.EditorService
	authSvc   *service.AuthService
	publicURL string
	logger    *zap.Logger
}

// NewEditorHandler creates a new editor handler
func NewEditorHandler(editorSvc *service.EditorService, authSvc *service.AuthService, publicURL string, logger *zap.Logger) *EditorHandler {
	return &EditorHandler{
		editorSvc: editorSvc,
		authSvc:   authSvc,
		publicURL: publicURL,
		logger:    logger,
	}
}

// UpdateQuestionRequest edits question fields; nil fields are left alone
type UpdateQuestionRequest struct {
	Text     *string `json:"text,omitempty"`
	Required *bool   `json:"required,omitempty"`
}

// SetTypeRequest is the body of PUT .../type
type SetTypeRequest struct {
	Type model.QuestionType `json:"type"`
}

// SetLimitRequest is the body of PUT .../limit
type SetLimitRequest struct {
	Limit int `json:"limit"`
}

// SetOptionRequest is the body of PUT .../options/{pos}
type SetOptionRequest struct {
	Value string `json:"value"`
}

// Create handles POST /v1/editors
func (h *EditorHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, err := h.editorSvc.Create(r.Context())
	if err != nil {
		h.logger.Error("create editor session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	token, err := h.authSvc.IssueEditorToken(session.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, model.CreateEditorResponse{
		SessionID: session.ID,
		Token:     token,
		EditorURL: h.publicURL + "/editor/" + session.ID + "?token=" + token,
	})
}

// Get handles GET /v1/editors/{id}
func (h *EditorHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.editorSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Delete handles DELETE /v1/editors/{id}
func (h *EditorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.editorSvc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateDraft handles PUT /v1/editors/{id}/draft
func (h *EditorHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req model.Draft
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.apply(w, r, http.StatusOK, func(e *editor.Editor) error {
		e.SetDraft(req)
		return nil
	})
}

// AddQuestion handles POST /v1/editors/{id}/questions
func (h *EditorHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	var index int
	session, err := h.editorSvc.Apply(r.Context(), mux.Vars(r)["id"], func(e *editor.Editor) error {
		index = e.AddQuestion()
		return nil
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"index":   index,
		"session": session,
	})
}

// UpdateQuestion handles PUT /v1/editors/{id}/questions/{index}
func (h *EditorHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	index, err := intVar(r, "index")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req UpdateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.apply(w, r, http.StatusOK, func(e *editor.Editor) error {
		if req.Text != nil {
			if err := e.SetText(index, *req.Text); err != nil {
				return err
			}
		}
		if req.Required != nil {
			return e.SetRequired(index, *req.Required)
		}
		_, err := e.Question(index)
		return err
	})
}

// RemoveQuestion handles DELETE /v1/editors/{id}/questions/{index}
func (h *EditorHandler) RemoveQuestion(w http.ResponseWriter, r *http.Request) {
	index, err := intVar(r, "index")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.apply(w, r, http.StatusOK, func(e *editor.Editor) error {
		return e.RemoveQuestion(index)
	})
}

// SetType handles PUT /v1/editors/{id}/questions/{index}/type
func (h *EditorHandler) SetType(w http.ResponseWriter, r *http.Request) {
	index, err := intVar(r, "index")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req SetTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.apply(w, r, http.StatusOK, func(e *editor.Editor) error {
		return e.SetQuestionType(index, req.Type)
	})
}

// SetLimit handles PUT /v1/editors/{id}/questions/{index}/limit
func (h *EditorHandler) SetLimit(w http.ResponseWriter, r *http.Request) {
	index, err := intVar(r, "index")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req SetLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.apply(w, r, http.StatusOK, func(e *editor.Editor) error {
		return e.SetLimit(index, req.Limit)
	})
}

// AddOption handles POST /v1/editors/{id}/questions/{index}/options
func (h *EditorHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	index, err := intVar(r, "index")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.apply(w, r, http.StatusCreated, func(e *editor.Editor) error {
		return e.AddOption(index)
	})
}

// SetOption handles PUT /v1/editors/{id}/questions/{index}/options/{pos}
func (h *EditorHandler) SetOption(w http.ResponseWriter, r *http.Request) {
	index, err := intVar(r, "index")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pos, err := intVar(r, "pos")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req SetOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.apply(w, r, http.StatusOK, func(e *editor.Editor) error {
		return e.SetOption(index, pos, req.Value)
	})
}

// RemoveOption handles DELETE /v1/editors/{id}/questions/{index}/options/{pos}
func (h *EditorHandler) RemoveOption(w http.ResponseWriter, r *http.Request) {
	index, err := intVar(r, "index")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pos, err := intVar(r, "pos")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.apply(w, r, http.StatusOK, func(e *editor.Editor) error {
		return e.RemoveOption(index, pos)
	})
}

// Form handles GET /v1/editors/{id}/form and returns the url-encoded body
// the editor page would submit
func (h *EditorHandler) Form(w http.ResponseWriter, r *http.Request) {
	e, err := h.editorSvc.Editor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(editor.Encode(e).Encode()))
}

// Submission handles GET /v1/editors/{id}/submission
func (h *EditorHandler) Submission(w http.ResponseWriter, r *http.Request) {
	e, err := h.editorSvc.Editor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, editor.Submission(e))
}

func (h *EditorHandler) apply(w http.ResponseWriter, r *http.Request, status int, fn func(e *editor.Editor) error) {
	session, err := h.editorSvc.Apply(r.Context(), mux.Vars(r)["id"], fn)
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			h.logger.Error("apply editor change", zap.String("session", mux.Vars(r)["id"]), zap.Error(err))
		}
		writeError(w, code, err.Error())
		return
	}
	writeJSON(w, status, session)
}
