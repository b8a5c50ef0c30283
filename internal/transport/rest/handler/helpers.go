package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"surveybuilder/internal/editor"
	"surveybuilder/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// statusFor maps service and editor errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, editor.ErrQuestionNotFound),
		errors.Is(err, editor.ErrOptionNotFound):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrNotChoiceType),
		errors.Is(err, editor.ErrUnknownType),
		errors.Is(err, editor.ErrInvalidLimit),
		errors.Is(err, editor.ErrUnknownCommand),
		errors.Is(err, editor.ErrDuplicateIndex):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func intVar(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}
