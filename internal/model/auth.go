package model

import "github.com/golang-jwt/jwt/v5"

// EditorClaims are JWT claims scoping a token to one editor session
type EditorClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// CreateEditorResponse is returned after a session is opened
type CreateEditorResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
	EditorURL string `json:"editorUrl"`
}
