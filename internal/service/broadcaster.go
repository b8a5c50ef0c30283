package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
}

// Message types pushed to editor subscribers
const (
	MsgEditorUpdated = "editor_updated"
	MsgEditorDeleted = "editor_deleted"
)
