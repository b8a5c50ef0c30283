package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"surveybuilder/internal/model"
)

type memorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemorySessionRepo keeps sessions in process memory. Used with the
// memory store and in tests.
func NewMemorySessionRepo() SessionRepo {
	return &memorySessionRepo{sessions: make(map[string][]byte)}
}

func (r *memorySessionRepo) Create(ctx context.Context, session *model.EditorSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; ok {
		return ErrSessionExists
	}
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	return r.put(session)
}

func (r *memorySessionRepo) GetByID(ctx context.Context, id string) (*model.EditorSession, error) {
	r.mu.RLock()
	data, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var session model.EditorSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *memorySessionRepo) Update(ctx context.Context, session *model.EditorSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.UpdatedAt = time.Now().UTC()
	return r.put(session)
}

func (r *memorySessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}

// put stores an encoded copy so callers never share state with the store.
func (r *memorySessionRepo) put(session *model.EditorSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	r.sessions[session.ID] = data
	return nil
}
