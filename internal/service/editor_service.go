package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"surveybuilder/internal/cache"
	"surveybuilder/internal/editor"
	"surveybuilder/internal/model"
	"surveybuilder/internal/repository"
)

var ErrSessionNotFound = errors.New("editor session not found")

// EditorService loads, mutates and stores editor sessions. The repository is
// the source of truth; the cache is optional and written through.
type EditorService struct {
	sessionRepo repository.SessionRepo
	editorCache cache.EditorCache
	broadcaster Broadcaster
	logger      *zap.Logger

	// TODO: switch to a redis lock once the server runs with more than one replica.
	// Entries outlive Delete: a caller may still be queued on the mutex.
	locks sync.Map // session id -> *sync.Mutex
}

// NewEditorService creates a new editor service. editorCache may be nil.
func NewEditorService(sessionRepo repository.SessionRepo, editorCache cache.EditorCache, logger *zap.Logger) *EditorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditorService{
		sessionRepo: sessionRepo,
		editorCache: editorCache,
		logger:      logger,
	}
}

// SetBroadcaster injects the websocket hub
func (s *EditorService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create opens an empty editor session
func (s *EditorService) Create(ctx context.Context) (*model.EditorSession, error) {
	session := &model.EditorSession{ID: uuid.New().String()}
	editor.New().Export(session)

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.cacheSet(ctx, session)
	s.logger.Info("editor session created", zap.String("session", session.ID))
	return session, nil
}

// Get returns a session, reading through the cache
func (s *EditorService) Get(ctx context.Context, id string) (*model.EditorSession, error) {
	if s.editorCache != nil {
		session, err := s.editorCache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("editor cache read failed", zap.String("session", id), zap.Error(err))
		}
		if session != nil {
			return session, nil
		}
	}

	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	s.cacheSet(ctx, session)
	return session, nil
}

// Editor restores the editor model of a session
func (s *EditorService) Editor(ctx context.Context, id string) (*editor.Editor, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return editor.FromSession(session)
}

// Apply runs fn against the session's editor and stores the result. Calls on
// the same session are serialized. Nothing is stored when fn fails.
func (s *EditorService) Apply(ctx context.Context, id string, fn func(e *editor.Editor) error) (*model.EditorSession, error) {
	unlock := s.lock(id)
	defer unlock()

	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	e, err := editor.FromSession(session)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", id, err)
	}
	if err := fn(e); err != nil {
		return nil, err
	}
	e.Export(session)
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Replace swaps the session state for e, typically an editor decoded from a
// posted form. The stored counter never moves backwards.
func (s *EditorService) Replace(ctx context.Context, id string, e *editor.Editor) (*model.EditorSession, error) {
	return s.Apply(ctx, id, func(current *editor.Editor) error {
		return adopt(current, e)
	})
}

// ApplyForm stores a posted editor after running cmd on it. Questions whose
// posted type differs from the stored one are reset first, so a type change
// rides along with any action. posted holds the stored state on success.
func (s *EditorService) ApplyForm(ctx context.Context, id string, posted *editor.Editor, cmd editor.Command) (*model.EditorSession, error) {
	return s.Apply(ctx, id, func(current *editor.Editor) error {
		if err := editor.ResetChangedTypes(posted, current); err != nil {
			return err
		}
		if err := editor.Apply(posted, cmd); err != nil {
			return err
		}
		if err := adopt(current, posted); err != nil {
			return err
		}
		*posted = *current
		return nil
	})
}

func adopt(current, e *editor.Editor) error {
	counter := e.Counter()
	if current.Counter() > counter {
		counter = current.Counter()
	}
	next, err := editor.Restore(counter, e.Draft(), e.Questions())
	if err != nil {
		return err
	}
	*current = *next
	return nil
}

// Delete removes a session from the cache and the repository
func (s *EditorService) Delete(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()

	if s.editorCache != nil {
		if err := s.editorCache.Delete(ctx, id); err != nil {
			s.logger.Warn("editor cache delete failed", zap.String("session", id), zap.Error(err))
		}
	}
	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(id, MsgEditorDeleted, map[string]string{"sessionId": id})
	}
	return nil
}

func (s *EditorService) save(ctx context.Context, session *model.EditorSession) error {
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.cacheSet(ctx, session)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(session.ID, MsgEditorUpdated, session)
	}
	return nil
}

func (s *EditorService) cacheSet(ctx context.Context, session *model.EditorSession) {
	if s.editorCache == nil {
		return
	}
	if err := s.editorCache.Set(ctx, session); err != nil {
		s.logger.Warn("editor cache write failed", zap.String("session", session.ID), zap.Error(err))
	}
}

func (s *EditorService) lock(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
