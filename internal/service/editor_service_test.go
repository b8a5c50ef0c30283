package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"surveybuilder/internal/editor"
	"surveybuilder/internal/model"
	"surveybuilder/internal/repository"
)

type memoryCache struct {
	mu       sync.Mutex
	sessions map[string]model.EditorSession
	failGet  bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{sessions: map[string]model.EditorSession{}}
}

func (c *memoryCache) Set(_ context.Context, s *model.EditorSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *s
	cp.Questions = append([]model.Question(nil), s.Questions...)
	c.sessions[s.ID] = cp
	return nil
}

func (c *memoryCache) Get(_ context.Context, id string) (*model.EditorSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, errors.New("redis down")
	}
	s, ok := c.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *memoryCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	return nil
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []string
}

func (b *recordingBroadcaster) BroadcastToSession(sessionID, msgType string, _ interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, sessionID+":"+msgType)
}

func newTestService(t *testing.T) (*EditorService, *memoryCache, *recordingBroadcaster) {
	t.Helper()
	c := newMemoryCache()
	b := &recordingBroadcaster{}
	svc := NewEditorService(repository.NewMemorySessionRepo(), c, nil)
	svc.SetBroadcaster(b)
	return svc, c, b
}

// TestCreateStartsEmptySession checks a new session has counter 0.
func TestCreateStartsEmptySession(t *testing.T) {
	svc, c, _ := newTestService(t)
	session, err := svc.Create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.ID == "" || session.Counter != 0 || len(session.Questions) != 0 {
		t.Fatalf("unexpected session %+v", session)
	}
	if _, ok := c.sessions[session.ID]; !ok {
		t.Fatalf("expected session to be cached")
	}
}

// TestApplyPersistsAndBroadcasts runs mutations through the store.
func TestApplyPersistsAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	svc, _, b := newTestService(t)
	session, _ := svc.Create(ctx)

	for i := 0; i < 2; i++ {
		if _, err := svc.Apply(ctx, session.ID, func(e *editor.Editor) error {
			e.AddQuestion()
			return nil
		}); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	_, err := svc.Apply(ctx, session.ID, func(e *editor.Editor) error {
		return e.RemoveQuestion(0)
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	got, err := svc.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Counter != 2 || len(got.Questions) != 1 || got.Questions[0].Index != 1 {
		t.Fatalf("unexpected stored session %+v", got)
	}
	if len(b.messages) != 3 || b.messages[0] != session.ID+":"+MsgEditorUpdated {
		t.Fatalf("unexpected broadcasts %v", b.messages)
	}
}

// TestApplyFailureStoresNothing keeps state unchanged on errors.
func TestApplyFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	svc, _, b := newTestService(t)
	session, _ := svc.Create(ctx)
	_, err := svc.Apply(ctx, session.ID, func(e *editor.Editor) error {
		e.AddQuestion()
		return e.AddOption(0)
	})
	if !errors.Is(err, editor.ErrNotChoiceType) {
		t.Fatalf("expected ErrNotChoiceType, got %v", err)
	}
	got, _ := svc.Get(ctx, session.ID)
	if got.Counter != 0 || len(got.Questions) != 0 {
		t.Fatalf("state changed after failed apply: %+v", got)
	}
	if len(b.messages) != 0 {
		t.Fatalf("unexpected broadcasts %v", b.messages)
	}
}

// TestGetFallsBackToRepository survives a broken cache.
func TestGetFallsBackToRepository(t *testing.T) {
	ctx := context.Background()
	svc, c, _ := newTestService(t)
	session, _ := svc.Create(ctx)
	c.failGet = true
	if _, err := svc.Get(ctx, session.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

// TestReplaceKeepsCounterMonotonic rejects a posted counter that went backwards.
func TestReplaceKeepsCounterMonotonic(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	session, _ := svc.Create(ctx)
	_, _ = svc.Apply(ctx, session.ID, func(e *editor.Editor) error {
		for i := 0; i < 4; i++ {
			e.AddQuestion()
		}
		return nil
	})

	posted := editor.New()
	posted.AddQuestion()
	got, err := svc.Replace(ctx, session.ID, posted)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got.Counter != 4 || len(got.Questions) != 1 {
		t.Fatalf("unexpected session after replace %+v", got)
	}
}

// TestApplyConcurrentAddsAreSerialized never hands out an index twice.
func TestApplyConcurrentAddsAreSerialized(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	session, _ := svc.Create(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Apply(ctx, session.ID, func(e *editor.Editor) error {
				e.AddQuestion()
				return nil
			})
		}()
	}
	wg.Wait()

	got, _ := svc.Get(ctx, session.ID)
	if got.Counter != 20 || len(got.Questions) != 20 {
		t.Fatalf("expected 20 questions, got counter=%d len=%d", got.Counter, len(got.Questions))
	}
}

// TestDeleteRemovesSession clears the repository and cache.
func TestDeleteRemovesSession(t *testing.T) {
	ctx := context.Background()
	svc, c, b := newTestService(t)
	session, _ := svc.Create(ctx)
	if err := svc.Delete(ctx, session.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := c.sessions[session.ID]; ok {
		t.Fatalf("session still cached")
	}
	if _, err := svc.Get(ctx, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if len(b.messages) != 1 || b.messages[0] != session.ID+":"+MsgEditorDeleted {
		t.Fatalf("unexpected broadcasts %v", b.messages)
	}
}

// TestApplyFormResetsChangedType discards stored options when a save carries a new type.
func TestApplyFormResetsChangedType(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	session, _ := svc.Create(ctx)
	_, _ = svc.Apply(ctx, session.ID, func(e *editor.Editor) error {
		i := e.AddQuestion()
		if err := e.SetQuestionType(i, model.QuestionTypeSingleChoice); err != nil {
			return err
		}
		return e.SetOption(i, 0, "old")
	})

	stored, _ := svc.Editor(ctx, session.ID)
	v := editor.Encode(stored)
	v.Set(editor.FieldName(0, editor.FieldType), string(model.QuestionTypeMultipleChoice))
	posted, err := editor.Decode(v)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := svc.ApplyForm(ctx, session.ID, posted, editor.Command{Action: editor.ActionSave})
	if err != nil {
		t.Fatalf("apply form: %v", err)
	}
	q := got.Questions[0]
	if q.Type != model.QuestionTypeMultipleChoice || len(q.Choices.Options) != 1 || q.Choices.Options[0] != "" {
		t.Fatalf("expected fresh multiple choice, got %+v", q)
	}
	if p, _ := posted.Question(0); p.Choices.Options[0] != "" {
		t.Fatalf("posted editor does not hold the stored state: %+v", p)
	}
}

// TestDeleteKeepsLockEntry reuses the same mutex for an id after Delete.
func TestDeleteKeepsLockEntry(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	session, _ := svc.Create(ctx)
	svc.lock(session.ID)()

	before, _ := svc.locks.Load(session.ID)
	if err := svc.Delete(ctx, session.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	after, ok := svc.locks.Load(session.ID)
	if !ok || after != before {
		t.Fatalf("expected lock entry to survive delete")
	}
}
