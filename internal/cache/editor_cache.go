package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"surveybuilder/internal/model"
)

// EditorCache keeps the hot copy of editor sessions
type EditorCache interface {
	Set(ctx context.Context, session *model.EditorSession) error
	Get(ctx context.Context, id string) (*model.EditorSession, error)
	Delete(ctx context.Context, id string) error
}

type editorCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEditorCache creates a redis-backed editor cache
func NewEditorCache(client *redis.Client, ttl time.Duration) EditorCache {
	return &editorCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *editorCache) key(id string) string {
	return fmt.Sprintf("editor:%s", id)
}

func (c *editorCache) Set(ctx context.Context, session *model.EditorSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(session.ID), data, c.ttl).Err()
}

// Get returns nil, nil on a miss
func (c *editorCache) Get(ctx context.Context, id string) (*model.EditorSession, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.EditorSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *editorCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
