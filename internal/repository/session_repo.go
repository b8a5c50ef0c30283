package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"surveybuilder/internal/model"
)

var ErrSessionExists = errors.New("editor session already exists")

// SessionRepo persists editor sessions
type SessionRepo interface {
	Create(ctx context.Context, session *model.EditorSession) error
	GetByID(ctx context.Context, id string) (*model.EditorSession, error)
	Update(ctx context.Context, session *model.EditorSession) error
	Delete(ctx context.Context, id string) error
}

type sessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a MongoDB session repository
func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection("editor_sessions"),
	}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.EditorSession) error {
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, session)
	if mongo.IsDuplicateKeyError(err) {
		return ErrSessionExists
	}
	return err
}

// GetByID returns nil, nil when the session does not exist
func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.EditorSession, error) {
	var session model.EditorSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) Update(ctx context.Context, session *model.EditorSession) error {
	session.UpdatedAt = time.Now().UTC()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session)
	return err
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
