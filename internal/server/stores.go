package server

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound signals an unknown lesson or token key.
	ErrNotFound = errors.New("not found")

	errUsernameTaken = errors.New("username already taken")
)

type userStore interface {
	Create(ctx context.Context, u userDoc) (primitive.ObjectID, error)
	FindByUsername(ctx context.Context, username string) (userDoc, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (userDoc, error)
}

type tokenStore interface {
	// GetOrCreate returns the user's token, creating one with key if
	// none exists yet. Repeated calls return the same token.
	GetOrCreate(ctx context.Context, userID primitive.ObjectID, key string) (tokenDoc, error)
	FindByKey(ctx context.Context, key string) (tokenDoc, error)
}

type lessonStore interface {
	// List returns all lessons sorted by id ascending.
	List(ctx context.Context) ([]lessonDoc, error)
	Get(ctx context.Context, id int64) (lessonDoc, error)
}
