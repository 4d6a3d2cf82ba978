package server

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoUserStore struct {
	c *mongo.Collection
}

func (s *mongoUserStore) Create(ctx context.Context, u userDoc) (primitive.ObjectID, error) {
	res, err := s.c.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, errUsernameTaken
		}
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *mongoUserStore) FindByUsername(ctx context.Context, username string) (userDoc, error) {
	var u userDoc
	err := s.c.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return userDoc{}, ErrNotFound
	}
	return u, err
}

func (s *mongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (userDoc, error) {
	var u userDoc
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return userDoc{}, ErrNotFound
	}
	return u, err
}

type mongoTokenStore struct {
	c *mongo.Collection
}

// GetOrCreate upserts on the unique userId index: the $setOnInsert only
// fires for the first login, so every later login sees the same key.
func (s *mongoTokenStore) GetOrCreate(ctx context.Context, userID primitive.ObjectID, key string) (tokenDoc, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var tok tokenDoc
	err := s.c.FindOneAndUpdate(
		ctx,
		bson.M{"userId": userID},
		bson.M{"$setOnInsert": bson.M{
			"key":       key,
			"createdAt": time.Now().UTC(),
		}},
		opts,
	).Decode(&tok)
	return tok, err
}

func (s *mongoTokenStore) FindByKey(ctx context.Context, key string) (tokenDoc, error) {
	var tok tokenDoc
	err := s.c.FindOne(ctx, bson.M{"key": key}).Decode(&tok)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return tokenDoc{}, ErrNotFound
	}
	return tok, err
}

type mongoLessonStore struct {
	c *mongo.Collection
}

func (s *mongoLessonStore) List(ctx context.Context) ([]lessonDoc, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	lessons := []lessonDoc{}
	if err := cur.All(ctx, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (s *mongoLessonStore) Get(ctx context.Context, id int64) (lessonDoc, error) {
	var l lessonDoc
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return lessonDoc{}, ErrNotFound
	}
	return l, err
}

// ensureSeed inserts the initial lessons into an empty collection.
// Every seeded activity is validated before anything is written.
func (s *mongoLessonStore) ensureSeed(ctx context.Context) error {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	lessons := seedLessons()
	docs := make([]interface{}, 0, len(lessons))
	for _, l := range lessons {
		if err := l.Validate(); err != nil {
			return err
		}
		docs = append(docs, l)
	}

	_, err = s.c.InsertMany(ctx, docs)
	return err
}
