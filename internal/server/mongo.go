package server

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"superlingo/internal/logger"
)

// New connects to Mongo, ensures indexes and seed data, and returns a
// ready-to-run server. The synthesis gateway is passed in constructed:
// the device choice and model loading policy belong to the caller.
func New(log *logger.Logger, synth synthesizer) (*Server, error) {
	_ = godotenv.Load()

	mediaDir := getenv("MEDIA_DIR", os.TempDir())
	devMode := os.Getenv("DEV") == "1"

	mongoURI := getenv("MONGODB_URI", "mongodb://localhost:27017")
	dbName := getenv("MONGODB_DB", "superlingo")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	users := &mongoUserStore{c: db.Collection("users")}
	tokens := &mongoTokenStore{c: db.Collection("tokens")}
	lessons := &mongoLessonStore{c: db.Collection("lessons")}

	if err := ensureIndexes(ctx, users.c, tokens.c); err != nil {
		return nil, err
	}
	if err := lessons.ensureSeed(ctx); err != nil {
		return nil, err
	}

	s := newServer(log, users, tokens, lessons, synth, mediaDir, devMode)
	s.client = client
	return s, nil
}
