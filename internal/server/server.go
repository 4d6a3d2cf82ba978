package server

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	"superlingo/internal/logger"
)

// synthesizer is the Gateway's surface as the audio handler sees it.
type synthesizer interface {
	Synthesize(ctx context.Context, text, path string) ([]byte, error)
}

type Server struct {
	client  *mongo.Client
	users   userStore
	tokens  tokenStore
	lessons lessonStore
	synth   synthesizer
	log     *logger.Logger

	mediaDir string
	devMode  bool

	rateMu   sync.Mutex
	rateByIP map[string][]time.Time

	emailRegex *regexp.Regexp
	router     *chi.Mux
}

// newServer wires a Server from already-constructed collaborators.
// New connects the real Mongo stores; tests inject fakes directly.
func newServer(log *logger.Logger, users userStore, tokens tokenStore, lessons lessonStore, synth synthesizer, mediaDir string, devMode bool) *Server {
	s := &Server{
		users:      users,
		tokens:     tokens,
		lessons:    lessons,
		synth:      synth,
		log:        log,
		mediaDir:   mediaDir,
		devMode:    devMode,
		rateByIP:   make(map[string][]time.Time),
		emailRegex: regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`),
	}
	s.setupRouter()
	return s
}
