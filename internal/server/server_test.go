package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"superlingo/internal/logger"
)

type fakeUserStore struct {
	mu     sync.Mutex
	byName map[string]userDoc
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byName: make(map[string]userDoc)}
}

func (s *fakeUserStore) Create(_ context.Context, u userDoc) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[u.Username]; ok {
		return primitive.NilObjectID, errUsernameTaken
	}
	u.ID = primitive.NewObjectID()
	s.byName[u.Username] = u
	return u.ID, nil
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (userDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byName[username]
	if !ok {
		return userDoc{}, ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (userDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return userDoc{}, ErrNotFound
}

type fakeTokenStore struct {
	mu     sync.Mutex
	byUser map[primitive.ObjectID]tokenDoc
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{byUser: make(map[primitive.ObjectID]tokenDoc)}
}

func (s *fakeTokenStore) GetOrCreate(_ context.Context, userID primitive.ObjectID, key string) (tokenDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok, ok := s.byUser[userID]; ok {
		return tok, nil
	}
	tok := tokenDoc{ID: primitive.NewObjectID(), UserID: userID, Key: key}
	s.byUser[userID] = tok
	return tok, nil
}

func (s *fakeTokenStore) FindByKey(_ context.Context, key string) (tokenDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tok := range s.byUser {
		if tok.Key == key {
			return tok, nil
		}
	}
	return tokenDoc{}, ErrNotFound
}

type fakeLessonStore struct {
	lessons []lessonDoc
}

func (s *fakeLessonStore) List(_ context.Context) ([]lessonDoc, error) {
	out := append([]lessonDoc{}, s.lessons...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeLessonStore) Get(_ context.Context, id int64) (lessonDoc, error) {
	for _, l := range s.lessons {
		if l.ID == id {
			return l, nil
		}
	}
	return lessonDoc{}, ErrNotFound
}

type fakeSynth struct {
	calls    atomic.Int32
	data     []byte
	err      error
	lastPath string
}

func (f *fakeSynth) Synthesize(_ context.Context, _, path string) ([]byte, error) {
	f.calls.Add(1)
	f.lastPath = path
	// The model writes the artifact before the error outcome is known,
	// mirroring a real inference that fails after producing the file.
	if werr := os.WriteFile(path, f.data, 0o600); werr != nil {
		return nil, werr
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type testEnv struct {
	s       *Server
	users   *fakeUserStore
	tokens  *fakeTokenStore
	lessons *fakeLessonStore
	synth   *fakeSynth
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users:   newFakeUserStore(),
		tokens:  newFakeTokenStore(),
		lessons: &fakeLessonStore{lessons: seedLessons()},
		synth:   &fakeSynth{data: []byte("RIFF....WAVE")},
	}
	env.s = newServer(logger.NewNop(), env.users, env.tokens, env.lessons, env.synth, t.TempDir(), true)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rec := httptest.NewRecorder()
	e.s.router.ServeHTTP(rec, req)
	return rec
}

// register + login, returning the issued token key.
func (e *testEnv) loginAs(t *testing.T, username, password string) string {
	t.Helper()
	rec := e.do(t, "POST", "/api/register/", registerReq{Username: username, Email: username + "@example.com", Password: password}, "")
	require.Equal(t, 201, rec.Code, rec.Body.String())

	rec = e.do(t, "POST", "/api/login/", loginReq{Username: username, Password: password}, "")
	require.Equal(t, 200, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}
