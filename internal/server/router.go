package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) setupRouter() {
	r := chi.NewRouter()
	r.Use(s.cors)

	r.Route("/api", func(api chi.Router) {
		api.Post("/register/", s.withSecurity(s.handleRegister))
		api.Post("/login/", s.withSecurity(s.handleLogin))
		api.Post("/generate-audio/", s.withSecurity(s.requireAuth(s.handleGenerateAudio)))
		api.Get("/lessons/", s.withSecurity(s.requireAuth(s.handleListLessons)))
		api.Get("/lessons/{id}/", s.withSecurity(s.requireAuth(s.handleGetLesson)))
	})

	s.router = r
}

func (s *Server) Run() error {
	port := getenv("PORT", "8000")
	s.log.Info("server listening", "addr", "http://localhost:"+port)
	return http.ListenAndServe(":"+port, s.router)
}
