package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	fieldErrs := map[string][]string{}
	if req.Username == "" {
		fieldErrs["username"] = []string{"This field is required."}
	} else if len(req.Username) > maxUsernameLength {
		fieldErrs["username"] = []string{"Ensure this field has no more than 150 characters."}
	}
	if req.Email != "" && (!s.emailRegex.MatchString(req.Email) || len(req.Email) > maxEmailLength) {
		fieldErrs["email"] = []string{"Enter a valid email address."}
	}
	if req.Password == "" {
		fieldErrs["password"] = []string{"This field is required."}
	} else if msgs := validatePassword(req.Password, req.Username, req.Email); len(msgs) > 0 {
		fieldErrs["password"] = msgs
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, fieldErrs)
		return
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		s.log.Error("hash password", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	u := userDoc{
		Username:  req.Username,
		Email:     req.Email,
		PassHash:  passHash,
		CreatedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	id, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, errUsernameTaken) {
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				"username": {"A user with that username already exists."},
			})
			return
		}
		s.log.Error("create user", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	writeJSON(w, http.StatusCreated, registerResp{
		ID:       id.Hex(),
		Username: req.Username,
		Email:    req.Email,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	// Unknown user and wrong password answer identically on purpose.
	if req.Username == "" || req.Password == "" {
		s.invalidCredentials(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	u, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		s.invalidCredentials(w)
		return
	}
	if bcrypt.CompareHashAndPassword(u.PassHash, []byte(req.Password)) != nil {
		s.invalidCredentials(w)
		return
	}

	key, err := generateTokenKey()
	if err != nil {
		s.log.Error("generate token key", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	tok, err := s.tokens.GetOrCreate(ctx, u.ID, key)
	if err != nil {
		s.log.Error("get or create token", "user", u.Username, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": tok.Key})
}

func (s *Server) invalidCredentials(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid Credentials"})
}
