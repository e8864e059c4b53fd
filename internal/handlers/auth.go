package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jtallman/projtrack/internal/auth"
	"github.com/jtallman/projtrack/internal/repo"
	"github.com/lib/pq"
)

// MinPasswordLength is the signup password policy, enforced before hashing.
const MinPasswordLength = 6

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	UserRepo *repo.UserRepo
	Tokens   *auth.Tokens
}

// userProjection is the public shape of a user. The password hash is never echoed.
type userProjection struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ==========================
// Signup (hash password, insert, issue token)
// ==========================
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	if len(input.Password) < MinPasswordLength {
		JSONError(w, "Password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	exists, err := h.UserRepo.EmailExists(r.Context(), input.Email)
	if err != nil {
		slog.Error("signup: email lookup failed", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if exists {
		JSONError(w, "User already exists", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		slog.Error("signup: hash password failed", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.UserRepo.Create(r.Context(), input.Name, input.Email, hash)
	if err != nil {
		// The existence check above races with concurrent signups; the unique
		// index catches the loser, which gets the same response.
		if e, ok := err.(*pq.Error); ok && e.Code == "23505" {
			JSONError(w, "User already exists", http.StatusBadRequest)
			return
		}
		slog.Error("signup: create user failed", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		slog.Error("signup: issue token failed", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, map[string]interface{}{
		"token": token,
		"user": userProjection{
			ID:    user.ID.String(),
			Name:  user.Name,
			Email: user.Email,
		},
	}, http.StatusCreated)
}

// ==========================
// Login (verify password, issue token)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByEmail(r.Context(), input.Email)
	if err != nil {
		// Unknown email and wrong password read the same to the caller.
		JSONError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		JSONError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		slog.Error("login: issue token failed", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, map[string]interface{}{
		"token": token,
		"user": userProjection{
			ID:    user.ID.String(),
			Name:  user.Name,
			Email: user.Email,
		},
	}, http.StatusOK)
}
