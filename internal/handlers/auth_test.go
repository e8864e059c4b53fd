package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jtallman/projtrack/internal/auth"
	"github.com/jtallman/projtrack/internal/repo"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	h := &AuthHandler{
		UserRepo: repo.NewUserRepo(db),
		Tokens:   auth.NewTokens([]byte("test-secret"), time.Hour),
	}
	return h, mock, func() { db.Close() }
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestAuthHandler_Signup(t *testing.T) {
	h, mock, closeDB := newAuthHandler(t)
	defer closeDB()

	userID := uuid.New()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users \(name, email, password_hash\)`).
		WithArgs("A", "a@x.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "created_at"}).
			AddRow(userID.String(), "A", "a@x.com", time.Now()))

	rr := postJSON(t, h.Signup, "/auth/signup", map[string]string{
		"name": "A", "email": "a@x.com", "password": "longenough",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("Signup status: got %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.User.ID != userID.String() || out.User.Name != "A" || out.User.Email != "a@x.com" {
		t.Errorf("unexpected user: %+v", out.User)
	}

	// The returned token must decode back to the created user's id.
	claims, err := h.Tokens.Verify(out.Token)
	if err != nil {
		t.Fatalf("Verify issued token: %v", err)
	}
	if claims.UserID != userID.String() || claims.Email != "a@x.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Signup_MissingFields(t *testing.T) {
	h, mock, closeDB := newAuthHandler(t)
	defer closeDB()

	rr := postJSON(t, h.Signup, "/auth/signup", map[string]string{
		"name": "A", "password": "longenough",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Signup status: got %d, want 400", rr.Code)
	}
	var out map[string]string
	json.NewDecoder(rr.Body).Decode(&out)
	if out["error"] != "Missing required fields" {
		t.Errorf("unexpected error: %q", out["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Signup_ShortPassword(t *testing.T) {
	h, mock, closeDB := newAuthHandler(t)
	defer closeDB()

	rr := postJSON(t, h.Signup, "/auth/signup", map[string]string{
		"name": "A", "email": "a@x.com", "password": "short",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Signup status: got %d, want 400", rr.Code)
	}
	var out map[string]string
	json.NewDecoder(rr.Body).Decode(&out)
	if out["error"] != "Password must be at least 6 characters" {
		t.Errorf("unexpected error: %q", out["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	h, mock, closeDB := newAuthHandler(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("taken@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	rr := postJSON(t, h.Signup, "/auth/signup", map[string]string{
		"name": "A", "email": "taken@x.com", "password": "longenough",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Signup status: got %d, want 400", rr.Code)
	}
	var out map[string]string
	json.NewDecoder(rr.Body).Decode(&out)
	if out["error"] != "User already exists" {
		t.Errorf("unexpected error: %q", out["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Signup_BadJSON(t *testing.T) {
	h, mock, closeDB := newAuthHandler(t)
	defer closeDB()

	req := httptest.NewRequest("POST", "/auth/signup", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Signup(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Signup status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	h, mock, closeDB := newAuthHandler(t)
	defer closeDB()

	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	userID := uuid.New()
	mock.ExpectQuery(`SELECT id, name, email, password_hash, created_at`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}).
			AddRow(userID.String(), "A", "a@x.com", hash, time.Now()))

	rr := postJSON(t, h.Login, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "correct-horse",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("Login status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil || out.Token == "" {
		t.Fatalf("decode response: %v (token %q)", err, out.Token)
	}
	claims, err := h.Tokens.Verify(out.Token)
	if err != nil || claims.UserID != userID.String() {
		t.Errorf("token claims: %+v, %v", claims, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	h, mock, closeDB := newAuthHandler(t)
	defer closeDB()

	hash, err := auth.HashPassword("right-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	mock.ExpectQuery(`SELECT id, name, email, password_hash, created_at`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}).
			AddRow(uuid.New().String(), "A", "a@x.com", hash, time.Now()))

	rr := postJSON(t, h.Login, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "wrong-password",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Login status: got %d, want 401", rr.Code)
	}
	var out map[string]string
	json.NewDecoder(rr.Body).Decode(&out)
	if out["error"] != "Invalid credentials" {
		t.Errorf("unexpected error: %q", out["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
