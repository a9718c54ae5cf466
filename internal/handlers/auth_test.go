package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskhub/internal/models"
	"taskhub/internal/service"
)

func TestAuthHandlers_RegisterAndLogin(t *testing.T) {
	auth := &mockAuth{
		signUpID:    42,
		signInToken: "tok123",
		signInUser:  models.PublicUser{ID: 42, Name: "U", Email: "u@example.com"},
	}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	// register success → 201 with userId
	body := bytes.NewBufferString(`{"name":"U","email":"u@example.com","password":"p"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if int(m["userId"].(float64)) != 42 {
		t.Fatalf("expected userId=42, got %v", m["userId"])
	}
	if auth.lastSignUpEmail != "u@example.com" {
		t.Fatalf("SignUp email: got %q", auth.lastSignUpEmail)
	}

	// login success → 200 with token and public user
	body = bytes.NewBufferString(`{"email":"u@example.com","password":"p"}`)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d, body=%s", w.Code, w.Body.String())
	}
	var loginResp struct {
		AccessToken string            `json:"accessToken"`
		User        models.PublicUser `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("unmarshal login response: %v", err)
	}
	if loginResp.AccessToken != "tok123" {
		t.Fatalf("expected token tok123, got %q", loginResp.AccessToken)
	}
	if loginResp.User.ID != 42 || loginResp.User.Email != "u@example.com" {
		t.Fatalf("unexpected user: %+v", loginResp.User)
	}

	// login invalid body → 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"email":1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestAuthHandlers_RegisterDuplicateEmail(t *testing.T) {
	auth := &mockAuth{signUpErr: service.ErrEmailTaken}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	body := bytes.NewBufferString(`{"name":"U","email":"u@example.com","password":"p"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", w.Code)
	}
	var out struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Error != service.ErrEmailTaken.Error() {
		t.Fatalf("error: got %q", out.Error)
	}
}

func TestAuthHandlers_LoginInvalidCredentials(t *testing.T) {
	auth := &mockAuth{signInErr: service.ErrInvalidCredentials}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	body := bytes.NewBufferString(`{"email":"u@example.com","password":"wrong"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d; body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Error != "invalid credentials" {
		t.Fatalf("error: got %q, want %q", out.Error, "invalid credentials")
	}
}
