package handlers

import (
	"context"
	"net/http"

	"taskhub/internal/models"
	"taskhub/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID    int
	signUpErr   error
	signInToken string
	signInUser  models.PublicUser
	signInErr   error
	parseClaims service.TokenClaims
	parseErr    error

	lastSignUpName  string
	lastSignUpEmail string
	lastSignInEmail string
	lastParseToken  string
}

func (m *mockAuth) SignUp(name, email, password string) (int, error) {
	m.lastSignUpName = name
	m.lastSignUpEmail = email
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) SignIn(email, password string) (string, models.PublicUser, error) {
	m.lastSignInEmail = email
	return m.signInToken, m.signInUser, m.signInErr
}

func (m *mockAuth) ParseToken(token string) (service.TokenClaims, error) {
	m.lastParseToken = token
	return m.parseClaims, m.parseErr
}

type mockTasks struct {
	createTask models.Task
	createErr  error
	listResp   []models.Task
	listErr    error
	updateTask models.Task
	updateErr  error
	deleteErr  error

	lastCreateUser   int
	lastCreateParams service.CreateTaskParams
	lastListUser     int
	lastUpdateUser   int
	lastUpdateID     string
	lastUpdateParams service.UpdateTaskParams
	lastDeleteUser   int
	lastDeleteID     string
}

func (m *mockTasks) Create(ctx context.Context, userID int, p service.CreateTaskParams) (models.Task, error) {
	m.lastCreateUser = userID
	m.lastCreateParams = p
	return m.createTask, m.createErr
}

func (m *mockTasks) List(ctx context.Context, userID int) ([]models.Task, error) {
	m.lastListUser = userID
	return m.listResp, m.listErr
}

func (m *mockTasks) Update(ctx context.Context, userID int, taskID string, p service.UpdateTaskParams) (models.Task, error) {
	m.lastUpdateUser = userID
	m.lastUpdateID = taskID
	m.lastUpdateParams = p
	return m.updateTask, m.updateErr
}

func (m *mockTasks) Delete(ctx context.Context, userID int, taskID string) error {
	m.lastDeleteUser = userID
	m.lastDeleteID = taskID
	return m.deleteErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, NewHub(nil), nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
