package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/auth"
	"github.com/ukydev/fleet-dashboard/internal/middleware"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserCollection is a mock implementation of UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}

func (m *MockUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSessionCollection is a mock implementation of SessionCollection
type MockSessionCollection struct {
	mock.Mock
}

func (m *MockSessionCollection) StartSession(ctx context.Context, session models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionCollection) EndSessions(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newAuthHandler(t *testing.T) (*AuthHandler, *auth.Service, *MockUserCollection, *MockSessionCollection) {
	t.Helper()
	svc, err := auth.NewService("auth-handler-secret", time.Hour)
	require.NoError(t, err)
	users := new(MockUserCollection)
	sessions := new(MockSessionCollection)
	return NewAuthHandler(auth.NewGateway(svc, users, sessions, nil)), svc, users, sessions
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func withClaims(req *http.Request, userID string, role models.Role) *http.Request {
	claims := &models.Claims{UserID: userID, Email: "test@example.com", Role: role}
	return req.WithContext(middleware.WithClaims(req.Context(), claims))
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("successful login", func(t *testing.T) {
		handler, svc, users, sessions := newAuthHandler(t)

		passwordHash, err := svc.HashPassword("password123")
		require.NoError(t, err)
		user := &models.User{
			ID:           primitive.NewObjectID(),
			Email:        "test@example.com",
			PasswordHash: passwordHash,
			Role:         models.RoleAdmin,
			IsActive:     true,
		}

		users.On("FindUserByEmail", mock.Anything, "test@example.com").Return(user, nil)
		users.On("UpdateLastLogin", mock.Anything, user.ID.Hex()).Return(nil)
		sessions.On("StartSession", mock.Anything, mock.MatchedBy(func(s models.Session) bool {
			return s.UserID == user.ID && s.UserAgent == "dashboard-test"
		})).Return(nil)

		req := httptest.NewRequest("POST", "/api/auth/login", jsonBody(t, models.LoginRequest{
			Email:    "test@example.com",
			Password: "password123",
		}))
		req.Header.Set("User-Agent", "dashboard-test")
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response models.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.NotEmpty(t, response.Token)
		assert.NotEmpty(t, response.RefreshToken)
		assert.NotEmpty(t, response.SessionID)
		assert.Equal(t, user.Email, response.User.Email)
		assert.NotContains(t, w.Body.String(), passwordHash)

		users.AssertExpectations(t)
		sessions.AssertExpectations(t)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		handler, _, users, _ := newAuthHandler(t)
		users.On("FindUserByEmail", mock.Anything, "test@example.com").
			Return(nil, &apperr.NotFoundError{Entity: "user", ID: "test@example.com"})

		req := httptest.NewRequest("POST", "/api/auth/login", jsonBody(t, models.LoginRequest{
			Email:    "test@example.com",
			Password: "wrongpassword",
		}))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		users.AssertExpectations(t)
	})

	t.Run("inactive user", func(t *testing.T) {
		handler, svc, users, _ := newAuthHandler(t)
		passwordHash, err := svc.HashPassword("password123")
		require.NoError(t, err)
		users.On("FindUserByEmail", mock.Anything, "test@example.com").Return(&models.User{
			ID:           primitive.NewObjectID(),
			Email:        "test@example.com",
			PasswordHash: passwordHash,
		}, nil)

		req := httptest.NewRequest("POST", "/api/auth/login", jsonBody(t, models.LoginRequest{
			Email:    "test@example.com",
			Password: "password123",
		}))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		handler, _, _, _ := newAuthHandler(t)
		req := httptest.NewRequest("POST", "/api/auth/login", jsonBody(t, models.LoginRequest{}))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		handler, _, users, sessions := newAuthHandler(t)
		id := primitive.NewObjectID()

		users.On("InsertUser", mock.Anything, mock.AnythingOfType("models.User")).
			Return(&models.User{ID: id, Email: "newuser@example.com", FullName: "New User", Role: models.RoleUser, IsActive: true}, nil)
		users.On("UpdateLastLogin", mock.Anything, id.Hex()).Return(nil)
		sessions.On("StartSession", mock.Anything, mock.Anything).Return(nil)

		req := httptest.NewRequest("POST", "/api/auth/register", jsonBody(t, models.RegisterRequest{
			Email:    "newuser@example.com",
			Password: "password123",
			FullName: "New User",
		}))
		w := httptest.NewRecorder()

		handler.Register(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response models.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.NotEmpty(t, response.Token)
		assert.Equal(t, models.RoleUser, response.User.Role)
		users.AssertExpectations(t)
	})

	t.Run("email already exists", func(t *testing.T) {
		handler, _, users, _ := newAuthHandler(t)
		users.On("InsertUser", mock.Anything, mock.Anything).
			Return(nil, &apperr.ConstraintError{Entity: "user", Field: "email", Label: "email"})

		req := httptest.NewRequest("POST", "/api/auth/register", jsonBody(t, models.RegisterRequest{
			Email:    "existing@example.com",
			Password: "password123",
			FullName: "Someone",
		}))
		w := httptest.NewRecorder()

		handler.Register(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Email already exists")
	})

	t.Run("invalid role", func(t *testing.T) {
		handler, _, users, _ := newAuthHandler(t)

		req := httptest.NewRequest("POST", "/api/auth/register", jsonBody(t, models.RegisterRequest{
			Email:    "newuser@example.com",
			Password: "password123",
			FullName: "New User",
			Role:     "invalid_role",
		}))
		w := httptest.NewRecorder()

		handler.Register(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		users.AssertNotCalled(t, "InsertUser", mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_GetProfile(t *testing.T) {
	t.Run("successful profile retrieval", func(t *testing.T) {
		handler, _, users, _ := newAuthHandler(t)
		userID := primitive.NewObjectID()
		user := &models.User{ID: userID, Email: "test@example.com", FullName: "Test User", Role: models.RoleAdmin}
		users.On("FindUserByID", mock.Anything, userID.Hex()).Return(user, nil)

		req := withClaims(httptest.NewRequest("GET", "/api/auth/profile", nil), userID.Hex(), models.RoleAdmin)
		w := httptest.NewRecorder()

		handler.GetProfile(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, user.FullName, response.FullName)
		users.AssertExpectations(t)
	})

	t.Run("user not found", func(t *testing.T) {
		handler, _, users, _ := newAuthHandler(t)
		userID := primitive.NewObjectID()
		users.On("FindUserByID", mock.Anything, userID.Hex()).
			Return(nil, &apperr.NotFoundError{Entity: "user", ID: userID.Hex()})

		req := withClaims(httptest.NewRequest("GET", "/api/auth/profile", nil), userID.Hex(), models.RoleAdmin)
		w := httptest.NewRecorder()

		handler.GetProfile(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("no claims", func(t *testing.T) {
		handler, _, _, _ := newAuthHandler(t)
		w := httptest.NewRecorder()
		handler.GetProfile(w, httptest.NewRequest("GET", "/api/auth/profile", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	handler, _, users, _ := newAuthHandler(t)
	userID := primitive.NewObjectID()
	users.On("FindUserByID", mock.Anything, userID.Hex()).
		Return(&models.User{ID: userID, FullName: "Test User"}, nil)
	users.On("UpdateUser", mock.Anything, userID.Hex(), mock.MatchedBy(func(u models.User) bool {
		return u.FullName == "Updated Name" && u.Phone == "555-0100"
	})).Return(nil)

	req := withClaims(httptest.NewRequest("PUT", "/api/auth/profile", jsonBody(t, map[string]string{
		"full_name": "Updated Name",
		"phone":     "555-0100",
	})), userID.Hex(), models.RoleUser)
	w := httptest.NewRecorder()

	handler.UpdateProfile(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	users.AssertExpectations(t)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		handler, _, _, _ := newAuthHandler(t)
		req := withClaims(httptest.NewRequest("POST", "/api/auth/password", jsonBody(t, map[string]string{})), "u1", models.RoleUser)
		w := httptest.NewRecorder()

		handler.ChangePassword(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong current password", func(t *testing.T) {
		handler, svc, users, _ := newAuthHandler(t)
		hash, err := svc.HashPassword("password123")
		require.NoError(t, err)
		users.On("FindUserByID", mock.Anything, "u1").Return(&models.User{PasswordHash: hash}, nil)

		req := withClaims(httptest.NewRequest("POST", "/api/auth/password", jsonBody(t, map[string]string{
			"current_password": "nope",
			"new_password":     "newpassword",
		})), "u1", models.RoleUser)
		w := httptest.NewRecorder()

		handler.ChangePassword(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		users.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	handler, _, _, sessions := newAuthHandler(t)
	sessions.On("EndSessions", mock.Anything, "u1").Return(nil)

	req := withClaims(httptest.NewRequest("POST", "/api/auth/logout", nil), "u1", models.RoleUser)
	w := httptest.NewRecorder()

	handler.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	sessions.AssertExpectations(t)
}

func TestRouter_ListUsersIsAdminOnly(t *testing.T) {
	s := newServer(t)
	s.users.On("ListUsers", mock.Anything).Return([]models.User{{Email: "a@b.co"}}, nil)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/users", models.RoleUser, nil).Code)

	w := s.do(t, http.MethodGet, "/api/users", models.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.User](t, w), 1)
}
