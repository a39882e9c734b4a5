package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// ClientInfo identifies where a sign-in came from.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// Gateway turns credentials into a signed-in identity and role. The
// dashboard only consumes the role it returns.
type Gateway struct {
	svc      *Service
	users    db.UserCollection
	sessions db.SessionCollection
	logger   *log.Entry
	newID    func() string
}

// NewGateway wires a gateway over the user and session collections.
func NewGateway(svc *Service, users db.UserCollection, sessions db.SessionCollection, logger *log.Entry) *Gateway {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Gateway{svc: svc, users: users, sessions: sessions, logger: logger, newID: uuid.NewString}
}

// Service returns the token service behind the gateway.
func (g *Gateway) Service() *Service { return g.svc }

// SignIn checks email and password and opens a session. A session that
// cannot be recorded does not fail the sign-in.
func (g *Gateway) SignIn(ctx context.Context, email, password string, client ClientInfo) (*models.LoginResponse, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Invalid("", "Email and password are required")
	}

	user, err := g.users.FindUserByEmail(ctx, email)
	if err != nil {
		var nf *apperr.NotFoundError
		if errors.As(err, &nf) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !g.svc.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return g.issue(ctx, user, client)
}

// SignUp creates an account and signs it in. Role defaults to user.
func (g *Gateway) SignUp(ctx context.Context, req models.RegisterRequest, client ClientInfo) (*models.LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Role == "" {
		req.Role = models.RoleUser
	}

	if err := g.svc.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := g.svc.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	if req.FullName == "" {
		return nil, apperr.Invalid("full_name", "is required")
	}
	if !models.IsValidRole(req.Role) {
		return nil, apperr.Invalid("role", "must be one of admin, user, driver")
	}

	hash, err := g.svc.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user, err := g.users.InsertUser(ctx, models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         req.Role,
		Phone:        strings.TrimSpace(req.Phone),
	})
	if err != nil {
		return nil, err
	}
	g.logger.WithFields(log.Fields{"user_id": user.ID.Hex(), "role": user.Role}).Info("account created")

	return g.issue(ctx, user, client)
}

// SignOut closes the open sessions of the user. Failures are logged only.
func (g *Gateway) SignOut(ctx context.Context, claims *models.Claims) {
	if claims == nil {
		return
	}
	if err := g.sessions.EndSessions(ctx, claims.UserID); err != nil {
		g.logger.WithError(err).WithField("user_id", claims.UserID).Warn("failed to close sessions")
	}
}

// Profile returns the user behind claims.
func (g *Gateway) Profile(ctx context.Context, userID string) (*models.User, error) {
	return g.users.FindUserByID(ctx, userID)
}

// UpdateProfile changes the name and phone of a user.
func (g *Gateway) UpdateProfile(ctx context.Context, userID, fullName, phone string) (*models.User, error) {
	user, err := g.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if fullName = strings.TrimSpace(fullName); fullName != "" {
		user.FullName = fullName
	}
	user.Phone = strings.TrimSpace(phone)
	if err := g.users.UpdateUser(ctx, userID, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (g *Gateway) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := g.users.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !g.svc.CheckPassword(current, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if err := g.svc.ValidatePassword(next); err != nil {
		return err
	}
	hash, err := g.svc.HashPassword(next)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return g.users.UpdateUser(ctx, userID, *user)
}

// ListUsers returns every account.
func (g *Gateway) ListUsers(ctx context.Context) ([]models.User, error) {
	return g.users.ListUsers(ctx)
}

// EnsureAdmin creates an admin account with the given credentials unless
// one with that email already exists.
func (g *Gateway) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := g.users.FindUserByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		return err
	}
	_, err = g.SignUp(ctx, models.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "Administrator",
		Role:     models.RoleAdmin,
	}, ClientInfo{UserAgent: "seed"})
	return err
}

func (g *Gateway) issue(ctx context.Context, user *models.User, client ClientInfo) (*models.LoginResponse, error) {
	sessionID := g.newID()
	err := g.sessions.StartSession(ctx, models.Session{
		ID:        sessionID,
		UserID:    user.ID,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		g.logger.WithError(err).WithField("user_id", user.ID.Hex()).Warn("session tracking failed")
		sessionID = ""
	}

	if err := g.users.UpdateLastLogin(ctx, user.ID.Hex()); err != nil {
		g.logger.WithError(err).WithField("user_id", user.ID.Hex()).Warn("failed to update last login")
	}

	token, err := g.svc.GenerateToken(user, sessionID)
	if err != nil {
		return nil, err
	}
	refresh, err := g.svc.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{
		Token:        token,
		RefreshToken: refresh,
		SessionID:    sessionID,
		User:         *user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
