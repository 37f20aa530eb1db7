package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventdesk/internal/database"
	"eventdesk/internal/domain"
	"eventdesk/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown email and wrong password so a
// login probe cannot distinguish the two.
var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	db          *database.DB
	sessions    domain.SessionRepository
	sessionTTL  time.Duration
	adminEmails map[string]bool
	logger      *zerolog.Logger
}

func NewAuthService(db *database.DB, sessions domain.SessionRepository, sessionTTL time.Duration, adminEmails []string, logger *zerolog.Logger) *AuthService {
	// stored emails are lowercased on input, so the admin list must match
	// case-insensitively too
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		admins[strings.ToLower(email)] = true
	}
	return &AuthService{
		db:          db,
		sessions:    sessions,
		sessionTTL:  sessionTTL,
		adminEmails: admins,
		logger:      logger,
	}
}

// Register creates an account and logs it in. Emails listed in the config
// admin list are provisioned with the admin role straight away.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*models.User, *models.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	role := models.RoleCustomer
	if s.adminEmails[email] {
		role = models.RoleAdmin
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, nil, err
	}

	session, err := s.createSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", role).Msg("User registered")
	return user, session, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	user, err := s.db.GetUserByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.createSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// Authenticate resolves a session token to its user. An expired or unknown
// token returns database.ErrNotFound.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, database.ErrNotFound
	}

	user, err := s.db.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	// config admin list outranks the stored role
	if s.adminEmails[user.Email] {
		user.Role = models.RoleAdmin
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.db.ListUsers(ctx)
}

func (s *AuthService) UpdateUserRole(ctx context.Context, id, role string) error {
	return s.db.UpdateUserRole(ctx, id, role)
}

func (s *AuthService) createSession(ctx context.Context, user *models.User) (*models.Session, error) {
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.SetSession(ctx, session, s.sessionTTL); err != nil {
		return nil, err
	}
	return session, nil
}
