package auth

import (
	"context"
	"errors"
	"strconv"

	"social-service/internal/events"
	"social-service/internal/models"
	"social-service/internal/session"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	repo     *Repository
	sessions *session.Store
	events   *events.Publisher
}

func NewService(repo *Repository, sessions *session.Store, publisher *events.Publisher) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		events:   publisher,
	}
}

// Register handles user registration
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.events.Publish(events.EventUserRegistered, UserIdentity(user.ID), user.ID)
	return user, nil
}

// Login authenticates the user and opens a session in the shared store.
// The returned credential is what both the HTTP cookie and the chat
// handshake carry.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (string, *models.User, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	credential, err := s.sessions.Create(ctx, UserIdentity(user.ID))
	if err != nil {
		return "", nil, err
	}
	return credential, user, nil
}

// Logout revokes the session and returns the identity that owned it so the
// caller can evict the user's live chat connections.
func (s *Service) Logout(ctx context.Context, credential string) (string, error) {
	return s.sessions.Revoke(ctx, credential)
}

// UserIdentity converts a database user ID to the identity string shared
// between the session store, the chat gateway and the social graph.
func UserIdentity(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseIdentity converts an identity string back to the database user ID.
func ParseIdentity(identity string) (uint, error) {
	id, err := strconv.ParseUint(identity, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
