package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
)

var (
	ErrInvalidInput       = errors.New("invalid email or password")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const minPasswordLength = 8

// Service implements account sign-up, sign-in and session tracking.
type Service struct {
	Repo      Repo
	Passwords *auth.PasswordConfig
	TTL       time.Duration

	mu     sync.Mutex
	subs   map[uint64]func(AuthEvent)
	nextID uint64
}

func NewService(repo Repo, passwords *auth.PasswordConfig) *Service {
	return &Service{
		Repo:      repo,
		Passwords: passwords,
		TTL:       auth.DefaultTTL,
		subs:      make(map[uint64]func(AuthEvent)),
	}
}

// CreateAccount registers a password account and announces it.
func (s *Service) CreateAccount(ctx context.Context, email, password, fullName string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !model.ValidEmail(email) || len(password) < minPasswordLength {
		return User{}, ErrInvalidInput
	}
	hash, err := s.Passwords.HashPassword(password)
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		Provider:     ProviderPassword,
		PasswordHash: hash,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	created, err := s.Repo.GetByID(ctx, user.ID)
	if err != nil {
		return User{}, err
	}
	s.publish(EventSignedUp, created)
	return created, nil
}

// SignIn checks the password and issues a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	user, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if user.PasswordHash == "" || !s.Passwords.VerifyPassword(password, user.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}
	return s.IssueSession(user)
}

// IssueSession signs a token for an already authenticated user and announces the sign-in.
func (s *Service) IssueSession(user User) (Session, error) {
	expires := time.Now().UTC().Add(s.ttl()).Truncate(time.Second)
	token, err := auth.SignJWT(auth.Claims{
		Email:   user.Email,
		Name:    user.FullName,
		Picture: user.PictureURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	s.publish(EventSignedIn, user)
	return Session{Token: token, User: user, ExpiresAt: expires}, nil
}

// UpsertFromAuth stores an identity confirmed by an external provider.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) (User, error) {
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return User{}, errors.New("user id and email are required")
	}
	if err := s.Repo.Upsert(ctx, user); err != nil {
		return User{}, err
	}
	return s.Repo.GetByID(ctx, user.ID)
}

// SignOut revokes the token until it would have expired. Invalid tokens are ignored.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := auth.VerifyJWT(token)
	if err != nil {
		return nil
	}
	expires := time.Now().Add(s.ttl())
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	if err := s.Repo.Revoke(ctx, claims.ID, expires); err != nil {
		return err
	}
	user, err := s.Repo.GetByID(ctx, claims.Subject)
	if err != nil {
		user = User{ID: claims.Subject, Email: claims.Email}
	}
	s.publish(EventSignedOut, user)
	return nil
}

// CurrentUser resolves a token to its user. Missing, invalid and revoked tokens yield nil.
func (s *Service) CurrentUser(ctx context.Context, token string) (*User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	claims, err := auth.VerifyJWT(token)
	if err != nil {
		return nil, nil
	}
	revoked, err := s.Repo.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, nil
	}
	user, err := s.Repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// IsRevoked reports whether a token id was signed out.
func (s *Service) IsRevoked(ctx context.Context, tokenID string) bool {
	revoked, err := s.Repo.IsRevoked(ctx, tokenID)
	if err != nil {
		telemetry.Error("auth.revocation_check_failed", map[string]any{"err": err})
		return false
	}
	return revoked
}

// Subscribe registers cb for auth events. The returned function unsubscribes and may be
// called more than once.
func (s *Service) Subscribe(cb func(AuthEvent)) func() {
	s.mu.Lock()
	if s.subs == nil {
		s.subs = make(map[uint64]func(AuthEvent))
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = cb
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Service) publish(kind EventType, user User) {
	event := AuthEvent{Type: kind, User: user, At: time.Now().UTC()}
	s.mu.Lock()
	subs := make([]func(AuthEvent), 0, len(s.subs))
	for _, cb := range s.subs {
		subs = append(subs, cb)
	}
	s.mu.Unlock()

	telemetry.Info("auth."+string(kind), map[string]any{"user_id": user.ID})
	for _, cb := range subs {
		cb(event)
	}
}

func (s *Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return auth.DefaultTTL
}
