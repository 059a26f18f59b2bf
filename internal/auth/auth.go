// Package auth manages admin-console operator accounts and sessions.
//
// Passwords are stored as bcrypt hashes. A login mints a session row
// plus a signed token carrying the session id and role; validation
// checks both the signature and the row, so deleting the row revokes
// the token immediately.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dcorpo/intel/internal/platform/id"
	"github.com/dcorpo/intel/internal/storage"
)

const (
	// RoleAdmin is the only role the console grants today.
	RoleAdmin = "admin"

	// MinPasswordLength bounds operator passwords.
	MinPasswordLength = 8

	defaultIssuer     = "dcorpo-intel"
	defaultSessionTTL = 24 * time.Hour
	minKeyLength      = 32
)

var (
	// ErrInvalidCredentials covers both unknown emails and wrong
	// passwords so login failures stay indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSession indicates a missing, expired, revoked, or
	// tampered session token.
	ErrInvalidSession = errors.New("session is invalid")
	// ErrWeakPassword indicates the password failed the length floor.
	ErrWeakPassword = errors.New("password is too short")
)

// Store is the persistence surface the service needs.
type Store interface {
	storage.OperatorStore
	storage.SessionStore
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	OperatorID string
	SessionID  string
	Email      string
	Role       string
	ExpiresAt  time.Time
}

// IsAdmin reports whether the identity may operate the newsroom.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Config carries the session settings for a Service.
type Config struct {
	// SessionKey is the HMAC signing key for session tokens. At least
	// 32 bytes.
	SessionKey []byte
	SessionTTL time.Duration
	Issuer     string
	Now        func() time.Time
	// IDGenerator overrides session id generation in tests.
	IDGenerator func() (string, error)
}

// Service issues and validates operator sessions.
type Service struct {
	store       Store
	key         []byte
	ttl         time.Duration
	issuer      string
	now         func() time.Time
	idGenerator func() (string, error)
}

// NewService validates cfg and returns a ready Service.
func NewService(store Store, cfg Config) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if len(cfg.SessionKey) < minKeyLength {
		return nil, fmt.Errorf("session key must be at least %d bytes", minKeyLength)
	}
	service := &Service{
		store:       store,
		key:         cfg.SessionKey,
		ttl:         cfg.SessionTTL,
		issuer:      strings.TrimSpace(cfg.Issuer),
		now:         cfg.Now,
		idGenerator: cfg.IDGenerator,
	}
	if service.ttl <= 0 {
		service.ttl = defaultSessionTTL
	}
	if service.issuer == "" {
		service.issuer = defaultIssuer
	}
	if service.now == nil {
		service.now = time.Now
	}
	if service.idGenerator == nil {
		service.idGenerator = id.NewID
	}
	return service, nil
}

// CreateOperator registers one admin-console account.
func (s *Service) CreateOperator(ctx context.Context, email, password, role string) (storage.Operator, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return storage.Operator{}, fmt.Errorf("email is required")
	}
	if len(password) < MinPasswordLength {
		return storage.Operator{}, ErrWeakPassword
	}
	role = strings.TrimSpace(role)
	if role == "" {
		role = RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return storage.Operator{}, fmt.Errorf("hash password: %w", err)
	}

	operatorID, err := s.idGenerator()
	if err != nil {
		return storage.Operator{}, fmt.Errorf("generate operator id: %w", err)
	}

	record := storage.Operator{
		ID:           operatorID,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.InsertOperator(ctx, record); err != nil {
		return storage.Operator{}, fmt.Errorf("insert operator: %w", err)
	}
	return record, nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Login checks credentials and mints a session. The returned token is
// opaque to callers and goes into the session cookie.
func (s *Service) Login(ctx context.Context, email, password string) (token string, expiresAt time.Time, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	operator, err := s.store.GetOperatorByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		// Burn a comparison so unknown emails cost the same as wrong
		// passwords.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000uGZzH1h0X4fJr6d9u1yW3qfG9uD9O5e"), []byte(password))
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("get operator: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return s.issueSession(ctx, operator)
}

func (s *Service) issueSession(ctx context.Context, operator storage.Operator) (string, time.Time, error) {
	sessionID, err := s.idGenerator()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate session id: %w", err)
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	record := storage.Session{
		ID:         sessionID,
		OperatorID: operator.ID,
		CreatedAt:  now,
		ExpiresAt:  expiresAt,
	}
	if err := s.store.InsertSession(ctx, record); err != nil {
		return "", time.Time{}, fmt.Errorf("insert session: %w", err)
	}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   operator.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: operator.Role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// Validate checks a session token against its signature and the
// backing session row. Past the session half-life it rotates the
// session and returns a replacement token; refreshed is empty
// otherwise.
func (s *Service) Validate(ctx context.Context, token string) (identity Identity, refreshed string, err error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return Identity{}, "", err
	}

	session, err := s.store.GetSession(ctx, claims.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return Identity{}, "", ErrInvalidSession
	}
	if err != nil {
		return Identity{}, "", fmt.Errorf("get session: %w", err)
	}

	now := s.now().UTC()
	if !session.ExpiresAt.After(now) {
		_ = s.store.DeleteSession(ctx, session.ID)
		return Identity{}, "", ErrInvalidSession
	}

	operator, err := s.store.GetOperator(ctx, session.OperatorID)
	if errors.Is(err, storage.ErrNotFound) {
		_ = s.store.DeleteSession(ctx, session.ID)
		return Identity{}, "", ErrInvalidSession
	}
	if err != nil {
		return Identity{}, "", fmt.Errorf("get operator: %w", err)
	}

	identity = Identity{
		OperatorID: operator.ID,
		SessionID:  session.ID,
		Email:      operator.Email,
		Role:       operator.Role,
		ExpiresAt:  session.ExpiresAt,
	}

	if session.ExpiresAt.Sub(now) < s.ttl/2 {
		refreshed, expiresAt, err := s.issueSession(ctx, operator)
		if err != nil {
			// The current session still works; rotation can wait for
			// the next request.
			return identity, "", nil
		}
		_ = s.store.DeleteSession(ctx, session.ID)
		identity.ExpiresAt = expiresAt
		return identity, refreshed, nil
	}
	return identity, "", nil
}

// Logout revokes the session behind the token. Unknown or tampered
// tokens are not an error; the cookie gets cleared regardless.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil
	}
	if err := s.store.DeleteSession(ctx, claims.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions removes session rows past their expiry.
func (s *Service) PurgeExpiredSessions(ctx context.Context) error {
	if err := s.store.DeleteExpiredSessions(ctx, s.now().UTC()); err != nil {
		return fmt.Errorf("purge expired sessions: %w", err)
	}
	return nil
}

func (s *Service) parseToken(token string) (*sessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidSession
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }),
	)
	if err != nil {
		return nil, ErrInvalidSession
	}
	if strings.TrimSpace(claims.ID) == "" || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidSession
	}
	return &claims, nil
}
