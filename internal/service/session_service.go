package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/avidya-edu/academy-cms-gateway/internal/models"
	"github.com/avidya-edu/academy-cms-gateway/pkg/config"
	apperrors "github.com/avidya-edu/academy-cms-gateway/pkg/errors"
)

const sessionKeyPrefix = "session:"

// SessionStore persists session blobs; satisfied by the cache repository.
type SessionStore interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// SessionService guards the admin surface with a single configured
// credential. Login compares against a bcrypt hash and issues a JWT that
// references a Redis-persisted session, so logout and expiry are enforced
// server-side rather than trusting the token alone.
type SessionService struct {
	cfg    config.SessionConfig
	store  SessionStore
	audit  AuditRecorder
	logger *zap.Logger
	now    func() time.Time
}

// SessionServiceParams collects the session service dependencies.
type SessionServiceParams struct {
	Config config.SessionConfig
	Store  SessionStore
	Audit  AuditRecorder
	Logger *zap.Logger
}

// NewSessionService builds a SessionService.
func NewSessionService(p SessionServiceParams) *SessionService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	return &SessionService{
		cfg:    p.Config,
		store:  p.Store,
		audit:  p.Audit,
		logger: p.Logger,
		now:    time.Now,
	}
}

// Login verifies the credential and issues a session token.
func (s *SessionService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.Username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordBcrypt), []byte(req.Password))
	if !usernameOK || passwordErr != nil {
		s.logger.Info("login refused", zap.String("username", req.Username), zap.String("ip", req.IP))
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := models.Session{
		ID:        uuid.NewString(),
		Username:  req.Username,
		LoginTime: now,
		IsAdmin:   true,
	}
	if err := s.store.Set(ctx, sessionKeyPrefix+session.ID, session, s.cfg.TTL); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to persist session")
	}

	claims := models.SessionClaims{
		SessionID: session.ID,
		Username:  session.Username,
		IsAdmin:   true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
			Subject:   session.Username,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.TokenSecret))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to sign session token")
	}

	s.recordAuth(ctx, req, models.AuditActionLogin)

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.cfg.TTL.Seconds()),
		IssuedAt:  now,
		Username:  session.Username,
	}, nil
}

// Validate checks a bearer token and returns the backing session. Expired or
// revoked sessions are cleared as a side effect, so a stale token fails the
// same way on every subsequent request.
func (s *SessionService) Validate(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}

	key := sessionKeyPrefix + claims.SessionID
	var session models.Session
	if err := s.store.Get(ctx, key, &session); err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCacheMiss.Code {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to load session")
	}

	if s.now().UTC().Sub(session.LoginTime) > s.cfg.TTL {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to clear expired session", zap.Error(err))
		}
		return nil, apperrors.ErrSessionExpired
	}

	return &session, nil
}

// Logout revokes the session behind the token. An already-invalid token is
// not an error; logout is idempotent.
func (s *SessionService) Logout(ctx context.Context, token string, req models.LoginRequest) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil
	}
	if err := s.store.Delete(ctx, sessionKeyPrefix+claims.SessionID); err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to revoke session")
	}
	req.Username = claims.Username
	s.recordAuth(ctx, req, models.AuditActionLogout)
	return nil
}

func (s *SessionService) parseToken(token string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.TokenSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, apperrors.ErrUnauthorized
	}
	if !parsed.Valid || claims.SessionID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}

func (s *SessionService) recordAuth(ctx context.Context, req models.LoginRequest, action string) {
	if s.audit == nil {
		return
	}
	entry := models.AuditLog{
		ID:        uuid.NewString(),
		Actor:     req.Username,
		Action:    action,
		Resource:  "session",
		IPAddress: req.IP,
		UserAgent: req.UserAgent,
		CreatedAt: s.now().UTC(),
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}
