package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"projecthub/internal/access"
	"projecthub/internal/identity/domain"
	identityrepo "projecthub/internal/identity/repository"
	"projecthub/internal/security"
	sessiondomain "projecthub/internal/session/domain"
	sessionrepo "projecthub/internal/session/repository"
)

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	SessionID        string
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthService handles registration, credential login, refresh rotation, and
// logout. Tokens carry only the session and subject; role and department stay
// in storage so changes take effect on the next request, not the next login.
type AuthService struct {
	principals identityrepo.Repository
	sessions   sessionrepo.Repository
	hasher     *security.Hasher
	tokens     *security.TokenProvider
}

func NewAuthService(principals identityrepo.Repository, sessions sessionrepo.Repository, hasher *security.Hasher, tokens *security.TokenProvider) *AuthService {
	return &AuthService{
		principals: principals,
		sessions:   sessions,
		hasher:     hasher,
		tokens:     tokens,
	}
}

// Register creates a standard active principal. The first role assignment is
// a separate administrator operation.
func (s *AuthService) Register(ctx context.Context, email, name, password, department string) (*domain.Principal, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", access.ErrInvalidArgument)
	}
	existing, err := s.principals.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", access.ErrInvalidArgument)
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	p := &domain.Principal{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RoleStandard,
		Department:   department,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", access.ErrInvalidArgument, err)
	}
	if err := s.principals.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create principal: %w", err)
	}
	return p, nil
}

// Login verifies credentials and opens a new session. Credential failures and
// disabled accounts collapse into one error so login cannot probe account state.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	p, err := s.principals.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if p == nil || p.Status != domain.StatusActive {
		return nil, access.ErrUnauthenticated
	}
	if err := s.hasher.Compare(p.PasswordHash, []byte(password)); err != nil {
		return nil, access.ErrUnauthenticated
	}

	sessionID := uuid.New().String()
	pair, refreshJTI, err := s.issuePair(sessionID, p.ID)
	if err != nil {
		return nil, err
	}
	sess := &sessiondomain.Session{
		ID:               sessionID,
		PrincipalID:      p.ID,
		RefreshJTI:       refreshJTI,
		RefreshTokenHash: security.HashRefreshToken(pair.RefreshToken),
		ExpiresAt:        pair.RefreshExpiresAt,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return pair, nil
}

// Refresh rotates the refresh token and issues a fresh pair. Presenting a
// stale refresh token (jti or hash mismatch) revokes the whole session, since
// it means the token leaked or replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	sessionID, jti, principalID, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, access.ErrUnauthenticated
	}
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	now := time.Now().UTC()
	if sess == nil || !sess.Usable(now) || sess.PrincipalID != principalID {
		return nil, access.ErrUnauthenticated
	}
	if sess.RefreshJTI != jti || !security.RefreshTokenHashEqual(refreshToken, sess.RefreshTokenHash) {
		_ = s.sessions.Revoke(ctx, sess.ID, now)
		return nil, access.ErrUnauthenticated
	}

	p, err := s.principals.GetByID(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("lookup principal: %w", err)
	}
	if p == nil || p.Status != domain.StatusActive {
		return nil, access.ErrUnauthenticated
	}

	pair, refreshJTI, err := s.issuePair(sess.ID, p.ID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Rotate(ctx, sess.ID, refreshJTI, security.HashRefreshToken(pair.RefreshToken), pair.RefreshExpiresAt, now); err != nil {
		return nil, fmt.Errorf("rotate session: %w", err)
	}
	return pair, nil
}

// Logout revokes the session; outstanding access tokens expire on their own TTL.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Revoke(ctx, sessionID, time.Now().UTC())
}

// Resolve re-reads the principal behind a validated access token. Returns
// ErrUnauthenticated when the session is revoked or the principal is missing
// or disabled, so a disable takes effect mid-session.
func (s *AuthService) Resolve(ctx context.Context, sessionID, principalID string) (*domain.Principal, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if sess == nil || sess.RevokedAt != nil || sess.PrincipalID != principalID {
		return nil, access.ErrUnauthenticated
	}
	p, err := s.principals.GetByID(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("lookup principal: %w", err)
	}
	if p == nil || p.Status != domain.StatusActive {
		return nil, access.ErrUnauthenticated
	}
	return p, nil
}

func (s *AuthService) issuePair(sessionID, principalID string) (*TokenPair, string, error) {
	accessToken, _, accessExp, err := s.tokens.IssueAccess(sessionID, principalID)
	if err != nil {
		return nil, "", fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, refreshJTI, refreshExp, err := s.tokens.IssueRefresh(sessionID, principalID)
	if err != nil {
		return nil, "", fmt.Errorf("issue refresh token: %w", err)
	}
	return &TokenPair{
		SessionID:        sessionID,
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, refreshJTI, nil
}
