package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/repository/ports"
	"github.com/tripmaster/trip-scout/internal/util"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountDisabled     = errors.New("account is disabled")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrGoogleNotConfigured = errors.New("google sign-in is not configured")
	ErrInvalidGoogleToken  = errors.New("invalid google token")
)

type AuthService struct {
	users ports.UserRepository
	jwt   *util.JWTManager
	aud   string

	// validateIDToken is swapped out in tests; it defaults to
	// idtoken.Validate against Google's certs.
	validateIDToken func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewAuthService(users ports.UserRepository, jwtManager *util.JWTManager, googleAudience string) *AuthService {
	return &AuthService{
		users:           users,
		jwt:             jwtManager,
		aud:             googleAudience,
		validateIDToken: idtoken.Validate,
	}
}

// Login verifies a password credential and issues a signed session token.
// Lookup misses and bad passwords both report ErrInvalidCredentials so the
// response never reveals whether an email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.StaffUser, string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !util.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", ErrAccountDisabled
	}
	return s.issue(ctx, user)
}

// LoginWithGoogle validates a Google ID token and upserts the staff account.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idTok string) (*domain.StaffUser, string, error) {
	if s.aud == "" {
		return nil, "", ErrGoogleNotConfigured
	}
	payload, err := s.validateIDToken(ctx, idTok, s.aud)
	if err != nil {
		return nil, "", ErrInvalidGoogleToken
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, "", ErrInvalidGoogleToken
	}
	var fullName *string
	if name, _ := payload.Claims["name"].(string); name != "" {
		fullName = &name
	}

	user, err := s.users.UpsertGoogleUser(ctx, normalizeEmail(email), fullName)
	if err != nil {
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", ErrAccountDisabled
	}
	return s.issue(ctx, user)
}

// Authenticate resolves a session token to its active staff account. Used by
// the auth middleware on every request.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.StaffUser, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// Refresh re-issues a token for an already authenticated user, sliding the
// session expiry forward.
func (s *AuthService) Refresh(user *domain.StaffUser) (string, time.Time, error) {
	return s.jwt.Generate(user.ID, user.Email, user.Role)
}

func (s *AuthService) TokenTTL() time.Duration { return s.jwt.TTL() }

func (s *AuthService) issue(ctx context.Context, user *domain.StaffUser) (*domain.StaffUser, string, error) {
	if err := s.users.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		log.Printf("auth: could not record last login for %s: %v", user.Email, err)
	}
	token, _, err := s.jwt.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
