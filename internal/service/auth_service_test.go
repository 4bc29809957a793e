package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/idtoken"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/util"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.StaffUser
	byID    map[uuid.UUID]*domain.StaffUser

	upserted    *domain.StaffUser
	lastLoginID uuid.UUID
}

func (f *fakeUserRepo) Create(_ context.Context, email, fullName, role string, passwordHash []byte) (*domain.StaffUser, error) {
	user := &domain.StaffUser{ID: uuid.New(), Email: email, FullName: fullName, Role: role, PasswordHash: passwordHash, IsActive: true}
	return user, nil
}

func (f *fakeUserRepo) UpsertGoogleUser(_ context.Context, email string, fullName *string) (*domain.StaffUser, error) {
	if user, ok := f.byEmail[email]; ok {
		f.upserted = user
		return user, nil
	}
	name := ""
	if fullName != nil {
		name = *fullName
	}
	user := &domain.StaffUser{ID: uuid.New(), Email: email, FullName: name, Role: "staff", IsActive: true}
	f.upserted = user
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.StaffUser, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.StaffUser, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) TouchLastLogin(_ context.Context, id uuid.UUID, _ time.Time) error {
	f.lastLoginID = id
	return nil
}

func newTestAuth(users *fakeUserRepo, googleAudience string) *AuthService {
	jwtManager := util.NewJWTManager("test-secret-test-secret-test-secret", time.Hour)
	return NewAuthService(users, jwtManager, googleAudience)
}

func activeUser(t *testing.T, email, password string) *domain.StaffUser {
	t.Helper()
	hash, err := util.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &domain.StaffUser{ID: uuid.New(), Email: email, FullName: "Test Staff", Role: "staff", PasswordHash: hash, IsActive: true}
}

func TestLogin(t *testing.T) {
	user := activeUser(t, "ana@agency.test", "s3cret-pass")
	users := &fakeUserRepo{
		byEmail: map[string]*domain.StaffUser{user.Email: user},
		byID:    map[uuid.UUID]*domain.StaffUser{user.ID: user},
	}
	svc := newTestAuth(users, "")

	got, token, err := svc.Login(context.Background(), "  ANA@agency.test ", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != user.ID || token == "" {
		t.Fatalf("got user %v, token %q", got.ID, token)
	}
	if users.lastLoginID != user.ID {
		t.Fatal("last login not recorded")
	}

	// The issued token must round-trip through Authenticate.
	authed, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if authed.Email != user.Email {
		t.Fatalf("authenticated as %q", authed.Email)
	}
}

func TestLoginRejections(t *testing.T) {
	user := activeUser(t, "ana@agency.test", "s3cret-pass")
	disabled := activeUser(t, "off@agency.test", "s3cret-pass")
	disabled.IsActive = false
	users := &fakeUserRepo{byEmail: map[string]*domain.StaffUser{
		user.Email:     user,
		disabled.Email: disabled,
	}}
	svc := newTestAuth(users, "")

	if _, _, err := svc.Login(context.Background(), "ghost@agency.test", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: err = %v", err)
	}
	if _, _, err := svc.Login(context.Background(), user.Email, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password: err = %v", err)
	}
	if _, _, err := svc.Login(context.Background(), disabled.Email, "s3cret-pass"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("disabled account: err = %v", err)
	}
}

func TestLoginWithGoogle(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*domain.StaffUser{}}
	svc := newTestAuth(users, "client-id.apps.test")
	svc.validateIDToken = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		if token != "good-token" || audience != "client-id.apps.test" {
			return nil, errors.New("bad token")
		}
		return &idtoken.Payload{Claims: map[string]any{"email": "New@Agency.Test", "name": "New Staff"}}, nil
	}

	user, token, err := svc.LoginWithGoogle(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("LoginWithGoogle: %v", err)
	}
	if user.Email != "new@agency.test" || token == "" {
		t.Fatalf("user = %+v", user)
	}
	if users.upserted == nil {
		t.Fatal("account not upserted")
	}

	if _, _, err := svc.LoginWithGoogle(context.Background(), "bad-token"); !errors.Is(err, ErrInvalidGoogleToken) {
		t.Fatalf("bad token: err = %v", err)
	}
}

func TestLoginWithGoogleNotConfigured(t *testing.T) {
	svc := newTestAuth(&fakeUserRepo{}, "")
	if _, _, err := svc.LoginWithGoogle(context.Background(), "any"); !errors.Is(err, ErrGoogleNotConfigured) {
		t.Fatalf("err = %v, want ErrGoogleNotConfigured", err)
	}
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	svc := newTestAuth(&fakeUserRepo{}, "")
	if _, err := svc.Authenticate(context.Background(), "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestAuthenticateRejectsDeactivatedUser(t *testing.T) {
	user := activeUser(t, "ana@agency.test", "s3cret-pass")
	users := &fakeUserRepo{
		byEmail: map[string]*domain.StaffUser{user.Email: user},
		byID:    map[uuid.UUID]*domain.StaffUser{user.ID: user},
	}
	svc := newTestAuth(users, "")

	_, token, err := svc.Login(context.Background(), user.Email, "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Deactivation takes effect on the next request even with a live token.
	user.IsActive = false
	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("err = %v, want ErrAccountDisabled", err)
	}
}
