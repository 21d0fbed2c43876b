package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/book-catalog/internal/auth"
	"github.com/spec-kit/book-catalog/internal/config"
	"github.com/spec-kit/book-catalog/internal/domain"
	"github.com/spec-kit/book-catalog/internal/events"
	"github.com/spec-kit/book-catalog/internal/repository"
	apperrors "github.com/spec-kit/book-catalog/pkg/util"
)

// TokenPair bundles a freshly issued access/refresh credential pair.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// RegisterInput describes signup payload.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthService coordinates signup, login, refresh and logout flows.
type AuthService struct {
	users      repository.UserRepository
	codec      *auth.Codec
	denylist   auth.Denylist
	dispatcher events.Dispatcher
	bcryptCost int
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Codec      *auth.Codec
	Denylist   auth.Denylist
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		codec:      deps.Codec,
		denylist:   deps.Denylist,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.BcryptCost,
		accessTTL:  cfg.AccessTokenTTL(),
		refreshTTL: cfg.RefreshTokenTTL(),
	}
}

// Register creates a new account with the default role.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         domain.RoleUser,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.UID, events.UserRegisteredPayload{
		Username: user.Username,
		Email:    user.Email,
	})
	return user, nil
}

// Login authenticates by email and password and issues a token pair.
// Unknown email and wrong password produce the same failure so responses
// cannot be used to probe for accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewInvalidCredentials()
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewInvalidCredentials()
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.EventUserLoggedIn, user.UID, events.UserLoggedInPayload{Email: user.Email})
	return user, pair, nil
}

// Refresh redeems a verified refresh token for a new pair. The redeemed
// token stays usable until expiry or logout; only the denylist ends it
// early.
func (s *AuthService) Refresh(ctx context.Context, claims *auth.Claims) (*domain.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, claims.User.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUserNotFound()
		}
		return nil, nil, err
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.EventTokenRefreshed, user.UID, events.TokenRefreshedPayload{
		RedeemedJTI: claims.TokenID(),
	})
	return user, pair, nil
}

// Logout revokes the presented token's id. Revoking an already-revoked id
// is not an error.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.denylist.Revoke(ctx, claims.TokenID()); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}

	s.publish(ctx, events.EventTokenRevoked, claims.User.UID, events.TokenRevokedPayload{
		JTI: claims.TokenID(),
	})
	return nil
}

// ListUsers returns all accounts, newest first.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *AuthService) issuePair(user *domain.User) (*TokenPair, error) {
	claim := domain.UserClaim{UID: user.UID, Username: user.Username, Email: user.Email}

	accessToken, accessExp, err := s.codec.Issue(claim, false, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExp, err := s.codec.Issue(claim, true, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userUID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserUID:   userUID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
