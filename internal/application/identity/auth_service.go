package identity

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/agoramall/backend/internal/domain/identity"
	"github.com/agoramall/backend/internal/domain/moderation"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/infrastructure/auth"
	"github.com/agoramall/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts     int           // Failed logins before the account locks
	LockDuration         time.Duration // How long the account stays locked
	VerificationLifetime time.Duration // Validity window of the email verification code
	NicknameAttempts     int           // Tries to find a free generated nickname
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts:     5,
		LockDuration:         15 * time.Minute,
		VerificationLifetime: 5 * time.Minute,
		NicknameAttempts:     5,
	}
}

// AuthService handles registration, verification and authentication
type AuthService struct {
	userRepo     identity.UserRepository
	jwtService   *auth.JWTService
	csrfService  *auth.CSRFService
	signer       *auth.TokenSigner
	blacklist    auth.TokenBlacklist
	loginLimiter cache.AttemptLimiter
	oauthClient  *auth.OAuthClient
	profanity    *moderation.Filter
	publisher    shared.EventPublisher
	config       AuthServiceConfig
	logger       *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	csrfService *auth.CSRFService,
	signer *auth.TokenSigner,
	blacklist auth.TokenBlacklist,
	loginLimiter cache.AttemptLimiter,
	oauthClient *auth.OAuthClient,
	profanity *moderation.Filter,
	publisher shared.EventPublisher,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtService:   jwtService,
		csrfService:  csrfService,
		signer:       signer,
		blacklist:    blacklist,
		loginLimiter: loginLimiter,
		oauthClient:  oauthClient,
		profanity:    profanity,
		publisher:    publisher,
		config:       config,
		logger:       logger,
	}
}

// Register creates a pending account and returns the signed verification
// code the caller delivers to the user.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if input.Password != input.PasswordConfirm {
		return nil, shared.NewDomainError("INVALID_INPUT", "password confirmation does not match")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "email is already registered")
	}

	var user *identity.User
	if input.Nickname == "" {
		nickname, err := s.generateNickname(ctx)
		if err != nil {
			return nil, err
		}
		user, err = identity.NewUserWithGeneratedNickname(input.Email, nickname, input.Password)
		if err != nil {
			return nil, err
		}
	} else {
		if s.profanity.Contains(input.Nickname) {
			return nil, shared.ErrProfanityDetected
		}
		taken, err := s.userRepo.ExistsByNickname(ctx, input.Nickname)
		if err != nil {
			s.logger.Error("Failed to check nickname existence", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register")
		}
		if taken {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "nickname is already taken")
		}
		user, err = identity.NewUser(input.Email, input.Nickname, input.Password)
		if err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "email or nickname is already taken")
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register")
	}
	s.publishEvents(ctx, user)

	code := s.signer.Sign(user.ID.String(), s.config.VerificationLifetime)

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return &RegisterResult{
		User:             NewUserInfo(user),
		VerificationCode: code,
	}, nil
}

// VerifyEmail activates a pending account from its signed verification code
func (s *AuthService) VerifyEmail(ctx context.Context, input VerifyEmailInput) (*UserInfo, error) {
	value, err := s.signer.Verify(input.Code)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrSignatureExpired):
			return nil, shared.ErrSignatureExpired
		default:
			return nil, shared.ErrInvalidSignature
		}
	}

	userID, err := uuid.Parse(value)
	if err != nil {
		return nil, shared.ErrInvalidSignature
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrInvalidSignature
	}

	if err := user.VerifyEmail(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after verification", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify email")
	}
	s.publishEvents(ctx, user)

	s.logger.Info("Email verified", zap.String("user_id", user.ID.String()))

	info := NewUserInfo(user)
	return &info, nil
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt", zap.String("email", input.Email))

	if input.ClientIP != "" {
		allowed, err := s.loginLimiter.Hit(ctx, throttleKey(input.ClientIP))
		if err != nil {
			s.logger.Error("Login throttle check failed", zap.Error(err))
		} else if !allowed {
			s.logger.Warn("Login throttled", zap.String("client_ip", input.ClientIP))
			return nil, shared.ErrRateLimited
		}
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Warn("User not found during login", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("email", input.Email))
			return nil, shared.ErrAccountLocked
		}
		switch user.Status {
		case identity.UserStatusDeactivated:
			return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
		case identity.UserStatusPending:
			return nil, shared.NewDomainError("ACCOUNT_PENDING", "Account is awaiting email verification")
		}
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	if !user.CheckPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error("Failed to update user after login failure", zap.Error(err))
		}
		s.publishEvents(ctx, user)

		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("email", input.Email),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.ErrAccountLocked
		}

		s.logger.Warn("Invalid password attempt",
			zap.String("email", input.Email),
			zap.Int("failed_attempts", user.FailedLoginAttempts))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Log and continue; tokens are already issued
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}
	if input.ClientIP != "" {
		if err := s.loginLimiter.Reset(ctx, throttleKey(input.ClientIP)); err != nil {
			s.logger.Warn("Failed to reset login throttle", zap.Error(err))
		}
	}

	s.logger.Info("User logged in",
		zap.String("email", input.Email),
		zap.String("user_id", user.ID.String()))

	return result, nil
}

// Refresh exchanges a valid refresh token and CSRF token for a new pair
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*RefreshResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	if blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID); err != nil {
		s.logger.Error("Blacklist check failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh token")
	} else if blacklisted {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token has been revoked")
	}
	if invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime()); err != nil {
		s.logger.Error("Blacklist check failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh token")
	} else if invalidated {
		return nil, shared.NewDomainError("TOKEN_INVALID", "All sessions for this user have been revoked")
	}

	if err := s.csrfService.Validate(input.CSRFToken, claims.UserID); err != nil {
		s.logger.Warn("CSRF validation failed during refresh", zap.Error(err))
		return nil, shared.NewDomainError("INVALID_SIGNATURE", "Invalid CSRF token")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "User no longer exists")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, user.Nickname, user.Role.String())
	if err != nil {
		return nil, mapTokenError(err)
	}

	csrfToken, err := s.csrfService.Issue(user.ID.String())
	if err != nil {
		s.logger.Error("Failed to issue CSRF token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh token")
	}

	s.logger.Info("Token refreshed", zap.String("user_id", user.ID.String()))

	return &RefreshResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		CSRFToken:             csrfToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout blacklists the refresh token until its natural expiry
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		// An expired or invalid token needs no blacklisting
		s.logger.Info("Logout with unusable refresh token", zap.Error(err))
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to blacklist refresh token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}

	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// OAuthCallback exchanges the provider code, finds or creates the local
// account and issues a token pair.
func (s *AuthService) OAuthCallback(ctx context.Context, input OAuthCallbackInput) (*OAuthCallbackResult, error) {
	if !s.oauthClient.HasProvider(input.Provider) {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("unknown provider: %s", input.Provider))
	}

	accessToken, err := s.oauthClient.Exchange(ctx, input.Provider, input.Code)
	if err != nil {
		s.logger.Warn("OAuth code exchange failed",
			zap.String("provider", input.Provider), zap.Error(err))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Failed to authenticate with provider")
	}

	profile, err := s.oauthClient.FetchProfile(ctx, input.Provider, accessToken)
	if err != nil {
		s.logger.Warn("OAuth profile fetch failed",
			zap.String("provider", input.Provider), zap.Error(err))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Failed to fetch provider profile")
	}
	if profile.Email == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "provider did not supply an email address")
	}

	created := false
	user, err := s.userRepo.FindByEmail(ctx, profile.Email)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Failed to look up OAuth user", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to authenticate")
		}
		user, err = s.createOAuthUser(ctx, profile.Email)
		if err != nil {
			return nil, err
		}
		created = true
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			return nil, shared.ErrAccountLocked
		}
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after OAuth login", zap.Error(err))
	}

	s.logger.Info("OAuth login",
		zap.String("provider", input.Provider),
		zap.String("user_id", user.ID.String()),
		zap.Bool("created", created))

	return &OAuthCallbackResult{LoginResult: *result, Created: created}, nil
}

// issueTokens generates the JWT pair and a CSRF token for the user
func (s *AuthService) issueTokens(user *identity.User) (*LoginResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Nickname: user.Nickname,
		Role:     user.Role.String(),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	csrfToken, err := s.csrfService.Issue(user.ID.String())
	if err != nil {
		s.logger.Error("Failed to issue CSRF token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		CSRFToken:             csrfToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  NewUserInfo(user),
	}, nil
}

// createOAuthUser creates an active account with a generated nickname and
// an unguessable password for a first-time social login.
func (s *AuthService) createOAuthUser(ctx context.Context, email string) (*identity.User, error) {
	nickname, err := s.generateNickname(ctx)
	if err != nil {
		return nil, err
	}

	// the password is never used directly; social users authenticate
	// through the provider
	password := fmt.Sprintf("Oa1!%s", uuid.NewString())

	user, err := identity.NewUserWithGeneratedNickname(email, nickname, password)
	if err != nil {
		return nil, err
	}
	// the provider already verified the email
	now := time.Now()
	user.Status = identity.UserStatusActive
	user.EmailVerified = true
	user.EmailVerifiedAt = &now

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create OAuth user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}
	s.publishEvents(ctx, user)
	return user, nil
}

// generateNickname picks a random adjective_animal#NNNN name not yet taken
func (s *AuthService) generateNickname(ctx context.Context) (string, error) {
	attempts := s.config.NicknameAttempts
	if attempts <= 0 {
		attempts = 5
	}
	for i := 0; i < attempts; i++ {
		candidate := identity.NumberedNickname(identity.RandomNicknameBase(), rand.Intn(10000))
		taken, err := s.userRepo.ExistsByNickname(ctx, candidate)
		if err != nil {
			s.logger.Error("Failed to check generated nickname", zap.Error(err))
			return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to generate nickname")
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to find a free nickname")
}

// publishEvents drains and publishes the aggregate's domain events
func (s *AuthService) publishEvents(ctx context.Context, user *identity.User) {
	if s.publisher == nil {
		return
	}
	for _, event := range user.GetDomainEvents() {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish domain event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
	user.ClearDomainEvents()
}

func throttleKey(clientIP string) string {
	return "login:" + clientIP
}

// mapTokenError converts JWT validation errors to domain errors
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate token")
	}
}
