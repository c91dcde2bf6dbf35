package identity

import (
	"context"

	"github.com/agoramall/backend/internal/domain/identity"
	"github.com/agoramall/backend/internal/domain/moderation"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles profile and staff user management operations
type UserService struct {
	userRepo  identity.UserRepository
	profanity *moderation.Filter
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	profanity *moderation.Filter,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		profanity: profanity,
		publisher: publisher,
		logger:    logger,
	}
}

// GetProfile returns a user's own profile
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := NewUserInfo(user)
	return &info, nil
}

// UpdateProfile applies profile changes. Nicknames are re-validated against
// the profanity filter and uniqueness.
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Nickname != nil && *input.Nickname != user.Nickname {
		nickname := *input.Nickname
		if s.profanity.Contains(nickname) {
			return nil, shared.ErrProfanityDetected
		}
		taken, err := s.userRepo.ExistsByNickname(ctx, nickname)
		if err != nil {
			s.logger.Error("Failed to check nickname existence", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
		}
		if taken {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "nickname is already taken")
		}
		if err := user.ChangeNickname(nickname); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}

	s.logger.Info("Profile updated", zap.String("user_id", user.ID.String()))
	info := NewUserInfo(user)
	return &info, nil
}

// ChangePassword verifies the current password and replaces it
func (s *UserService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(input.OldPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "current password is incorrect")
	}
	if err := user.ChangePassword(input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}

	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// Deactivate soft-deletes the account
func (s *UserService) Deactivate(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.Deactivate(); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to deactivate user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate account")
	}
	s.publishEvents(ctx, user)

	s.logger.Info("User deactivated", zap.String("user_id", user.ID.String()))
	return nil
}

// GetUser returns any user (staff view)
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	return s.GetProfile(ctx, userID)
}

// ListUsers returns users matching the filter (staff view)
func (s *UserService) ListUsers(ctx context.Context, input ListUsersInput) (*shared.Paginated[UserInfo], error) {
	users, total, err := s.userRepo.FindAll(ctx, input.Filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	items := make([]UserInfo, 0, len(users))
	for _, user := range users {
		items = append(items, NewUserInfo(user))
	}
	result := shared.NewPaginated(items, total, input.Filter.Page, input.Filter.PageSize)
	return &result, nil
}

// ChangeRole assigns a new role to a user (staff operation)
func (s *UserService) ChangeRole(ctx context.Context, input ChangeRoleInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return err
	}

	if err := user.ChangeRole(identity.Role(input.Role)); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to change role", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change role")
	}

	s.logger.Info("Role changed",
		zap.String("user_id", user.ID.String()),
		zap.String("role", input.Role))
	return nil
}

// ChangeGrade assigns a new membership grade to a user (staff operation)
func (s *UserService) ChangeGrade(ctx context.Context, input ChangeGradeInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return err
	}

	if err := user.ChangeGrade(identity.UserGrade(input.Grade)); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to change grade", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change grade")
	}

	s.logger.Info("Grade changed",
		zap.String("user_id", user.ID.String()),
		zap.String("grade", input.Grade))
	return nil
}

func (s *UserService) publishEvents(ctx context.Context, user *identity.User) {
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
