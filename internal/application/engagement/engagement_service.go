package engagement

import (
	"context"
	"errors"

	"github.com/agoramall/backend/internal/domain/engagement"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EngagementService handles likes and staff-managed canned replies
type EngagementService struct {
	likeRepo   engagement.LikeRepository
	presetRepo engagement.PresetMessageRepository
	logger     *zap.Logger
}

// NewEngagementService creates a new engagement service
func NewEngagementService(
	likeRepo engagement.LikeRepository,
	presetRepo engagement.PresetMessageRepository,
	logger *zap.Logger,
) *EngagementService {
	return &EngagementService{
		likeRepo:   likeRepo,
		presetRepo: presetRepo,
		logger:     logger,
	}
}

// ToggleLike likes a target, or removes the like when one already exists.
// The unique index arbitrates concurrent toggles.
func (s *EngagementService) ToggleLike(ctx context.Context, input ToggleLikeInput) (*LikeStatus, error) {
	like, err := engagement.NewLike(input.UserID, engagement.TargetType(input.TargetType), input.TargetID)
	if err != nil {
		return nil, err
	}

	liked := true
	if err := s.likeRepo.Create(ctx, like); err != nil {
		if !errors.Is(err, shared.ErrAlreadyExists) {
			s.logger.Error("Failed to save like", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to toggle like")
		}
		if err := s.likeRepo.Delete(ctx, like.UserID, like.TargetType, like.TargetID); err != nil {
			s.logger.Error("Failed to remove like", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to toggle like")
		}
		liked = false
	}

	count, err := s.likeRepo.CountForTarget(ctx, like.TargetType, like.TargetID)
	if err != nil {
		s.logger.Warn("Failed to count likes", zap.Error(err))
	}
	return &LikeStatus{Liked: liked, Count: count}, nil
}

// GetLikeStatus reports whether the user likes the target and the total count
func (s *EngagementService) GetLikeStatus(ctx context.Context, input ToggleLikeInput) (*LikeStatus, error) {
	targetType := engagement.TargetType(input.TargetType)
	if !targetType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown like target type")
	}

	liked, err := s.likeRepo.Exists(ctx, input.UserID, targetType, input.TargetID)
	if err != nil {
		s.logger.Error("Failed to check like", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to read like status")
	}
	count, err := s.likeRepo.CountForTarget(ctx, targetType, input.TargetID)
	if err != nil {
		s.logger.Error("Failed to count likes", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to read like status")
	}
	return &LikeStatus{Liked: liked, Count: count}, nil
}

// ListPresets returns canned replies, optionally narrowed to a category
// (staff only)
func (s *EngagementService) ListPresets(ctx context.Context, actor Actor, category string) ([]PresetInfo, error) {
	if !actor.Staff {
		return nil, shared.ErrForbidden
	}

	var (
		presets []engagement.PresetMessage
		err     error
	)
	if category != "" {
		presets, err = s.presetRepo.FindByCategory(ctx, category)
	} else {
		presets, err = s.presetRepo.FindAll(ctx, shared.DefaultFilter())
	}
	if err != nil {
		s.logger.Error("Failed to list canned replies", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list canned replies")
	}

	items := make([]PresetInfo, 0, len(presets))
	for i := range presets {
		items = append(items, NewPresetInfo(&presets[i]))
	}
	return items, nil
}

// CreatePreset creates a canned reply (staff only)
func (s *EngagementService) CreatePreset(ctx context.Context, input CreatePresetInput) (*PresetInfo, error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}
	preset, err := engagement.NewPresetMessage(input.Category, input.Title, input.Content)
	if err != nil {
		return nil, err
	}
	if err := s.presetRepo.Save(ctx, preset); err != nil {
		s.logger.Error("Failed to save canned reply", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save canned reply")
	}
	info := NewPresetInfo(preset)
	return &info, nil
}

// UpdatePreset edits a canned reply (staff only)
func (s *EngagementService) UpdatePreset(ctx context.Context, input UpdatePresetInput) (*PresetInfo, error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}
	preset, err := s.presetRepo.FindByID(ctx, input.PresetID)
	if err != nil {
		return nil, err
	}
	if err := preset.Update(input.Category, input.Title, input.Content); err != nil {
		return nil, err
	}
	if err := s.presetRepo.Save(ctx, preset); err != nil {
		s.logger.Error("Failed to save canned reply", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save canned reply")
	}
	info := NewPresetInfo(preset)
	return &info, nil
}

// DeletePreset removes a canned reply (staff only)
func (s *EngagementService) DeletePreset(ctx context.Context, presetID uuid.UUID, actor Actor) error {
	if !actor.Staff {
		return shared.ErrForbidden
	}
	if err := s.presetRepo.Delete(ctx, presetID); err != nil {
		s.logger.Error("Failed to delete canned reply", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete canned reply")
	}
	return nil
}
