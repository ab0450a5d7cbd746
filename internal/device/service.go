package device

import (
	"context"
	"log/slog"
	"time"

	"github.com/yudapramata/rab-management/internal"
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Register records userID's current delivery target. Whatever path it
// takes, it ends with the token active under userID and no other active
// registration for either user involved.
func (s *Service) Register(ctx context.Context, userID int64, token string, meta Metadata) (*DeviceRegistration, error) {
	if token == "" {
		return nil, internal.NewValidationError("token is required", internal.ErrCodeValidationFailed)
	}

	existing, err := s.repo.FindByToken(token)
	if err != nil {
		s.logger.Error("failed to look up device token", "error", err, "user_id", userID)
		return nil, internal.NewStoreError("failed to look up device token", err)
	}

	now := time.Now()

	if existing != nil && existing.UserID == userID {
		existing.Platform = meta.Platform
		existing.DeviceModel = meta.DeviceModel
		existing.AppVersion = meta.AppVersion
		existing.IsActive = true
		existing.LastUsedAt = now
		if err := s.repo.Save(existing); err != nil {
			return nil, internal.NewStoreError("failed to refresh device registration", err)
		}
		s.logger.Info("device registration refreshed", "user_id", userID, "device_id", existing.ID)
		return existing, nil
	}

	if existing != nil {
		// device handed off to a different user: the former owner must stop
		// receiving pushes on any of their registrations
		previousOwner := existing.UserID
		if err := s.repo.DeactivateAllForUser(previousOwner); err != nil {
			return nil, internal.NewStoreError("failed to deactivate previous owner devices", err)
		}
		if err := s.repo.DeactivateAllForUser(userID); err != nil {
			return nil, internal.NewStoreError("failed to deactivate existing devices", err)
		}

		existing.UserID = userID
		existing.Platform = meta.Platform
		existing.DeviceModel = meta.DeviceModel
		existing.AppVersion = meta.AppVersion
		existing.IsActive = true
		existing.LastUsedAt = now
		if err := s.repo.Save(existing); err != nil {
			return nil, internal.NewStoreError("failed to reassign device registration", err)
		}

		s.logger.Info("device token reassigned",
			"token_owner_before", previousOwner,
			"user_id", userID,
			"device_id", existing.ID)
		return existing, nil
	}

	if err := s.repo.DeactivateAllForUser(userID); err != nil {
		return nil, internal.NewStoreError("failed to deactivate existing devices", err)
	}

	reg := &DeviceRegistration{
		UserID:      userID,
		Token:       token,
		Platform:    meta.Platform,
		DeviceModel: meta.DeviceModel,
		AppVersion:  meta.AppVersion,
		IsActive:    true,
		LastUsedAt:  now,
	}
	if err := s.repo.Create(reg); err != nil {
		return nil, internal.NewStoreError("failed to create device registration", err)
	}

	s.logger.Info("device registered", "user_id", userID, "device_id", reg.ID)
	return reg, nil
}

// DeactivateAll marks every registration of userID inactive, used on
// logout so a former session stops receiving pushes immediately.
func (s *Service) DeactivateAll(ctx context.Context, userID int64) error {
	if err := s.repo.DeactivateAllForUser(userID); err != nil {
		s.logger.Error("failed to deactivate devices", "error", err, "user_id", userID)
		return internal.NewStoreError("failed to deactivate devices", err)
	}
	s.logger.Info("all devices deactivated", "user_id", userID)
	return nil
}

// ActiveTokensForUsers satisfies notification.DeviceResolverAPI.
func (s *Service) ActiveTokensForUsers(userIDs []int64) (map[int64][]string, error) {
	return s.repo.ActiveTokensForUsers(userIDs)
}
