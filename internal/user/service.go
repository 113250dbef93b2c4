package user

import (
	"context"
	"errors"

	"fleetops-backend/internal/models"
	"fleetops-backend/internal/user/policies"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// List returns all accounts, newest first.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Get returns one account by id.
func (s *Service) Get(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policies.ErrTargetUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateRole changes a user's role under governance rules and invalidates
// their sessions so the new role takes effect immediately.
func (s *Service) UpdateRole(ctx context.Context, actorUserID, actorRole, targetUserID, targetRole string) (*models.User, error) {
	if err := policies.ValidateRoleAssignment(s.DB, policies.ValidateRoleAssignmentParams{
		ActorRole:    actorRole,
		TargetRole:   targetRole,
		ActorUserID:  actorUserID,
		TargetUserID: targetUserID,
	}); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", targetUserID).
		Update("role", targetRole).Error; err != nil {
		return nil, err
	}
	if s.Rdb != nil {
		policies.DestroyUserSessions(ctx, s.Rdb, targetUserID)
	}
	return s.Get(ctx, targetUserID)
}

// Deactivate disables an account and drops its sessions.
func (s *Service) Deactivate(ctx context.Context, actorUserID, targetUserID string) error {
	if err := policies.ValidateDeactivation(s.DB, actorUserID, targetUserID); err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", targetUserID).
		Update("active", false).Error; err != nil {
		return err
	}
	if s.Rdb != nil {
		policies.DestroyUserSessions(ctx, s.Rdb, targetUserID)
	}
	return nil
}
