package policies

import (
	"errors"

	"fleetops-backend/internal/constants"
	"fleetops-backend/internal/models"

	"gorm.io/gorm"
)

type ValidateRoleAssignmentParams struct {
	ActorRole    string
	TargetRole   string
	ActorUserID  string
	TargetUserID string
}

func knownRole(role string) bool {
	switch role {
	case constants.Viewer, constants.Analyst, constants.Admin:
		return true
	}
	return false
}

// ValidateRoleAssignment enforces role governance: only admins assign
// roles, nobody changes their own role, and the last active admin cannot
// be downgraded.
func ValidateRoleAssignment(db *gorm.DB, params ValidateRoleAssignmentParams) error {
	if !knownRole(params.TargetRole) {
		return ErrUnknownRole
	}
	if params.ActorRole != constants.Admin {
		return ErrOnlyAdminsCanAssignRoles
	}
	if params.ActorUserID == params.TargetUserID {
		return ErrUsersCannotModifyOwnRole
	}
	var target models.User
	if err := db.Where("user_id = ?", params.TargetUserID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetUserNotFound
		}
		return err
	}
	if target.Role == constants.Admin && params.TargetRole != constants.Admin {
		var count int64
		db.Model(&models.User{}).Where("role = ? AND active = ?", constants.Admin, true).Count(&count)
		if count <= 1 {
			return ErrMustHaveAtLeastOneAdmin
		}
	}
	return nil
}

// ValidateDeactivation prevents self-deactivation and removing the last
// active admin.
func ValidateDeactivation(db *gorm.DB, actorUserID, targetUserID string) error {
	if actorUserID == targetUserID {
		return ErrCannotDeactivateYourself
	}
	var target models.User
	if err := db.Where("user_id = ?", targetUserID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetUserNotFound
		}
		return err
	}
	if target.Role == constants.Admin && target.Active {
		var count int64
		db.Model(&models.User{}).Where("role = ? AND active = ?", constants.Admin, true).Count(&count)
		if count <= 1 {
			return ErrMustHaveAtLeastOneAdmin
		}
	}
	return nil
}
