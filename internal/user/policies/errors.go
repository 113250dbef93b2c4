package policies

import "errors"

var (
	ErrOnlyAdminsCanAssignRoles   = errors.New("Only admins can assign roles")
	ErrTargetUserNotFound         = errors.New("Target user not found")
	ErrUsersCannotModifyOwnRole   = errors.New("Users cannot modify their own role")
	ErrMustHaveAtLeastOneAdmin    = errors.New("At least one active admin account is required")
	ErrUnknownRole                = errors.New("Unknown role")
	ErrCannotDeactivateYourself   = errors.New("You cannot deactivate your own account")
)
