package constants

// Roles, least to most privileged.
const (
	Viewer  = "viewer"
	Analyst = "analyst"
	Admin   = "admin"
)

const (
	ViewData    = "view_data"
	RunScripts  = "run_scripts"
	UploadData  = "upload_data"
	ManageUsers = "manage_users"
)
