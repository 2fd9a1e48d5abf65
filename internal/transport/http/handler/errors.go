package handler

const (
	errInternalServer     = "Internal server error"
	errEmailTaken         = "Email is already registered"
	errInvalidCredentials = "Invalid credentials"

	errTaskNotFound  = "Task not found"
	errTaskForbidden = "You do not have permission to access this task"
	errBadCursor     = "Invalid pagination cursor"
)
