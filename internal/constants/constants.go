package constants

// Session
const (
	SessionCookieName = "team_task_session"
	ContextKeyUserID  = "user_id"

	// Sessions expire a fixed 24 hours after creation.
	SessionMaxAgeSeconds = 86400
)

// Validation
const (
	MinPasswordLength = 8
)
