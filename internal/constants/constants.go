package constants

const (
	// ContextKeyUserID is used both as the session key and the gin context key.
	ContextKeyUserID = "user_id"
	// ContextKeyTask holds the task loaded by RequireTask.
	ContextKeyTask = "task"

	SessionCookieName = "task_session"
	SessionMaxAge     = 86400 * 7

	MinPasswordLength = 8
	MaxUsernameLength = 50

	MinPriority     = 1
	MaxPriority     = 3
	DefaultPriority = 2

	// AnonymousCommenterName is the display name of a commenter with neither username nor email.
	AnonymousCommenterName = "Anonymous"

	MaxAIGeneratedTasks = 20

	// UserFilterAll disables the publisher/responsible filter of the task list.
	UserFilterAll = "all"

	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// AllowedReactions are the emoji a user can put in their reaction slot of a comment.
var AllowedReactions = []string{"👍", "❤️", "😂"}
