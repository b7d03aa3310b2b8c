package constants

const (
	// ContextKeyUserID is the gin context key holding the authenticated user ID
	ContextKeyUserID = "user_id"

	// BearerPrefix is the expected Authorization header scheme
	BearerPrefix = "Bearer "

	// MaxSuggestedTasks caps the number of AI suggestions returned per request
	MaxSuggestedTasks = 20
)
