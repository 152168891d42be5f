package globals

type ContextKey string

const (
	UserIDKey   ContextKey = "userId"
	UserNameKey ContextKey = "userName"
)
