package authz

// Action identifies a platform operation for permission checks. Values are
// stored in the role_actions and user_actions grant tables.
type Action string

const (
	ActionListTargets      Action = "listTargets"
	ActionListAccessTokens Action = "listAccessTokens"
	ActionListResources    Action = "listResources"
)
