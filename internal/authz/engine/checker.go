// Package engine evaluates action-level permission checks. The current
// implementation compiles a Rego policy over the principal's action grants.
package engine

import (
	"context"

	"portico/internal/authz"
)

// Checker decides whether a principal may perform an action. It complements
// the resolver: the caller intersects listing results against the
// accessible-resource set and gates the operation itself through Allowed.
type Checker interface {
	Allowed(ctx context.Context, action authz.Action, p authz.Principal) (bool, error)
}
