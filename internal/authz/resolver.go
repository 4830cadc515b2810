package authz

import (
	"context"
	"sort"
)

// GrantReader fetches the two grant relations a principal's reach is derived
// from. Both are read-only to this subsystem.
type GrantReader interface {
	ListUserResources(ctx context.Context, userID string) ([]int, error)
	ListRoleResources(ctx context.Context, roleID int) ([]int, error)
}

// Resolver computes accessible-resource sets. It holds no cache: grants are
// re-read on every call so changes take effect on the next request.
type Resolver struct {
	grants GrantReader
}

// NewResolver returns a Resolver over the given grant relations.
func NewResolver(grants GrantReader) *Resolver {
	return &Resolver{grants: grants}
}

// AccessibleResources returns the union of the principal's direct resource
// grants and their org role's resource grants, deduplicated and sorted.
// The two relations are fetched independently and united here rather than
// joined in SQL, keeping the set semantics explicit.
func (r *Resolver) AccessibleResources(ctx context.Context, p Principal) ([]int, error) {
	direct, err := r.grants.ListUserResources(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	viaRole, err := r.grants.ListRoleResources(ctx, p.RoleID)
	if err != nil {
		return nil, err
	}

	set := make(map[int]struct{}, len(direct)+len(viaRole))
	for _, id := range direct {
		set[id] = struct{}{}
	}
	for _, id := range viaRole {
		set[id] = struct{}{}
	}

	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out, nil
}
