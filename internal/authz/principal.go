// Package authz computes what a principal may reach: the accessible-resource
// set from direct and role grants, and action-level permission checks.
package authz

// Principal identifies an authenticated caller for authorization decisions.
type Principal struct {
	UserID string
	OrgID  string
	RoleID int
}
