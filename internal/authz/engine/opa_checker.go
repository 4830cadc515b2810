package engine

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	"portico/internal/authz"
)

const policyQuery = "data.portico.authz.allow"

// permissionPolicy grants an action when it appears in the principal's
// role-action grants or direct user-action grants.
const permissionPolicy = `package portico.authz

default allow = false

allow if {
	some a in input.role_actions
	a == input.action
}

allow if {
	some a in input.user_actions
	a == input.action
}
`

// ActionGrantReader fetches a principal's action grants for policy input.
type ActionGrantReader interface {
	ListUserActions(ctx context.Context, userID string) ([]string, error)
	ListRoleActions(ctx context.Context, roleID int) ([]string, error)
}

// OPAChecker evaluates permission checks with the in-process OPA Rego engine.
type OPAChecker struct {
	grants   ActionGrantReader
	compiler *ast.Compiler
}

// NewOPAChecker compiles the permission policy and returns a checker.
func NewOPAChecker(grants ActionGrantReader) (*OPAChecker, error) {
	compiler, err := ast.CompileModules(map[string]string{"permission.rego": permissionPolicy})
	if err != nil {
		return nil, fmt.Errorf("compile permission policy: %w", err)
	}
	return &OPAChecker{grants: grants, compiler: compiler}, nil
}

// Allowed reports whether the principal may perform the action. A deny from
// the policy is (false, nil); only grant-read or evaluation failures error.
func (c *OPAChecker) Allowed(ctx context.Context, action authz.Action, p authz.Principal) (bool, error) {
	userActions, err := c.grants.ListUserActions(ctx, p.UserID)
	if err != nil {
		return false, err
	}
	roleActions, err := c.grants.ListRoleActions(ctx, p.RoleID)
	if err != nil {
		return false, err
	}

	input := map[string]interface{}{
		"action":       string(action),
		"user_id":      p.UserID,
		"role_id":      p.RoleID,
		"user_actions": userActions,
		"role_actions": roleActions,
	}
	q := rego.New(
		rego.Query(policyQuery),
		rego.Compiler(c.compiler),
		rego.Input(input),
	)
	rs, err := q.Eval(ctx)
	if err != nil {
		return false, fmt.Errorf("eval permission policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, fmt.Errorf("permission policy returned no result")
	}
	allowed, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("permission policy returned non-boolean")
	}
	return allowed, nil
}
