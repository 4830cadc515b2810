// Package service implements the share-link access token catalog: scoped
// listing bounded by the caller's accessible-resource set, and validation of
// presented token secrets.
package service

import (
	"context"
	"errors"
	"time"

	"portico/internal/accesstoken/domain"
	"portico/internal/accesstoken/repository"
	"portico/internal/authz"
	"portico/internal/security"
)

// Sentinel errors; the HTTP layer maps them to status codes.
var (
	// ErrInvalidScope means the request named both or neither of org and
	// resource scope. Exactly one must be set.
	ErrInvalidScope = errors.New("exactly one of orgId or resourceId must be provided")
	// ErrNotAuthorized means the caller asked for an org other than their own.
	ErrNotAuthorized = errors.New("no access to this organization")
	// ErrInvalidToken covers unknown, mismatched, and expired token secrets
	// uniformly so callers cannot distinguish them.
	ErrInvalidToken = errors.New("invalid or expired access token")
)

const (
	// DefaultLimit bounds a listing when the caller requests no page size.
	DefaultLimit = 1000
)

// Scope selects the listing domain: exactly one of OrgID or ResourceID.
type Scope struct {
	OrgID      string
	ResourceID *int
}

// Page is a limit/offset pagination request.
type Page struct {
	Limit  int
	Offset int
}

// ListResult carries one page of tokens plus the pre-pagination total.
type ListResult struct {
	Tokens []*domain.ResourceAccessToken
	Total  int
	Limit  int
	Offset int
}

// AccessResolver is the slice of the authorization resolver the catalog needs.
type AccessResolver interface {
	AccessibleResources(ctx context.Context, p authz.Principal) ([]int, error)
}

// Catalog lists and validates resource access tokens. Expired tokens are
// filtered out of listings but never deleted here: share links are audited
// artifacts, unlike sessions, whose expired rows are garbage.
type Catalog struct {
	repo     repository.Repository
	resolver AccessResolver
	now      func() time.Time
}

// NewCatalog returns a Catalog over the token repository and resolver.
func NewCatalog(repo repository.Repository, resolver AccessResolver) *Catalog {
	return &Catalog{repo: repo, resolver: resolver, now: func() time.Time { return time.Now().UTC() }}
}

// List returns the tokens visible to the principal within scope.
//
// Scope must name exactly one of org or resource. An org scope not matching
// the principal's own org is ErrNotAuthorized, never an empty page, so org
// probing is indistinguishable from forbidden. Resources outside the
// principal's accessible set simply yield no rows.
func (c *Catalog) List(ctx context.Context, p authz.Principal, scope Scope, page Page) (*ListResult, error) {
	if (scope.OrgID == "") == (scope.ResourceID == nil) {
		return nil, ErrInvalidScope
	}
	if scope.OrgID != "" && scope.OrgID != p.OrgID {
		return nil, ErrNotAuthorized
	}
	if page.Limit <= 0 {
		page.Limit = DefaultLimit
	}
	if page.Offset < 0 {
		page.Offset = 0
	}

	accessible, err := c.resolver.AccessibleResources(ctx, p)
	if err != nil {
		return nil, err
	}

	now := c.now()
	var tokens []*domain.ResourceAccessToken
	var total int
	if scope.OrgID != "" {
		tokens, err = c.repo.ListByOrg(ctx, scope.OrgID, accessible, now, page.Limit, page.Offset)
		if err != nil {
			return nil, err
		}
		total, err = c.repo.CountByOrg(ctx, scope.OrgID, accessible, now)
	} else {
		tokens, err = c.repo.ListByResource(ctx, *scope.ResourceID, accessible, now, page.Limit, page.Offset)
		if err != nil {
			return nil, err
		}
		total, err = c.repo.CountByResource(ctx, *scope.ResourceID, accessible, now)
	}
	if err != nil {
		return nil, err
	}

	return &ListResult{Tokens: tokens, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

// Validate resolves a presented share-link credential. The secret is compared
// against the stored hash in constant time and expiry is honored; expired
// rows are left in place. Unknown id, wrong secret, and expired token all
// return ErrInvalidToken.
func (c *Catalog) Validate(ctx context.Context, accessTokenID, secret string) (*domain.ResourceAccessToken, error) {
	token, err := c.repo.GetByID(ctx, accessTokenID)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrInvalidToken
	}
	if !security.TokenHashEqual(secret, token.TokenHash) {
		return nil, ErrInvalidToken
	}
	if token.ExpiredAt(c.now()) {
		return nil, ErrInvalidToken
	}
	return token, nil
}
