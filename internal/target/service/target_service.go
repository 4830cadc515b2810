// Package service lists the targets behind a resource, gated on the caller's
// accessible-resource set.
package service

import (
	"context"
	"errors"

	"portico/internal/authz"
	"portico/internal/target/domain"
	"portico/internal/target/repository"
)

// ErrNotAuthorized means the resource is outside the caller's accessible set.
var ErrNotAuthorized = errors.New("no access to this resource")

// DefaultLimit bounds a listing when the caller requests no page size.
const DefaultLimit = 1000

// AccessResolver is the slice of the authorization resolver the service needs.
type AccessResolver interface {
	AccessibleResources(ctx context.Context, p authz.Principal) ([]int, error)
}

// ListResult carries one page of targets plus the pre-pagination total.
type ListResult struct {
	Targets []*domain.Target
	Total   int
	Limit   int
	Offset  int
}

// Service lists resource targets.
type Service struct {
	repo     repository.Repository
	resolver AccessResolver
}

// NewService returns a target service over the repository and resolver.
func NewService(repo repository.Repository, resolver AccessResolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// List returns the targets of resourceID, provided the resource is in the
// principal's accessible set. An inaccessible resource is ErrNotAuthorized,
// never an empty page.
func (s *Service) List(ctx context.Context, p authz.Principal, resourceID, limit, offset int) (*ListResult, error) {
	accessible, err := s.resolver.AccessibleResources(ctx, p)
	if err != nil {
		return nil, err
	}
	ok := false
	for _, id := range accessible {
		if id == resourceID {
			ok = true
			break
		}
	}
	if !ok {
		return nil, ErrNotAuthorized
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	targets, err := s.repo.ListByResource(ctx, resourceID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountByResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	return &ListResult{Targets: targets, Total: total, Limit: limit, Offset: offset}, nil
}
