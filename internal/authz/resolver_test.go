package authz

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type memGrants struct {
	userResources map[string][]int
	roleResources map[int][]int
	err           error
}

func (g *memGrants) ListUserResources(ctx context.Context, userID string) ([]int, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.userResources[userID], nil
}

func (g *memGrants) ListRoleResources(ctx context.Context, roleID int) ([]int, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.roleResources[roleID], nil
}

func TestAccessibleResources(t *testing.T) {
	testCases := []struct {
		name   string
		direct []int
		role   []int
		want   []int
	}{
		{"both empty", nil, nil, []int{}},
		{"direct only", []int{3, 1}, nil, []int{1, 3}},
		{"role only", nil, []int{7}, []int{7}},
		{"disjoint", []int{1, 2}, []int{3, 4}, []int{1, 2, 3, 4}},
		{"overlapping", []int{5}, []int{5, 7}, []int{5, 7}},
		{"identical", []int{2, 9}, []int{9, 2}, []int{2, 9}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			grants := &memGrants{
				userResources: map[string][]int{"u1": tc.direct},
				roleResources: map[int][]int{4: tc.role},
			}
			r := NewResolver(grants)
			got, err := r.AccessibleResources(context.Background(), Principal{UserID: "u1", OrgID: "org1", RoleID: 4})
			if err != nil {
				t.Fatalf("AccessibleResources: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("AccessibleResources = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAccessibleResources_GrantReadError(t *testing.T) {
	grants := &memGrants{err: errors.New("store down")}
	r := NewResolver(grants)
	if _, err := r.AccessibleResources(context.Background(), Principal{UserID: "u1", RoleID: 4}); err == nil {
		t.Fatal("grant read failure should propagate")
	}
}

func TestAccessibleResources_NoCaching(t *testing.T) {
	grants := &memGrants{
		userResources: map[string][]int{"u1": {1}},
		roleResources: map[int][]int{4: nil},
	}
	r := NewResolver(grants)
	p := Principal{UserID: "u1", RoleID: 4}

	first, err := r.AccessibleResources(context.Background(), p)
	if err != nil {
		t.Fatalf("AccessibleResources: %v", err)
	}
	if !reflect.DeepEqual(first, []int{1}) {
		t.Fatalf("first = %v, want [1]", first)
	}

	// A grant change is visible on the very next call.
	grants.userResources["u1"] = []int{1, 2}
	second, err := r.AccessibleResources(context.Background(), p)
	if err != nil {
		t.Fatalf("AccessibleResources: %v", err)
	}
	if !reflect.DeepEqual(second, []int{1, 2}) {
		t.Errorf("second = %v, want [1 2]", second)
	}
}
