package permission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for resolver tests.
type fakeStore struct {
	roles    map[uint]Role
	grants   map[uint][]DivisionGrant
	pages    map[string]bool // key: role + "/" + page
	approved map[uint]bool
	err      error
}

func (f *fakeStore) GetRole(_ context.Context, userID uint) (Role, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	role, ok := f.roles[userID]
	return role, ok, nil
}

func (f *fakeStore) GetDivisionGrants(_ context.Context, userID uint) ([]DivisionGrant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.grants[userID], nil
}

func (f *fakeStore) GetPagePermission(_ context.Context, role Role, page string) (bool, bool, error) {
	if f.err != nil {
		return false, false, f.err
	}
	canAccess, ok := f.pages[string(role)+"/"+page]
	return canAccess, ok, nil
}

func (f *fakeStore) IsApproved(_ context.Context, userID uint) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.approved[userID], nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		roles:    map[uint]Role{},
		grants:   map[uint][]DivisionGrant{},
		pages:    map[string]bool{},
		approved: map[uint]bool{},
	}
}

func TestResolveRole(t *testing.T) {
	store := newFakeStore()
	store.roles[1] = RoleAdmin
	r := NewResolver(store, nil)

	role, ok := r.ResolveRole(context.Background(), 1)
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	_, ok = r.ResolveRole(context.Background(), 2)
	assert.False(t, ok, "user without a role row must resolve to no role")
}

func TestResolveRoleDeniesOnStoreError(t *testing.T) {
	store := newFakeStore()
	store.roles[1] = RoleAdmin
	store.err = errors.New("connection reset")
	r := NewResolver(store, nil)

	_, ok := r.ResolveRole(context.Background(), 1)
	assert.False(t, ok, "store errors must deny, not default")
}

func TestCanAccessDivisionFullAccessRoles(t *testing.T) {
	// Admin and specialist see every division with zero grant rows.
	for _, role := range []Role{RoleAdmin, RoleSpecialist} {
		assert.True(t, CanAccessDivision(role, nil, 7), "role %s", role)
	}
}

func TestCanAccessDivisionRequiresExplicitGrant(t *testing.T) {
	grants := []DivisionGrant{
		{DivisionID: 1, CanAccess: true},
		{DivisionID: 2, CanAccess: false},
	}
	for _, role := range []Role{RoleStaff, RoleDivisionLeader, RoleViewer} {
		assert.True(t, CanAccessDivision(role, grants, 1), "role %s, granted division", role)
		assert.False(t, CanAccessDivision(role, grants, 2), "role %s, can_access=false row", role)
		assert.False(t, CanAccessDivision(role, grants, 3), "role %s, no row", role)
	}
}

func TestDivisionFilterNilMeansUnfiltered(t *testing.T) {
	assert.Nil(t, DivisionFilter(RoleAdmin, nil))
	assert.Nil(t, DivisionFilter(RoleSpecialist, []DivisionGrant{{DivisionID: 1, CanAccess: true}}))
}

func TestDivisionFilterEmptyIsNotNil(t *testing.T) {
	// A staff user with no grants gets an empty, non-nil filter. The
	// distinction carries through to ScopeByDivisions: empty matches
	// zero rows, nil matches all.
	filter := DivisionFilter(RoleStaff, nil)
	require.NotNil(t, filter)
	assert.Empty(t, filter)

	filter = DivisionFilter(RoleStaff, []DivisionGrant{{DivisionID: 4, CanAccess: false}})
	require.NotNil(t, filter)
	assert.Empty(t, filter, "can_access=false rows contribute nothing")
}

func TestDivisionFilterCollectsGrantedIDs(t *testing.T) {
	grants := []DivisionGrant{
		{DivisionID: 1, CanAccess: true},
		{DivisionID: 2, CanAccess: false},
		{DivisionID: 3, CanAccess: true},
	}
	assert.Equal(t, []uint{1, 3}, DivisionFilter(RoleDivisionLeader, grants))
}

func TestCanAccessPage(t *testing.T) {
	store := newFakeStore()
	store.pages["staff/children"] = true
	store.pages["staff/permissions"] = false
	r := NewResolver(store, nil)
	ctx := context.Background()

	assert.True(t, r.CanAccessPage(ctx, RoleStaff, "children"))
	assert.False(t, r.CanAccessPage(ctx, RoleStaff, "permissions"), "explicit can_access=false denies")
	assert.False(t, r.CanAccessPage(ctx, RoleStaff, "trips"), "missing row denies")
	assert.False(t, r.CanAccessPage(ctx, RoleAdmin, "children"), "no admin wildcard, rows are per role")
}

func TestCanAccessPageDeniesOnStoreError(t *testing.T) {
	store := newFakeStore()
	store.pages["admin/users"] = true
	store.err = errors.New("timeout")
	r := NewResolver(store, nil)

	assert.False(t, r.CanAccessPage(context.Background(), RoleAdmin, "users"))
}

func TestIsApproved(t *testing.T) {
	store := newFakeStore()
	store.approved[1] = true
	r := NewResolver(store, nil)
	ctx := context.Background()

	assert.True(t, r.IsApproved(ctx, 1))
	assert.False(t, r.IsApproved(ctx, 2))

	store.err = errors.New("down")
	assert.False(t, r.IsApproved(ctx, 1), "lookup errors deny")
}

func TestRoleValidation(t *testing.T) {
	for _, role := range AllRoles() {
		assert.True(t, role.IsValid(), "role %s", role)
	}
	assert.False(t, Role("super_admin").IsValid(), "super admin is a grant, not a role")
	assert.False(t, Role("").IsValid())
}
