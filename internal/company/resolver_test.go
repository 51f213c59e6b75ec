package company

import (
	"context"
	"testing"

	"campadmin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	homes       map[uint]*model.Company
	superAdmins map[uint]bool
	companies   map[uint]*model.Company
}

func (f *fakeStore) GetHomeCompany(_ context.Context, userID uint) (*model.Company, error) {
	return f.homes[userID], nil
}

func (f *fakeStore) IsSuperAdmin(_ context.Context, userID uint) (bool, error) {
	return f.superAdmins[userID], nil
}

func (f *fakeStore) ListActiveCompanies(_ context.Context) ([]model.Company, error) {
	out := make([]model.Company, 0, len(f.companies))
	for _, c := range f.companies {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) GetActiveCompany(_ context.Context, companyID uint) (*model.Company, error) {
	return f.companies[companyID], nil
}

// memorySessionStore keeps overrides in a map, standing in for Redis.
type memorySessionStore struct {
	overrides map[uint]uint
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{overrides: map[uint]uint{}}
}

func (m *memorySessionStore) SetOverride(_ context.Context, userID, companyID uint) error {
	m.overrides[userID] = companyID
	return nil
}

func (m *memorySessionStore) GetOverride(_ context.Context, userID uint) (uint, bool, error) {
	id, ok := m.overrides[userID]
	return id, ok, nil
}

func (m *memorySessionStore) ClearOverride(_ context.Context, userID uint) error {
	delete(m.overrides, userID)
	return nil
}

func fixture() (*fakeStore, *memorySessionStore, *Resolver) {
	camp := &model.Company{Name: "Camp Birchwood", Slug: "birchwood", Active: true}
	camp.ID = 1
	other := &model.Company{Name: "Camp Pinecrest", Slug: "pinecrest", Active: true}
	other.ID = 2

	store := &fakeStore{
		homes:       map[uint]*model.Company{10: camp, 20: camp},
		superAdmins: map[uint]bool{20: true},
		companies:   map[uint]*model.Company{1: camp, 2: other},
	}
	sessions := newMemorySessionStore()
	return store, sessions, NewResolver(store, sessions, nil)
}

func TestLoadActiveCompanyHomeDefault(t *testing.T) {
	_, _, r := fixture()

	company, isSuper, err := r.LoadActiveCompany(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, company)
	assert.Equal(t, uint(1), company.ID)
	assert.False(t, isSuper)
}

func TestSwitchRequiresSuperAdmin(t *testing.T) {
	_, sessions, r := fixture()

	_, err := r.Switch(context.Background(), 10, 2)
	assert.ErrorIs(t, err, ErrNotSuperAdmin)
	assert.Empty(t, sessions.overrides, "a denied switch must not write an override")
}

func TestSwitchUnknownCompany(t *testing.T) {
	_, _, r := fixture()

	_, err := r.Switch(context.Background(), 20, 99)
	assert.ErrorIs(t, err, ErrUnknownCompany)
}

func TestSwitchBindsSession(t *testing.T) {
	_, _, r := fixture()
	ctx := context.Background()

	company, err := r.Switch(ctx, 20, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), company.ID)

	// The switch is visible immediately without a new token.
	id, err := r.ActiveCompanyID(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, uint(2), id)

	// Switching to the same company again is idempotent.
	company, err = r.Switch(ctx, 20, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), company.ID)
}

func TestOverrideLapsesWithSession(t *testing.T) {
	_, sessions, r := fixture()
	ctx := context.Background()

	_, err := r.Switch(ctx, 20, 2)
	require.NoError(t, err)

	// Logout clears the override; a fresh session is back on the home
	// company.
	require.NoError(t, r.ClearOverride(ctx, 20))
	assert.Empty(t, sessions.overrides)

	id, err := r.ActiveCompanyID(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)
}

func TestStaleOverrideFallsBackToHome(t *testing.T) {
	store, sessions, r := fixture()
	ctx := context.Background()

	_, err := r.Switch(ctx, 20, 2)
	require.NoError(t, err)

	// The override target goes away between requests.
	delete(store.companies, 2)

	id, err := r.ActiveCompanyID(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)
	assert.Empty(t, sessions.overrides, "stale override should be dropped")
}

func TestOverrideIgnoredForNonSuperAdmin(t *testing.T) {
	_, sessions, r := fixture()
	ctx := context.Background()

	// Even with an override row present, a regular user stays on their
	// home company.
	sessions.overrides[10] = 2

	id, err := r.ActiveCompanyID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)
}

func TestNoCompanyResolvesToError(t *testing.T) {
	store, _, r := fixture()
	delete(store.homes, 10)

	_, err := r.ActiveCompanyID(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNoCompany)
}
