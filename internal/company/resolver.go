package company

import (
	"context"
	"errors"

	"campadmin/internal/model"

	"go.uber.org/zap"
)

var (
	// ErrNotSuperAdmin is returned when a non-super-admin attempts a
	// cross-company operation.
	ErrNotSuperAdmin = errors.New("company switching requires super admin")
	// ErrUnknownCompany is returned when the switch target is not an
	// active company.
	ErrUnknownCompany = errors.New("unknown or inactive company")
	// ErrNoCompany is returned when a user has neither a home company
	// nor an override.
	ErrNoCompany = errors.New("no active company for user")
)

// Store is the database surface the resolver needs.
type Store interface {
	// GetHomeCompany resolves the user's home company via the profile
	// join. Returns nil when the profile has no company.
	GetHomeCompany(ctx context.Context, userID uint) (*model.Company, error)

	// IsSuperAdmin reports whether the user holds the cross-company
	// grant. Independent of the primary role.
	IsSuperAdmin(ctx context.Context, userID uint) (bool, error)

	// ListActiveCompanies returns all active companies ordered by name.
	ListActiveCompanies(ctx context.Context) ([]model.Company, error)

	// GetActiveCompany fetches one active company by id.
	GetActiveCompany(ctx context.Context, companyID uint) (*model.Company, error)
}

// SessionStore holds the per-session company override for super admins.
// Overrides are ephemeral: they lapse with the session TTL and are never
// written to the profile.
type SessionStore interface {
	SetOverride(ctx context.Context, userID, companyID uint) error
	GetOverride(ctx context.Context, userID uint) (companyID uint, ok bool, err error)
	ClearOverride(ctx context.Context, userID uint) error
}

// Resolver binds a session to exactly one active company. It is the
// single source of truth for which company id every query must filter
// by.
type Resolver struct {
	store    Store
	sessions SessionStore
	log      *zap.Logger
}

// NewResolver creates a company resolver.
func NewResolver(store Store, sessions SessionStore, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{store: store, sessions: sessions, log: log}
}

// LoadActiveCompany resolves the company the session is bound to: the
// session override for super admins holding one, otherwise the user's
// home company. The super-admin flag is resolved independently and
// returned alongside.
func (r *Resolver) LoadActiveCompany(ctx context.Context, userID uint) (*model.Company, bool, error) {
	isSuper, err := r.store.IsSuperAdmin(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	if isSuper {
		if overrideID, ok, err := r.sessions.GetOverride(ctx, userID); err != nil {
			// A session-store failure falls back to the home company
			// rather than failing the request.
			r.log.Warn("session override lookup failed, using home company",
				zap.Uint("user_id", userID), zap.Error(err))
		} else if ok {
			company, err := r.store.GetActiveCompany(ctx, overrideID)
			if err != nil {
				return nil, isSuper, err
			}
			if company != nil {
				return company, isSuper, nil
			}
			// Override points at a company that no longer exists;
			// drop it and fall through to the home company.
			_ = r.sessions.ClearOverride(ctx, userID)
		}
	}

	home, err := r.store.GetHomeCompany(ctx, userID)
	if err != nil {
		return nil, isSuper, err
	}
	return home, isSuper, nil
}

// ActiveCompanyID returns the company id every entity query must scope
// by. It is read fresh on each call so a switch is visible immediately.
func (r *Resolver) ActiveCompanyID(ctx context.Context, userID uint) (uint, error) {
	company, _, err := r.LoadActiveCompany(ctx, userID)
	if err != nil {
		return 0, err
	}
	if company == nil {
		return 0, ErrNoCompany
	}
	return company.ID, nil
}

// ListAvailableCompanies lists all active companies ordered by name.
// Only meaningful for super admins; callers enforce the privilege.
func (r *Resolver) ListAvailableCompanies(ctx context.Context) ([]model.Company, error) {
	return r.store.ListActiveCompanies(ctx)
}

// Switch binds the session to another company. Only super admins may
// switch, and only to an active company; switching to a company the
// user does not own is the intended cross-company escape hatch.
// Switching twice to the same id is idempotent.
func (r *Resolver) Switch(ctx context.Context, userID, companyID uint) (*model.Company, error) {
	isSuper, err := r.store.IsSuperAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isSuper {
		return nil, ErrNotSuperAdmin
	}

	company, err := r.store.GetActiveCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrUnknownCompany
	}

	if err := r.sessions.SetOverride(ctx, userID, companyID); err != nil {
		return nil, err
	}

	r.log.Info("company switched",
		zap.Uint("user_id", userID),
		zap.Uint("company_id", companyID),
		zap.String("company", company.Name))
	return company, nil
}

// ClearOverride drops the session override, e.g. on logout. A fresh
// session falls back to the home company.
func (r *Resolver) ClearOverride(ctx context.Context, userID uint) error {
	return r.sessions.ClearOverride(ctx, userID)
}
