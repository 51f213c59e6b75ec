package permission

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Resolver answers the three access questions: what role a user holds,
// which divisions they may see, and whether they may open a page. Every
// lookup is fail-closed: a missing row, a store error, or a context
// deadline all deny.
type Resolver struct {
	store Store
	log   *zap.Logger
}

// NewResolver creates a resolver over the given store.
func NewResolver(store Store, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{store: store, log: log}
}

// ResolveRole looks up the user's single role row. ok is false when the
// user has no role; callers must deny rather than assume a default. A
// store error also resolves to no role.
func (r *Resolver) ResolveRole(ctx context.Context, userID uint) (Role, bool) {
	role, ok, err := r.store.GetRole(ctx, userID)
	if err != nil {
		r.log.Error("role lookup failed, denying", zap.Uint("user_id", userID), zap.Error(err))
		return "", false
	}
	if !ok {
		return "", false
	}
	return role, true
}

// DivisionGrants fetches the user's division permission rows. On error
// it returns an empty set, which filters downstream queries to zero
// rows for roles without full division access.
func (r *Resolver) DivisionGrants(ctx context.Context, userID uint) []DivisionGrant {
	grants, err := r.store.GetDivisionGrants(ctx, userID)
	if err != nil {
		r.log.Error("division permission lookup failed, denying", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}
	return grants
}

// CanAccessDivision reports whether the role may see the division.
// Admin and specialist always may; every other role needs an explicit
// grant with can_access = true.
func CanAccessDivision(role Role, grants []DivisionGrant, divisionID uint) bool {
	if role.HasFullDivisionAccess() {
		return true
	}
	for _, g := range grants {
		if g.DivisionID == divisionID && g.CanAccess {
			return true
		}
	}
	return false
}

// DivisionFilter returns the division ids the role may see. A nil
// return means "no filter, show all" and occurs only for roles with
// full division access. Any other role gets a non-nil slice, possibly
// empty; an empty slice must filter downstream queries to zero rows,
// never to all rows.
func DivisionFilter(role Role, grants []DivisionGrant) []uint {
	if role.HasFullDivisionAccess() {
		return nil
	}
	ids := make([]uint, 0, len(grants))
	for _, g := range grants {
		if g.CanAccess {
			ids = append(ids, g.DivisionID)
		}
	}
	return ids
}

// CanAccessPage reports whether the role may open the page. Fail-closed:
// a missing (role, page) row, can_access = false, or a lookup error all
// deny. It is evaluated on every request and never cached across role
// changes.
func (r *Resolver) CanAccessPage(ctx context.Context, role Role, page string) bool {
	canAccess, ok, err := r.store.GetPagePermission(ctx, role, page)
	if err != nil {
		r.log.Error("page permission lookup failed, denying",
			zap.String("role", string(role)),
			zap.String("page", page),
			zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	return canAccess
}

// IsApproved reports whether the user's profile is approved, denying on
// lookup errors.
func (r *Resolver) IsApproved(ctx context.Context, userID uint) bool {
	approved, err := r.store.IsApproved(ctx, userID)
	if err != nil {
		r.log.Error("approval lookup failed, denying", zap.Uint("user_id", userID), zap.Error(err))
		return false
	}
	return approved
}

// ScopeByDivisions applies a division filter to a query. nil means
// unfiltered; an empty filter yields a query matching no rows.
func ScopeByDivisions(q *gorm.DB, filter []uint) *gorm.DB {
	if filter == nil {
		return q
	}
	if len(filter) == 0 {
		return q.Where("1 = 0")
	}
	return q.Where("division_id IN ?", filter)
}
