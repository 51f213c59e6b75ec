package permission

import "context"

// DivisionGrant is one row of a user's division permissions.
type DivisionGrant struct {
	DivisionID uint
	CanAccess  bool
}

// Store is the lookup surface the resolver needs. The production
// implementation is backed by gorm; tests use an in-memory fake.
type Store interface {
	// GetRole returns the user's single role row. ok is false when no
	// row exists.
	GetRole(ctx context.Context, userID uint) (role Role, ok bool, err error)

	// GetDivisionGrants returns all division permission rows for the
	// user, including rows with can_access = false.
	GetDivisionGrants(ctx context.Context, userID uint) ([]DivisionGrant, error)

	// GetPagePermission returns the can_access value for (role, page).
	// ok is false when no row exists.
	GetPagePermission(ctx context.Context, role Role, page string) (canAccess bool, ok bool, err error)

	// IsApproved reports whether the user's profile is approved.
	IsApproved(ctx context.Context, userID uint) (bool, error)
}
