package permission

import (
	"context"
	"errors"

	"campadmin/internal/model"

	"gorm.io/gorm"
)

// GormStore implements Store against the application database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetRole(ctx context.Context, userID uint) (Role, bool, error) {
	var row model.UserRole
	result := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, result.Error
	}
	return Role(row.Role), true, nil
}

func (s *GormStore) GetDivisionGrants(ctx context.Context, userID uint) ([]DivisionGrant, error) {
	var rows []model.DivisionPermission
	result := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	grants := make([]DivisionGrant, 0, len(rows))
	for _, row := range rows {
		grants = append(grants, DivisionGrant{DivisionID: row.DivisionID, CanAccess: row.CanAccess})
	}
	return grants, nil
}

func (s *GormStore) GetPagePermission(ctx context.Context, role Role, page string) (bool, bool, error) {
	var row model.RolePermission
	result := s.db.WithContext(ctx).Where("role = ? AND page = ?", string(role), page).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, false, nil
		}
		return false, false, result.Error
	}
	return row.CanAccess, true, nil
}

func (s *GormStore) IsApproved(ctx context.Context, userID uint) (bool, error) {
	var profile model.Profile
	result := s.db.WithContext(ctx).Select("approved").First(&profile, userID)
	if result.Error != nil {
		return false, result.Error
	}
	return profile.Approved, nil
}
