package company

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

func (s *GormStore) GetHomeCompany(ctx context.Context, userID uint) (*model.Company, error) {
	var profile model.Profile
	result := s.db.WithContext(ctx).Select("company_id").First(&profile, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	if profile.CompanyID == nil {
		return nil, nil
	}
	return s.GetActiveCompany(ctx, *profile.CompanyID)
}

func (s *GormStore) IsSuperAdmin(ctx context.Context, userID uint) (bool, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&model.SuperAdminGrant{}).Where("user_id = ?", userID).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

func (s *GormStore) ListActiveCompanies(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	result := s.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&companies)
	if result.Error != nil {
		return nil, result.Error
	}
	return companies, nil
}

func (s *GormStore) GetActiveCompany(ctx context.Context, companyID uint) (*model.Company, error) {
	var company model.Company
	result := s.db.WithContext(ctx).Where("active = ?", true).First(&company, companyID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &company, nil
}
