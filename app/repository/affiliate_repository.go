package repository

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/affideck/affideck/app/models"
)

// affiliateRepository implements the AffiliateRepository interface
type affiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository creates a new affiliate repository instance
func NewAffiliateRepository(db *gorm.DB) AffiliateRepository {
	return &affiliateRepository{db: db}
}

// Create inserts a new affiliate row
func (r *affiliateRepository) Create(affiliate *models.Affiliate) error {
	return r.db.Create(affiliate).Error
}

// GetByID retrieves an affiliate by its local ID
func (r *affiliateRepository) GetByID(id uint64) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := r.db.First(&affiliate, id).Error
	if err != nil {
		return nil, err
	}
	return &affiliate, nil
}

// GetByCode retrieves an affiliate by its discount code
func (r *affiliateRepository) GetByCode(code string) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := r.db.Where("code = ?", code).First(&affiliate).Error
	if err != nil {
		return nil, err
	}
	return &affiliate, nil
}

// GetAll retrieves all affiliates, newest first for the panel listing
func (r *affiliateRepository) GetAll() ([]models.Affiliate, error) {
	var affiliates []models.Affiliate
	err := r.db.Order("created_at DESC").Find(&affiliates).Error
	return affiliates, err
}

// Update saves an existing affiliate row
func (r *affiliateRepository) Update(affiliate *models.Affiliate) error {
	return r.db.Save(affiliate).Error
}

// Delete removes an affiliate row by ID
func (r *affiliateRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Affiliate{}, id).Error
}

// UpsertByCode inserts the code as a fresh active row, or refreshes the
// remote-owned columns on the existing row. Name, email and commission
// percent are mirror-only and stay untouched on conflict; the commission
// default applies to first insert only.
func (r *affiliateRepository) UpsertByCode(code string, defaultCommission, discountPercent decimal.Decimal, remoteRuleID int64) error {
	row := &models.Affiliate{
		Name:              code, // display name defaults to the code for remote-only rows
		Email:             "",
		Code:              code,
		DiscountPercent:   discountPercent,
		CommissionPercent: defaultCommission,
		Status:            models.AffiliateStatusActive,
		RemoteRuleID:      &remoteRuleID,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "code"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"discount_percent",
			"remote_rule_id",
			"status",
			"updated_at",
		}),
	}).Create(row).Error
}

// Count returns the total number of affiliate rows
func (r *affiliateRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Affiliate{}).Count(&count).Error
	return count, err
}

// CodeCommissionMap builds the code -> commission percent lookup used by
// commission attribution. Built per request, never cached.
func (r *affiliateRepository) CodeCommissionMap() (map[string]decimal.Decimal, error) {
	affiliates, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	rates := make(map[string]decimal.Decimal, len(affiliates))
	for _, a := range affiliates {
		rates[a.Code] = a.CommissionPercent
	}
	return rates, nil
}
