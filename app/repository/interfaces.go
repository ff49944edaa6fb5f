package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/affideck/affideck/app/models"
)

// AffiliateRepository defines the interface for mirror table operations
type AffiliateRepository interface {
	Create(affiliate *models.Affiliate) error
	GetByID(id uint64) (*models.Affiliate, error)
	GetByCode(code string) (*models.Affiliate, error)
	GetAll() ([]models.Affiliate, error)
	Update(affiliate *models.Affiliate) error
	Delete(id uint64) error
	UpsertByCode(code string, defaultCommission, discountPercent decimal.Decimal, remoteRuleID int64) error
	Count() (int64, error)
	CodeCommissionMap() (map[string]decimal.Decimal, error)
}

// CommissionEventRepository defines the interface for webhook attribution records
type CommissionEventRepository interface {
	Create(event *models.CommissionEvent) error
	GetRecent(limit int) ([]models.CommissionEvent, error)
	CountSince(since time.Time) (int64, error)
}

// SyncRunRepository defines the interface for reconciliation audit rows
type SyncRunRepository interface {
	Create(run *models.SyncRun) error
	Update(run *models.SyncRun) error
	GetLatest() (*models.SyncRun, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Affiliate       AffiliateRepository
	CommissionEvent CommissionEventRepository
	SyncRun         SyncRunRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Affiliate:       NewAffiliateRepository(db),
		CommissionEvent: NewCommissionEventRepository(db),
		SyncRun:         NewSyncRunRepository(db),
	}
}
