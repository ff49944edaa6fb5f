package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/affideck/affideck/app/models"
)

// commissionEventRepository implements the CommissionEventRepository interface
type commissionEventRepository struct {
	db *gorm.DB
}

// NewCommissionEventRepository creates a new commission event repository instance
func NewCommissionEventRepository(db *gorm.DB) CommissionEventRepository {
	return &commissionEventRepository{db: db}
}

// Create persists one webhook attribution outcome
func (r *commissionEventRepository) Create(event *models.CommissionEvent) error {
	return r.db.Create(event).Error
}

// GetRecent retrieves the newest events for the panel
func (r *commissionEventRepository) GetRecent(limit int) ([]models.CommissionEvent, error) {
	var events []models.CommissionEvent
	err := r.db.Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

// CountSince counts events recorded at or after the given time
func (r *commissionEventRepository) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.CommissionEvent{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}
