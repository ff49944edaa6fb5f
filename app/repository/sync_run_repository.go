package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/affideck/affideck/app/models"
)

// syncRunRepository implements the SyncRunRepository interface
type syncRunRepository struct {
	db *gorm.DB
}

// NewSyncRunRepository creates a new sync run repository instance
func NewSyncRunRepository(db *gorm.DB) SyncRunRepository {
	return &syncRunRepository{db: db}
}

// Create inserts a new sync run row
func (r *syncRunRepository) Create(run *models.SyncRun) error {
	return r.db.Create(run).Error
}

// Update saves an existing sync run row
func (r *syncRunRepository) Update(run *models.SyncRun) error {
	return r.db.Save(run).Error
}

// GetLatest returns the newest sync run, or nil when no pass ran yet
func (r *syncRunRepository) GetLatest() (*models.SyncRun, error) {
	var run models.SyncRun
	err := r.db.Order("started_at DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
