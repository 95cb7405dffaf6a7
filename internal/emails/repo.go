package emails

import (
	"context"

	"gorm.io/gorm"

	"github.com/firmarollers/b2b-backend/pkg/db/models"
)

const defaultLogLimit = 100

type repository struct {
	db *gorm.DB
}

// NewRepository builds an email log repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, log *models.EmailLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) List(ctx context.Context, limit int) ([]models.EmailLog, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	var logs []models.EmailLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
