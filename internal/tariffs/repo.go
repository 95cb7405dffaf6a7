package tariffs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/firmarollers/b2b-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tariffs repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, tarifa *models.Tarifa) (*models.Tarifa, error) {
	if err := r.db.WithContext(ctx).Create(tarifa).Error; err != nil {
		return nil, err
	}
	return tarifa, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Tarifa{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Tarifa, error) {
	var tarifa models.Tarifa
	err := r.db.WithContext(ctx).
		Preload("Precios").
		Where("id = ?", id).
		First(&tarifa).Error
	if err != nil {
		return nil, err
	}
	return &tarifa, nil
}

func (r *repository) List(ctx context.Context) ([]models.Tarifa, error) {
	var tarifas []models.Tarifa
	err := r.db.WithContext(ctx).
		Preload("Precios").
		Order("nombre ASC").
		Find(&tarifas).Error
	if err != nil {
		return nil, err
	}
	return tarifas, nil
}

func (r *repository) DeletePrecios(ctx context.Context, tarifaID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tarifa_id = ?", tarifaID).
		Delete(&models.TarifaPrecio{}).Error
}

func (r *repository) InsertPrecios(ctx context.Context, precios []models.TarifaPrecio) error {
	if len(precios) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&precios).Error
}
