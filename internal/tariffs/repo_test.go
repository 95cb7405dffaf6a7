package tariffs

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/firmarollers/b2b-backend/pkg/db/models"
)

func setupTariffsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	tarifas := `
CREATE TABLE IF NOT EXISTS tarifas (
  id TEXT PRIMARY KEY,
  nombre TEXT NOT NULL,
  descripcion TEXT,
  multiplicador NUMERIC NOT NULL DEFAULT 1,
  activo INTEGER NOT NULL DEFAULT 1,
  minimum_order_value NUMERIC NOT NULL DEFAULT 0,
  pack_size INTEGER NOT NULL DEFAULT 1,
  hidden_products TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);`
	precios := `
CREATE TABLE IF NOT EXISTS tarifas_precios (
  tarifa_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  precio NUMERIC NOT NULL,
  PRIMARY KEY (tarifa_id, sku)
);`

	require.NoError(t, db.Exec(tarifas).Error)
	require.NoError(t, db.Exec(precios).Error)
	return db
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupTariffsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tarifa := &models.Tarifa{
		ID:            uuid.New(),
		Nombre:        "Mayorista",
		Multiplicador: dec("0.80"),
		Activo:        true,
		PackSize:      6,
	}
	created, err := repo.Create(ctx, tarifa)
	require.NoError(t, err)

	require.NoError(t, repo.InsertPrecios(ctx, []models.TarifaPrecio{
		{TarifaID: created.ID, SKU: "PB-100", Precio: dec("19.90")},
		{TarifaID: created.ID, SKU: "MUESTRA-1", Precio: dec("0")},
	}))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mayorista", found.Nombre)
	assert.Equal(t, 6, found.PackSize)
	require.Len(t, found.Precios, 2)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListOrdersByNombre(t *testing.T) {
	db := setupTariffsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for _, nombre := range []string{"Zona Sur", "Distribuidor", "Mayorista"} {
		_, err := repo.Create(ctx, &models.Tarifa{
			ID:            uuid.New(),
			Nombre:        nombre,
			Multiplicador: dec("1"),
			Activo:        true,
			PackSize:      1,
		})
		require.NoError(t, err)
	}

	tarifas, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tarifas, 3)
	assert.Equal(t, "Distribuidor", tarifas[0].Nombre)
	assert.Equal(t, "Zona Sur", tarifas[2].Nombre)
}

func TestRepositoryDeletePrecios(t *testing.T) {
	db := setupTariffsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tarifa, err := repo.Create(ctx, &models.Tarifa{
		ID:            uuid.New(),
		Nombre:        "Mayorista",
		Multiplicador: dec("1"),
		Activo:        true,
		PackSize:      1,
	})
	require.NoError(t, err)

	require.NoError(t, repo.InsertPrecios(ctx, []models.TarifaPrecio{
		{TarifaID: tarifa.ID, SKU: "PB-100", Precio: dec("19.90")},
	}))
	require.NoError(t, repo.DeletePrecios(ctx, tarifa.ID))

	found, err := repo.FindByID(ctx, tarifa.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Precios)
}

func TestRepositoryUpdate(t *testing.T) {
	db := setupTariffsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tarifa, err := repo.Create(ctx, &models.Tarifa{
		ID:            uuid.New(),
		Nombre:        "Mayorista",
		Multiplicador: dec("1"),
		Activo:        true,
		PackSize:      1,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, tarifa.ID, map[string]any{
		"nombre":    "Mayorista Plus",
		"pack_size": 12,
	}))

	found, err := repo.FindByID(ctx, tarifa.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mayorista Plus", found.Nombre)
	assert.Equal(t, 12, found.PackSize)
}
