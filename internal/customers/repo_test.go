package customers

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/firmarollers/b2b-backend/pkg/db/models"
	"github.com/firmarollers/b2b-backend/pkg/enums"
	"github.com/firmarollers/b2b-backend/pkg/types"
)

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	customers := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  auth_user_id TEXT NOT NULL UNIQUE,
  company_name TEXT NOT NULL,
  nombre_comercial TEXT,
  nif_cif TEXT NOT NULL,
  contacto_nombre TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  telefono TEXT,
  direccion_envio TEXT,
  estado TEXT NOT NULL DEFAULT 'active',
  tarifa_id TEXT,
  descuento_pct NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
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

	require.NoError(t, db.Exec(customers).Error)
	require.NoError(t, db.Exec(tarifas).Error)
	require.NoError(t, db.Exec(precios).Error)
	return db
}

func seedCustomer(t *testing.T, repo Repository, company, email string) *models.Customer {
	t.Helper()

	created, err := repo.Create(context.Background(), &models.Customer{
		ID:             uuid.New(),
		AuthUserID:     uuid.New(),
		CompanyName:    company,
		NifCif:         "B12345678",
		ContactoNombre: "Contacto",
		Email:          email,
		Estado:         enums.CustomerEstadoActive,
		DireccionEnvio: types.ShippingAddress{
			Street:     "Calle Mayor 1",
			City:       "Bilbao",
			PostalCode: "48001",
			Country:    "ES",
		},
	})
	require.NoError(t, err)
	return created
}

func TestCustomersRepoCreateAndFind(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := seedCustomer(t, repo, "Norte SL", "norte@example.com")

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Norte SL", found.CompanyName)
	assert.Equal(t, "Bilbao", found.DireccionEnvio.City)

	byAuth, err := repo.FindByAuthUserID(ctx, created.AuthUserID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byAuth.ID)

	byEmail, err := repo.FindByEmail(ctx, "norte@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCustomersRepoFindPreloadsTarifa(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tarifaID := uuid.New()
	require.NoError(t, db.Exec(
		"INSERT INTO tarifas (id, nombre, multiplicador, activo, pack_size) VALUES (?, ?, ?, ?, ?)",
		tarifaID, "Mayorista", "0.80", true, 6,
	).Error)
	require.NoError(t, db.Exec(
		"INSERT INTO tarifas_precios (tarifa_id, sku, precio) VALUES (?, ?, ?)",
		tarifaID, "PB-100", "19.90",
	).Error)

	created := seedCustomer(t, repo, "Norte SL", "norte@example.com")
	require.NoError(t, repo.Update(ctx, created.ID, map[string]any{"tarifa_id": tarifaID}))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Tarifa)
	assert.Equal(t, "Mayorista", found.Tarifa.Nombre)
	require.Len(t, found.Tarifa.Precios, 1)
	assert.Equal(t, "PB-100", found.Tarifa.Precios[0].SKU)
}

func TestCustomersRepoListOrdersByCompanyName(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)

	seedCustomer(t, repo, "Zeta SA", "zeta@example.com")
	seedCustomer(t, repo, "Alfa SL", "alfa@example.com")

	customers, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "Alfa SL", customers[0].CompanyName)
}

func TestCustomersRepoUpdate(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := seedCustomer(t, repo, "Norte SL", "norte@example.com")

	require.NoError(t, repo.Update(ctx, created.ID, map[string]any{
		"estado":        enums.CustomerEstadoInactive,
		"descuento_pct": decimal.NewFromInt(10),
	}))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.CustomerEstadoInactive, found.Estado)
	assert.True(t, found.DescuentoPct.Equal(decimal.NewFromInt(10)))
}
