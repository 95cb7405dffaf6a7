package tariffs

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/firmarollers/b2b-backend/pkg/db/models"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
)

type stubTariffsRepo struct {
	tarifa        *models.Tarifa
	created       *models.Tarifa
	updates       map[string]any
	deletedFor    *uuid.UUID
	inserted      []models.TarifaPrecio
	findByID      func(ctx context.Context, id uuid.UUID) (*models.Tarifa, error)
	insertPrecios func(ctx context.Context, precios []models.TarifaPrecio) error
}

func (s *stubTariffsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubTariffsRepo) Create(ctx context.Context, tarifa *models.Tarifa) (*models.Tarifa, error) {
	if tarifa.ID == uuid.Nil {
		tarifa.ID = uuid.New()
	}
	s.created = tarifa
	return tarifa, nil
}

func (s *stubTariffsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubTariffsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Tarifa, error) {
	if s.findByID != nil {
		return s.findByID(ctx, id)
	}
	if s.tarifa == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.tarifa, nil
}

func (s *stubTariffsRepo) List(ctx context.Context) ([]models.Tarifa, error) {
	if s.tarifa == nil {
		return nil, nil
	}
	return []models.Tarifa{*s.tarifa}, nil
}

func (s *stubTariffsRepo) DeletePrecios(ctx context.Context, tarifaID uuid.UUID) error {
	s.deletedFor = &tarifaID
	return nil
}

func (s *stubTariffsRepo) InsertPrecios(ctx context.Context, precios []models.TarifaPrecio) error {
	if s.insertPrecios != nil {
		return s.insertPrecios(ctx, precios)
	}
	s.inserted = precios
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateRequiresNombreAndMultiplier(t *testing.T) {
	repo := &stubTariffsRepo{}
	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.Create(context.Background(), CreateInput{Multiplicador: dec("0.8")}); err == nil {
		t.Fatalf("expected nombre requirement")
	}
	if _, err := svc.Create(context.Background(), CreateInput{Nombre: "Mayorista"}); err == nil {
		t.Fatalf("expected multiplier requirement")
	}
}

func TestCreateDefaultsPackSizeAndActive(t *testing.T) {
	repo := &stubTariffsRepo{}
	svc, _ := NewService(repo, stubTxRunner{})

	tarifa, err := svc.Create(context.Background(), CreateInput{
		Nombre:        "Mayorista",
		Multiplicador: dec("0.8"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tarifa.PackSize != 1 {
		t.Fatalf("expected default pack size 1, got %d", tarifa.PackSize)
	}
	if !tarifa.Activo {
		t.Fatalf("expected new tarifa active by default")
	}
}

func TestUpdateValidatesFields(t *testing.T) {
	existing := &models.Tarifa{ID: uuid.New(), Nombre: "Mayorista", Multiplicador: dec("1")}
	repo := &stubTariffsRepo{tarifa: existing}
	svc, _ := NewService(repo, stubTxRunner{})

	bad := dec("-0.5")
	if _, err := svc.Update(context.Background(), existing.ID, UpdateInput{Multiplicador: &bad}); err == nil {
		t.Fatalf("expected negative multiplier rejection")
	}

	zero := 0
	if _, err := svc.Update(context.Background(), existing.ID, UpdateInput{PackSize: &zero}); err == nil {
		t.Fatalf("expected pack size rejection")
	}

	mult := dec("0.75")
	if _, err := svc.Update(context.Background(), existing.ID, UpdateInput{Multiplicador: &mult}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := repo.updates["multiplicador"]; got == nil {
		t.Fatalf("multiplicador not written: %v", repo.updates)
	}
}

func TestGetNotFound(t *testing.T) {
	repo := &stubTariffsRepo{}
	svc, _ := NewService(repo, stubTxRunner{})

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReplacePricesSkipsBlankAndKeepsZero(t *testing.T) {
	existing := &models.Tarifa{ID: uuid.New(), Nombre: "Mayorista", Multiplicador: dec("1")}
	repo := &stubTariffsRepo{tarifa: existing}
	svc, _ := NewService(repo, stubTxRunner{})

	err := svc.ReplacePrices(context.Background(), existing.ID, []PriceInput{
		{SKU: "PB-100", Precio: dec("19.90")},
		{SKU: "   ", Precio: dec("5.00")},
		{SKU: "MUESTRA-1", Precio: decimal.Zero},
	})
	if err != nil {
		t.Fatalf("replace prices: %v", err)
	}

	if repo.deletedFor == nil || *repo.deletedFor != existing.ID {
		t.Fatalf("existing precios should be cleared first")
	}
	if len(repo.inserted) != 2 {
		t.Fatalf("expected 2 rows (blank sku skipped), got %d", len(repo.inserted))
	}
	if !repo.inserted[1].Precio.IsZero() {
		t.Fatalf("zero precio override must survive replacement")
	}
}

func TestReplacePricesDeduplicatesKeepingLast(t *testing.T) {
	existing := &models.Tarifa{ID: uuid.New(), Nombre: "Mayorista", Multiplicador: dec("1")}
	repo := &stubTariffsRepo{tarifa: existing}
	svc, _ := NewService(repo, stubTxRunner{})

	err := svc.ReplacePrices(context.Background(), existing.ID, []PriceInput{
		{SKU: "PB-100", Precio: dec("19.90")},
		{SKU: "PB-100", Precio: dec("18.50")},
	})
	if err != nil {
		t.Fatalf("replace prices: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected deduplicated rows, got %d", len(repo.inserted))
	}
	if !repo.inserted[0].Precio.Equal(dec("18.50")) {
		t.Fatalf("last occurrence should win, got %s", repo.inserted[0].Precio)
	}
}

func TestReplacePricesRejectsNegative(t *testing.T) {
	existing := &models.Tarifa{ID: uuid.New(), Nombre: "Mayorista", Multiplicador: dec("1")}
	repo := &stubTariffsRepo{tarifa: existing}
	svc, _ := NewService(repo, stubTxRunner{})

	err := svc.ReplacePrices(context.Background(), existing.ID, []PriceInput{
		{SKU: "PB-100", Precio: dec("-1")},
	})
	if err == nil {
		t.Fatalf("expected negative precio rejection")
	}
}
