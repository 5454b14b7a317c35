package catalog

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/taller3d/printforge-api/internal/domain"
	"github.com/taller3d/printforge-api/internal/domain/entity"
	"github.com/taller3d/printforge-api/internal/domain/repository"
)

var colorHexRe = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// UseCase CRUD del catálogo: materiales, filamentos, proveedores y modelos
// imprimibles.
type UseCase struct {
	materialRepo repository.MaterialRepository
	filamentRepo repository.FilamentRepository
	supplierRepo repository.SupplierRepository
	modelRepo    repository.ModelRepository
}

// NewUseCase construye el caso de uso del catálogo.
func NewUseCase(
	materialRepo repository.MaterialRepository,
	filamentRepo repository.FilamentRepository,
	supplierRepo repository.SupplierRepository,
	modelRepo repository.ModelRepository,
) *UseCase {
	return &UseCase{
		materialRepo: materialRepo,
		filamentRepo: filamentRepo,
		supplierRepo: supplierRepo,
		modelRepo:    modelRepo,
	}
}

// CreateMaterial alta de material.
func (uc *UseCase) CreateMaterial(ctx context.Context, name string) (*entity.Material, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	m := &entity.Material{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	if err := uc.materialRepo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMaterials lista los materiales.
func (uc *UseCase) ListMaterials(ctx context.Context) ([]entity.Material, error) {
	return uc.materialRepo.List()
}

// CreateFilament alta de filamento. ColorHex son 6 dígitos hex sin '#'.
func (uc *UseCase) CreateFilament(ctx context.Context, materialID, name, colorHex string) (*entity.Filament, error) {
	if materialID == "" || name == "" || !colorHexRe.MatchString(colorHex) {
		return nil, domain.ErrInvalidInput
	}
	material, err := uc.materialRepo.GetByID(materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	f := &entity.Filament{
		ID:         uuid.New().String(),
		MaterialID: materialID,
		Name:       name,
		ColorHex:   colorHex,
		CreatedAt:  time.Now(),
	}
	if err := uc.filamentRepo.Create(f); err != nil {
		return nil, err
	}
	return f, nil
}

// ListFilaments lista filamentos, opcionalmente por material.
func (uc *UseCase) ListFilaments(ctx context.Context, materialID string) ([]entity.Filament, error) {
	if materialID != "" {
		return uc.filamentRepo.ListByMaterial(materialID)
	}
	return uc.filamentRepo.List()
}

// CreateSupplier alta de proveedor.
func (uc *UseCase) CreateSupplier(ctx context.Context, name, address, phone, email string) (*entity.Supplier, error) {
	if name == "" || email == "" {
		return nil, domain.ErrInvalidInput
	}
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   address,
		Phone:     phone,
		Email:     email,
		CreatedAt: time.Now(),
	}
	if err := uc.supplierRepo.Create(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListSuppliers lista los proveedores.
func (uc *UseCase) ListSuppliers(ctx context.Context) ([]entity.Supplier, error) {
	return uc.supplierRepo.List()
}

// CreateModelInput alta de modelo imprimible.
type CreateModelInput struct {
	Name                 string
	Description          string
	FilePath             string
	FixedCost            decimal.Decimal
	EstimatedPrintVolume int
	BaseInfill           decimal.Decimal
}

// CreateModel alta de modelo. BaseInfill debe ser fracción en [0, 1].
func (uc *UseCase) CreateModel(ctx context.Context, in CreateModelInput) (*entity.PrintableModel, error) {
	if in.Name == "" || in.EstimatedPrintVolume <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.FixedCost.IsNegative() || in.BaseInfill.IsNegative() || in.BaseInfill.GreaterThan(decimal.NewFromInt(1)) {
		return nil, domain.ErrInvalidInput
	}
	m := &entity.PrintableModel{
		ID:                   uuid.New().String(),
		Name:                 in.Name,
		Description:          in.Description,
		FilePath:             in.FilePath,
		FixedCost:            in.FixedCost,
		EstimatedPrintVolume: in.EstimatedPrintVolume,
		BaseInfill:           in.BaseInfill,
		CreatedAt:            time.Now(),
	}
	if err := uc.modelRepo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetModel devuelve un modelo por ID.
func (uc *UseCase) GetModel(ctx context.Context, id string) (*entity.PrintableModel, error) {
	m, err := uc.modelRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// ListModels lista los modelos imprimibles.
func (uc *UseCase) ListModels(ctx context.Context) ([]entity.PrintableModel, error) {
	return uc.modelRepo.List()
}
