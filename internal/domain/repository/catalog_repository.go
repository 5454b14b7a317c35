package repository

import "github.com/taller3d/printforge-api/internal/domain/entity"

// MaterialRepository puerto de persistencia para materiales.
type MaterialRepository interface {
	Create(material *entity.Material) error
	GetByID(id string) (*entity.Material, error)
	List() ([]entity.Material, error)
}

// FilamentRepository puerto de persistencia para filamentos.
type FilamentRepository interface {
	Create(filament *entity.Filament) error
	GetByID(id string) (*entity.Filament, error)
	ListByMaterial(materialID string) ([]entity.Filament, error)
	List() ([]entity.Filament, error)
}

// SupplierRepository puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List() ([]entity.Supplier, error)
}

// ModelRepository puerto de persistencia para modelos imprimibles.
type ModelRepository interface {
	Create(model *entity.PrintableModel) error
	GetByID(id string) (*entity.PrintableModel, error)
	List() ([]entity.PrintableModel, error)
	Update(model *entity.PrintableModel) error
}
