package dto

import "time"

// CreateMaterialRequest alta de material (PLA, PETG...).
type CreateMaterialRequest struct {
	Name string `json:"name"`
}

// MaterialResponse material del catálogo.
type MaterialResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateFilamentRequest alta de filamento.
type CreateFilamentRequest struct {
	MaterialID string `json:"material_id"`
	Name       string `json:"name"`
	ColorHex   string `json:"color_hex"`
}

// FilamentResponse filamento del catálogo.
type FilamentResponse struct {
	ID         string `json:"id"`
	MaterialID string `json:"material_id"`
	Name       string `json:"name"`
	ColorHex   string `json:"color_hex"`
}

// CreateSupplierRequest alta de proveedor.
type CreateSupplierRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// SupplierResponse proveedor.
type SupplierResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// CreateModelRequest alta de modelo imprimible. BaseInfill es fracción 0–1.
type CreateModelRequest struct {
	Name                 string `json:"name"`
	Description          string `json:"description"`
	FilePath             string `json:"file_path"`
	FixedCost            string `json:"fixed_cost"`
	EstimatedPrintVolume int    `json:"estimated_print_volume"`
	BaseInfill           string `json:"base_infill"`
}

// ModelResponse modelo imprimible.
type ModelResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	FilePath             string    `json:"file_path"`
	FixedCost            string    `json:"fixed_cost"`
	EstimatedPrintVolume int       `json:"estimated_print_volume"`
	BaseInfill           string    `json:"base_infill"`
	CreatedAt            time.Time `json:"created_at"`
}
