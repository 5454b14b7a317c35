package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/taller3d/printforge-api/internal/application/catalog"
	"github.com/taller3d/printforge-api/internal/application/dto"
	"github.com/taller3d/printforge-api/internal/domain"
	"github.com/taller3d/printforge-api/internal/domain/entity"
)

// CatalogHandler maneja materiales, filamentos, proveedores y modelos.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler de catálogo.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateMaterial godoc
// @Summary      Crear material
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequest  true  "name"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materials [post]
func (h *CatalogHandler) CreateMaterial(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m, err := h.uc.CreateMaterial(c.Context(), in.Name)
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MaterialResponse{ID: m.ID, Name: m.Name})
}

// ListMaterials godoc
// @Summary      Listar materiales
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  dto.MaterialResponse
// @Router       /api/materials [get]
func (h *CatalogHandler) ListMaterials(c *fiber.Ctx) error {
	materials, err := h.uc.ListMaterials(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.MaterialResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, dto.MaterialResponse{ID: m.ID, Name: m.Name})
	}
	return c.JSON(out)
}

// CreateFilament godoc
// @Summary      Crear filamento
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFilamentRequest  true  "material_id, name, color_hex (6 dígitos hex)"
// @Success      201   {object}  dto.FilamentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/filaments [post]
func (h *CatalogHandler) CreateFilament(c *fiber.Ctx) error {
	var in dto.CreateFilamentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	f, err := h.uc.CreateFilament(c.Context(), in.MaterialID, in.Name, in.ColorHex)
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(filamentResponse(f))
}

// ListFilaments godoc
// @Summary      Listar filamentos
// @Tags         catalog
// @Produce      json
// @Param        material_id  query  string  false  "Filtrar por material (UUID)"
// @Success      200  {array}  dto.FilamentResponse
// @Router       /api/filaments [get]
func (h *CatalogHandler) ListFilaments(c *fiber.Ctx) error {
	filaments, err := h.uc.ListFilaments(c.Context(), c.Query("material_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.FilamentResponse, 0, len(filaments))
	for i := range filaments {
		out = append(out, filamentResponse(&filaments[i]))
	}
	return c.JSON(out)
}

// CreateSupplier godoc
// @Summary      Crear proveedor
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplierRequest  true  "name, address, phone, email"
// @Success      201   {object}  dto.SupplierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/suppliers [post]
func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s, err := h.uc.CreateSupplier(c.Context(), in.Name, in.Address, in.Phone, in.Email)
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(supplierResponse(s))
}

// ListSuppliers godoc
// @Summary      Listar proveedores
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SupplierResponse
// @Router       /api/suppliers [get]
func (h *CatalogHandler) ListSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.uc.ListSuppliers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, supplierResponse(&suppliers[i]))
	}
	return c.JSON(out)
}

// CreateModel godoc
// @Summary      Crear modelo imprimible
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateModelRequest  true  "name, fixed_cost, estimated_print_volume (cm³), base_infill (fracción 0-1)"
// @Success      201   {object}  dto.ModelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/models [post]
func (h *CatalogHandler) CreateModel(c *fiber.Ctx) error {
	var in dto.CreateModelRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	fixedCost, err := decimal.NewFromString(in.FixedCost)
	if err != nil {
		return malformedNumeric(c, "fixed_cost")
	}
	baseInfill, err := decimal.NewFromString(in.BaseInfill)
	if err != nil {
		return malformedNumeric(c, "base_infill")
	}
	m, err := h.uc.CreateModel(c.Context(), catalog.CreateModelInput{
		Name:                 in.Name,
		Description:          in.Description,
		FilePath:             in.FilePath,
		FixedCost:            fixedCost,
		EstimatedPrintVolume: in.EstimatedPrintVolume,
		BaseInfill:           baseInfill,
	})
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(modelResponse(m))
}

// GetModel godoc
// @Summary      Obtener modelo
// @Tags         catalog
// @Produce      json
// @Param        id  path  string  true  "UUID del modelo"
// @Success      200  {object}  dto.ModelResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/models/{id} [get]
func (h *CatalogHandler) GetModel(c *fiber.Ctx) error {
	m, err := h.uc.GetModel(c.Context(), c.Params("id"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(modelResponse(m))
}

// ListModels godoc
// @Summary      Listar modelos de la galería
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  dto.ModelResponse
// @Router       /api/models [get]
func (h *CatalogHandler) ListModels(c *fiber.Ctx) error {
	models, err := h.uc.ListModels(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ModelResponse, 0, len(models))
	for i := range models {
		out = append(out, modelResponse(&models[i]))
	}
	return c.JSON(out)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func catalogError(c *fiber.Ctx, err error) error {
	if err == domain.ErrInvalidInput {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if err == domain.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	}
	if err == domain.ErrDuplicate {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func malformedNumeric(c *fiber.Ctx, field string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "MALFORMED_NUMERIC",
		Message: "valor numérico inválido en " + field,
	})
}

func filamentResponse(f *entity.Filament) dto.FilamentResponse {
	return dto.FilamentResponse{ID: f.ID, MaterialID: f.MaterialID, Name: f.Name, ColorHex: f.ColorHex}
}

func supplierResponse(s *entity.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{ID: s.ID, Name: s.Name, Address: s.Address, Phone: s.Phone, Email: s.Email}
}

func modelResponse(m *entity.PrintableModel) dto.ModelResponse {
	return dto.ModelResponse{
		ID:                   m.ID,
		Name:                 m.Name,
		Description:          m.Description,
		FilePath:             m.FilePath,
		FixedCost:            m.FixedCost.StringFixed(2),
		EstimatedPrintVolume: m.EstimatedPrintVolume,
		BaseInfill:           m.BaseInfill.String(),
		CreatedAt:            m.CreatedAt,
	}
}
