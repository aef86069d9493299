package cataloghdl

import (
	"fmt"

	catalogdto "epicerie_commerce/internal/api/catalog/dto"
	models "epicerie_commerce/internal/api/catalog/models"
	catalogsvc "epicerie_commerce/internal/api/catalog/service"
	basehdl "epicerie_commerce/internal/api/base/handler"
	"epicerie_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
)

// BrandHandler xử lý request quản lý thương hiệu
type BrandHandler struct {
	*basehdl.BaseHandler[models.Brand, catalogdto.BrandCreateInput, catalogdto.BrandUpdateInput]
	brandService *catalogsvc.BrandService
}

// NewBrandHandler tạo instance mới của BrandHandler
func NewBrandHandler() (*BrandHandler, error) {
	brandService, err := catalogsvc.NewBrandService()
	if err != nil {
		return nil, fmt.Errorf("failed to create brand service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Brand, catalogdto.BrandCreateInput, catalogdto.BrandUpdateInput](brandService)
	return &BrandHandler{
		BaseHandler:  baseHandler,
		brandService: brandService,
	}, nil
}

// HandleCreate tạo thương hiệu mới, slug được cấp phát tự động từ tên
func (h *BrandHandler) HandleCreate(c fiber.Ctx) error {
	var input catalogdto.BrandCreateInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	brand, err := h.brandService.CreateBrand(c.Context(), &input)
	h.HandleResponse(c, brand, err)
	return nil
}

// HandleGetBySlug trả về thương hiệu theo slug (storefront)
func (h *BrandHandler) HandleGetBySlug(c fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Thiếu slug", common.StatusBadRequest, nil))
		return nil
	}
	brand, err := h.brandService.FindBySlug(c.Context(), slug)
	h.HandleResponse(c, brand, err)
	return nil
}

// HandleRename đổi tên thương hiệu, slug được cấp phát lại từ tên mới
func (h *BrandHandler) HandleRename(c fiber.Ctx) error {
	objID, err := parseIDParam(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input catalogdto.RenameInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	brand, err := h.brandService.Rename(c.Context(), objID, input.Name)
	h.HandleResponse(c, brand, err)
	return nil
}

// HandleDelete xóa thương hiệu, chặn khi còn sản phẩm trực thuộc
func (h *BrandHandler) HandleDelete(c fiber.Ctx) error {
	objID, err := parseIDParam(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	err = h.brandService.DeleteBrand(c.Context(), objID)
	h.HandleResponse(c, nil, err)
	return nil
}
