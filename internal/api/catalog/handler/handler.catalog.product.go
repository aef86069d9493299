package cataloghdl

import (
	"fmt"

	catalogdto "epicerie_commerce/internal/api/catalog/dto"
	models "epicerie_commerce/internal/api/catalog/models"
	catalogsvc "epicerie_commerce/internal/api/catalog/service"
	basehdl "epicerie_commerce/internal/api/base/handler"
	"epicerie_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductHandler xử lý request quản lý sản phẩm
type ProductHandler struct {
	*basehdl.BaseHandler[models.Product, catalogdto.ProductCreateInput, catalogdto.ProductUpdateInput]
	productService  *catalogsvc.ProductService
	categoryService *catalogsvc.CategoryService
}

// NewProductHandler tạo instance mới của ProductHandler
func NewProductHandler() (*ProductHandler, error) {
	productService, err := catalogsvc.NewProductService()
	if err != nil {
		return nil, fmt.Errorf("failed to create product service: %v", err)
	}
	categoryService, err := catalogsvc.NewCategoryService()
	if err != nil {
		return nil, fmt.Errorf("failed to create category service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Product, catalogdto.ProductCreateInput, catalogdto.ProductUpdateInput](productService)
	return &ProductHandler{
		BaseHandler:     baseHandler,
		productService:  productService,
		categoryService: categoryService,
	}, nil
}

// HandleCreate tạo sản phẩm mới, slug được cấp phát tự động từ tên
func (h *ProductHandler) HandleCreate(c fiber.Ctx) error {
	var input catalogdto.ProductCreateInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	product, err := h.productService.CreateProduct(c.Context(), &input)
	h.HandleResponse(c, product, err)
	return nil
}

// HandleGetBySlug trả về sản phẩm theo slug (storefront)
func (h *ProductHandler) HandleGetBySlug(c fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Thiếu slug", common.StatusBadRequest, nil))
		return nil
	}
	product, err := h.productService.FindBySlug(c.Context(), slug)
	h.HandleResponse(c, product, err)
	return nil
}

// HandleListByCategorySlug trả về sản phẩm đang bán của một danh mục
// (gồm cả cây con) theo slug danh mục — trang danh mục của storefront.
func (h *ProductHandler) HandleListByCategorySlug(c fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Thiếu slug", common.StatusBadRequest, nil))
		return nil
	}
	category, err := h.categoryService.FindBySlug(c.Context(), slug)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	ids := []primitive.ObjectID{category.ID}
	descendants, err := h.categoryService.Descendants(c.Context(), category.ID)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	for _, d := range descendants {
		ids = append(ids, d.ID)
	}

	products, err := h.productService.FindActiveByCategory(c.Context(), ids)
	h.HandleResponse(c, products, err)
	return nil
}

// HandleRename đổi tên sản phẩm, slug được cấp phát lại từ tên mới
func (h *ProductHandler) HandleRename(c fiber.Ctx) error {
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
	product, err := h.productService.Rename(c.Context(), objID, input.Name)
	h.HandleResponse(c, product, err)
	return nil
}

// HandleAdjustStock cộng/trừ tồn kho của sản phẩm
func (h *ProductHandler) HandleAdjustStock(c fiber.Ctx) error {
	objID, err := parseIDParam(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input struct {
		Delta int64 `json:"delta" validate:"required"`
	}
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	product, err := h.productService.AdjustStock(c.Context(), objID, input.Delta)
	h.HandleResponse(c, product, err)
	return nil
}
