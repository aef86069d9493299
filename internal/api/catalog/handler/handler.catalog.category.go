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

// CategoryHandler xử lý request quản lý cây danh mục
type CategoryHandler struct {
	*basehdl.BaseHandler[models.Category, catalogdto.CategoryCreateInput, catalogdto.CategoryUpdateInput]
	categoryService *catalogsvc.CategoryService
}

// NewCategoryHandler tạo instance mới của CategoryHandler
func NewCategoryHandler() (*CategoryHandler, error) {
	categoryService, err := catalogsvc.NewCategoryService()
	if err != nil {
		return nil, fmt.Errorf("failed to create category service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Category, catalogdto.CategoryCreateInput, catalogdto.CategoryUpdateInput](categoryService)
	return &CategoryHandler{
		BaseHandler:     baseHandler,
		categoryService: categoryService,
	}, nil
}

// parseIDParam đọc và kiểm tra param :id trên URL
func parseIDParam(c fiber.Ctx) (primitive.ObjectID, error) {
	id := c.Params("id")
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "ID không hợp lệ", common.StatusBadRequest, err)
	}
	return objID, nil
}

// HandleCreate tạo danh mục mới, slug được cấp phát tự động từ tên
func (h *CategoryHandler) HandleCreate(c fiber.Ctx) error {
	var input catalogdto.CategoryCreateInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	category, err := h.categoryService.CreateCategory(basehdl.RequestContext(c), &input)
	h.HandleResponse(c, category, err)
	return nil
}

// HandleSetParent đổi cha của danh mục, tính lại level/path cho cả cây con
func (h *CategoryHandler) HandleSetParent(c fiber.Ctx) error {
	objID, err := parseIDParam(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input catalogdto.CategorySetParentInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	var parentID *primitive.ObjectID
	if input.ParentID != "" {
		pid, err := primitive.ObjectIDFromHex(input.ParentID)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "parentId không hợp lệ", common.StatusBadRequest, err))
			return nil
		}
		parentID = &pid
	}

	category, err := h.categoryService.SetParent(basehdl.RequestContext(c), objID, parentID)
	h.HandleResponse(c, category, err)
	return nil
}

// HandleRename đổi tên danh mục, slug và path cây con được tính lại
func (h *CategoryHandler) HandleRename(c fiber.Ctx) error {
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
	category, err := h.categoryService.Rename(basehdl.RequestContext(c), objID, input.Name)
	h.HandleResponse(c, category, err)
	return nil
}

// HandleGetTree trả về rừng danh mục dạng lồng nhau. Route public nên chỉ
// trả danh mục đang hiển thị; admin xem đầy đủ qua route find generic.
func (h *CategoryHandler) HandleGetTree(c fiber.Ctx) error {
	tree, err := h.categoryService.BuildTree(c.Context(), true)
	h.HandleResponse(c, tree, err)
	return nil
}

// HandleGetBreadcrumb trả về đường dẫn từ gốc xuống danh mục
func (h *CategoryHandler) HandleGetBreadcrumb(c fiber.Ctx) error {
	objID, err := parseIDParam(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	breadcrumb, err := h.categoryService.Breadcrumb(c.Context(), objID)
	h.HandleResponse(c, breadcrumb, err)
	return nil
}

// HandleGetDescendants trả về tất cả hậu duệ của danh mục (danh sách phẳng)
func (h *CategoryHandler) HandleGetDescendants(c fiber.Ctx) error {
	objID, err := parseIDParam(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	descendants, err := h.categoryService.Descendants(c.Context(), objID)
	h.HandleResponse(c, descendants, err)
	return nil
}

// HandleGetBySlug trả về danh mục theo slug (storefront)
func (h *CategoryHandler) HandleGetBySlug(c fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Thiếu slug", common.StatusBadRequest, nil))
		return nil
	}
	category, err := h.categoryService.FindBySlug(c.Context(), slug)
	h.HandleResponse(c, category, err)
	return nil
}

// HandleRefreshProductCount tính lại productCount cho danh mục và chuỗi tổ tiên
func (h *CategoryHandler) HandleRefreshProductCount(c fiber.Ctx) error {
	objID, err := parseIDParam(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	err = h.categoryService.RefreshProductCount(c.Context(), objID)
	h.HandleResponse(c, nil, err)
	return nil
}

// HandleDelete xóa danh mục, chặn khi còn danh mục con hoặc sản phẩm trực thuộc
func (h *CategoryHandler) HandleDelete(c fiber.Ctx) error {
	objID, err := parseIDParam(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	err = h.categoryService.DeleteCategory(c.Context(), objID)
	h.HandleResponse(c, nil, err)
	return nil
}
