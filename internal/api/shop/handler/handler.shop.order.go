package shophdl

import (
	"fmt"

	basehdl "epicerie_commerce/internal/api/base/handler"
	shopdto "epicerie_commerce/internal/api/shop/dto"
	models "epicerie_commerce/internal/api/shop/models"
	shopsvc "epicerie_commerce/internal/api/shop/service"
	"epicerie_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderHandler xử lý request đặt và quản lý đơn hàng
type OrderHandler struct {
	*basehdl.BaseHandler[models.Order, shopdto.OrderCreateInput, shopdto.OrderUpdateStatusInput]
	orderService *shopsvc.OrderService
}

// NewOrderHandler tạo instance mới của OrderHandler
func NewOrderHandler() (*OrderHandler, error) {
	orderService, err := shopsvc.NewOrderService()
	if err != nil {
		return nil, fmt.Errorf("failed to create order service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Order, shopdto.OrderCreateInput, shopdto.OrderUpdateStatusInput](orderService)
	return &OrderHandler{
		BaseHandler:  baseHandler,
		orderService: orderService,
	}, nil
}

// HandleCheckout đặt đơn từ storefront (public)
func (h *OrderHandler) HandleCheckout(c fiber.Ctx) error {
	var input shopdto.OrderCreateInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	order, err := h.orderService.CreateOrder(c.Context(), &input)
	h.HandleResponse(c, order, err)
	return nil
}

// HandleConfirm xác nhận đơn bằng token trong email (public, idempotent)
func (h *OrderHandler) HandleConfirm(c fiber.Ctx) error {
	var params shopdto.OrderConfirmParams
	if err := h.ParseRequestParams(c, &params); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&params); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	order, err := h.orderService.ConfirmByToken(c.Context(), params.Token)
	h.HandleResponse(c, order, err)
	return nil
}

// HandleUpdateStatus chuyển trạng thái đơn theo máy trạng thái (admin)
func (h *OrderHandler) HandleUpdateStatus(c fiber.Ctx) error {
	id := c.Params("id")
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "ID không hợp lệ", common.StatusBadRequest, err))
		return nil
	}
	var input shopdto.OrderUpdateStatusInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	order, err := h.orderService.UpdateStatus(c.Context(), objID, input.Status, input.Note)
	h.HandleResponse(c, order, err)
	return nil
}

// HandleUpdatePaymentStatus cập nhật trạng thái thanh toán của đơn (admin)
func (h *OrderHandler) HandleUpdatePaymentStatus(c fiber.Ctx) error {
	id := c.Params("id")
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "ID không hợp lệ", common.StatusBadRequest, err))
		return nil
	}
	var input shopdto.OrderUpdatePaymentStatusInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	order, err := h.orderService.UpdatePaymentStatus(c.Context(), objID, input.PaymentStatus)
	h.HandleResponse(c, order, err)
	return nil
}

// HandleGetByOrderNumber tra cứu đơn theo mã đơn hàng (admin)
func (h *OrderHandler) HandleGetByOrderNumber(c fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")
	if orderNumber == "" {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Thiếu mã đơn hàng", common.StatusBadRequest, nil))
		return nil
	}
	order, err := h.orderService.FindByOrderNumber(c.Context(), orderNumber)
	h.HandleResponse(c, order, err)
	return nil
}
