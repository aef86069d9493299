// Package router đăng ký các route thuộc domain shop: đặt đơn, xác nhận, quản lý đơn hàng.
// Checkout và xác nhận là public cho storefront; quản lý đơn yêu cầu đăng nhập.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authmodels "epicerie_commerce/internal/api/auth/models"
	"epicerie_commerce/internal/api/middleware"
	apirouter "epicerie_commerce/internal/api/router"
	shophdl "epicerie_commerce/internal/api/shop/handler"
)

// Register đăng ký tất cả route shop lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	orderHandler, err := shophdl.NewOrderHandler()
	if err != nil {
		return fmt.Errorf("failed to create order handler: %w", err)
	}
	authMiddleware := middleware.AuthMiddleware("")
	adminMiddleware := middleware.AuthMiddleware(authmodels.RoleAdmin)

	// Storefront (public)
	v1.Post("/order/checkout", orderHandler.HandleCheckout)
	v1.Get("/order/confirm/:token", orderHandler.HandleConfirm)

	// Admin backend
	apirouter.RegisterRouteWithMiddleware(v1, "/order", "PUT", "/:id/status", []fiber.Handler{adminMiddleware}, orderHandler.HandleUpdateStatus)
	apirouter.RegisterRouteWithMiddleware(v1, "/order", "PUT", "/:id/payment-status", []fiber.Handler{adminMiddleware}, orderHandler.HandleUpdatePaymentStatus)
	apirouter.RegisterRouteWithMiddleware(v1, "/order", "GET", "/by-number/:orderNumber", []fiber.Handler{authMiddleware}, orderHandler.HandleGetByOrderNumber)
	r.RegisterCRUDRoutes(v1, "/order", orderHandler, apirouter.ReadOnlyConfig)
	return nil
}
