// Package router đăng ký các route thuộc domain auth: đăng nhập, profile, quản lý user.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authhdl "epicerie_commerce/internal/api/auth/handler"
	authmodels "epicerie_commerce/internal/api/auth/models"
	basehdl "epicerie_commerce/internal/api/base/handler"
	"epicerie_commerce/internal/api/middleware"
	apirouter "epicerie_commerce/internal/api/router"
)

// Register đăng ký tất cả route auth (system, auth, user admin) lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := registerSystemRoutes(v1); err != nil {
		return err
	}
	if err := registerAuthRoutes(v1); err != nil {
		return err
	}
	if err := registerUserAdminRoutes(v1, r); err != nil {
		return err
	}
	return nil
}

func registerSystemRoutes(router fiber.Router) error {
	systemHandler, err := basehdl.NewSystemHandler()
	if err != nil {
		return fmt.Errorf("failed to create system handler: %w", err)
	}
	router.Get("/system/health", systemHandler.HandleHealth)
	return nil
}

func registerAuthRoutes(router fiber.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}
	router.Post("/auth/login", userHandler.HandleLogin)
	authOnlyMiddleware := middleware.AuthMiddleware("")
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "POST", "/logout", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleLogout)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "GET", "/profile", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleGetProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "PUT", "/profile", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleUpdateProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "PUT", "/password", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleChangePassword)
	return nil
}

func registerUserAdminRoutes(router fiber.Router, r *apirouter.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}
	adminMiddleware := middleware.AuthMiddleware(authmodels.RoleAdmin)
	apirouter.RegisterRouteWithMiddleware(router, "/admin/user", "POST", "/register", []fiber.Handler{adminMiddleware}, userHandler.HandleRegister)
	apirouter.RegisterRouteWithMiddleware(router, "/admin/user", "POST", "/block", []fiber.Handler{adminMiddleware}, userHandler.HandleBlockUser)
	apirouter.RegisterRouteWithMiddleware(router, "/admin/user", "POST", "/unblock", []fiber.Handler{adminMiddleware}, userHandler.HandleUnBlockUser)
	r.RegisterCRUDRoutes(router, "/user", userHandler, apirouter.ReadOnlyConfig)
	return nil
}
