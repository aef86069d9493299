// Package router đăng ký các route thuộc domain catalog: danh mục, thương hiệu, sản phẩm.
// Route đọc cho storefront là public; route ghi yêu cầu quyền admin.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authmodels "epicerie_commerce/internal/api/auth/models"
	cataloghdl "epicerie_commerce/internal/api/catalog/handler"
	"epicerie_commerce/internal/api/middleware"
	apirouter "epicerie_commerce/internal/api/router"
)

// Register đăng ký tất cả route catalog lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := registerCategoryRoutes(v1, r); err != nil {
		return err
	}
	if err := registerBrandRoutes(v1, r); err != nil {
		return err
	}
	if err := registerProductRoutes(v1, r); err != nil {
		return err
	}
	return nil
}

func registerCategoryRoutes(router fiber.Router, r *apirouter.Router) error {
	categoryHandler, err := cataloghdl.NewCategoryHandler()
	if err != nil {
		return fmt.Errorf("failed to create category handler: %w", err)
	}
	adminMiddleware := middleware.AuthMiddleware(authmodels.RoleAdmin)

	// Storefront (public)
	router.Get("/category/tree", categoryHandler.HandleGetTree)
	router.Get("/category/slug/:slug", categoryHandler.HandleGetBySlug)
	router.Get("/category/:id/breadcrumb", categoryHandler.HandleGetBreadcrumb)
	router.Get("/category/:id/descendants", categoryHandler.HandleGetDescendants)

	// Admin
	apirouter.RegisterRouteWithMiddleware(router, "/category", "POST", "/create", []fiber.Handler{adminMiddleware}, categoryHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(router, "/category", "PUT", "/:id/set-parent", []fiber.Handler{adminMiddleware}, categoryHandler.HandleSetParent)
	apirouter.RegisterRouteWithMiddleware(router, "/category", "PUT", "/:id/rename", []fiber.Handler{adminMiddleware}, categoryHandler.HandleRename)
	apirouter.RegisterRouteWithMiddleware(router, "/category", "POST", "/:id/refresh-product-count", []fiber.Handler{adminMiddleware}, categoryHandler.HandleRefreshProductCount)
	apirouter.RegisterRouteWithMiddleware(router, "/category", "DELETE", "/:id", []fiber.Handler{adminMiddleware}, categoryHandler.HandleDelete)
	r.RegisterCRUDRoutes(router, "/category", categoryHandler, apirouter.ReadOnlyConfig)
	return nil
}

func registerBrandRoutes(router fiber.Router, r *apirouter.Router) error {
	brandHandler, err := cataloghdl.NewBrandHandler()
	if err != nil {
		return fmt.Errorf("failed to create brand handler: %w", err)
	}
	adminMiddleware := middleware.AuthMiddleware(authmodels.RoleAdmin)

	// Storefront (public)
	router.Get("/brand/slug/:slug", brandHandler.HandleGetBySlug)

	// Admin
	apirouter.RegisterRouteWithMiddleware(router, "/brand", "POST", "/create", []fiber.Handler{adminMiddleware}, brandHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(router, "/brand", "PUT", "/:id/rename", []fiber.Handler{adminMiddleware}, brandHandler.HandleRename)
	apirouter.RegisterRouteWithMiddleware(router, "/brand", "DELETE", "/:id", []fiber.Handler{adminMiddleware}, brandHandler.HandleDelete)
	r.RegisterCRUDRoutes(router, "/brand", brandHandler, apirouter.ReadOnlyConfig)
	return nil
}

func registerProductRoutes(router fiber.Router, r *apirouter.Router) error {
	productHandler, err := cataloghdl.NewProductHandler()
	if err != nil {
		return fmt.Errorf("failed to create product handler: %w", err)
	}
	adminMiddleware := middleware.AuthMiddleware(authmodels.RoleAdmin)

	// Storefront (public)
	router.Get("/product/slug/:slug", productHandler.HandleGetBySlug)
	router.Get("/product/by-category/:slug", productHandler.HandleListByCategorySlug)

	// Admin
	apirouter.RegisterRouteWithMiddleware(router, "/product", "POST", "/create", []fiber.Handler{adminMiddleware}, productHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(router, "/product", "PUT", "/:id/rename", []fiber.Handler{adminMiddleware}, productHandler.HandleRename)
	apirouter.RegisterRouteWithMiddleware(router, "/product", "POST", "/:id/adjust-stock", []fiber.Handler{adminMiddleware}, productHandler.HandleAdjustStock)
	r.RegisterCRUDRoutes(router, "/product", productHandler, apirouter.ManagedWriteConfig)
	return nil
}
