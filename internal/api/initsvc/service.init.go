// Package initsvc khởi tạo dữ liệu hệ thống khi server khởi động.
// Tách ra package riêng để tránh import cycle giữa auth/service và cmd/server.
package initsvc

import (
	"context"

	authsvc "epicerie_commerce/internal/api/auth/service"
	basesvc "epicerie_commerce/internal/api/base/service"
	"epicerie_commerce/internal/global"
	"epicerie_commerce/internal/logger"
)

// InitService chứa các service cần thiết cho quá trình khởi tạo dữ liệu ban đầu.
type InitService struct {
	userService *authsvc.UserService
}

// NewInitService tạo InitService và đăng ký hàm kiểm tra quyền admin
// để tầng base bảo vệ các bản ghi hệ thống (isSystem).
func NewInitService() (*InitService, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, err
	}

	basesvc.SetIsAdminFromContextFunc(authsvc.IsAdministratorFromContext)

	return &InitService{userService: userService}, nil
}

// InitAdminUser seed tài khoản quản trị đầu tiên nếu database chưa có admin nào.
// Thông tin lấy từ cấu hình (ADMIN_NAME / ADMIN_EMAIL / ADMIN_PASSWORD);
// bỏ qua khi mật khẩu không được cấu hình.
func (h *InitService) InitAdminUser() error {
	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig

	if cfg.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD chưa được cấu hình, bỏ qua seed tài khoản admin")
		return nil
	}

	created, isNew, err := h.userService.EnsureSystemAdmin(context.TODO(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return err
	}

	if isNew {
		log.WithField("email", created.Email).Info("Đã seed tài khoản admin mặc định")
	}
	return nil
}
