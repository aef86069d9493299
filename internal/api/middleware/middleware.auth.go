package middleware

import (
	"context"
	"strings"
	"sync"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	authmodels "epicerie_commerce/internal/api/auth/models"
	authsvc "epicerie_commerce/internal/api/auth/service"
	"epicerie_commerce/internal/common"
	"epicerie_commerce/internal/global"
	"epicerie_commerce/internal/logger"
)

var (
	authUserService *authsvc.UserService
	authServiceOnce sync.Once
)

// getAuthUserService trả về instance duy nhất của UserService cho middleware (singleton).
func getAuthUserService() *authsvc.UserService {
	authServiceOnce.Do(func() {
		svc, err := authsvc.NewUserService()
		if err != nil {
			panic(err)
		}
		authUserService = svc
	})
	return authUserService
}

// verifyJwtToken kiểm tra chữ ký và hạn của JWT token.
func verifyJwtToken(tokenString string) error {
	claims := &authmodels.JwtToken{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrTokenInvalid
		}
		return []byte(global.MongoDB_ServerConfig.JwtSecret), nil
	})
	if err != nil || !token.Valid {
		return common.ErrTokenInvalid
	}
	return nil
}

// AuthMiddleware middleware xác thực cho Fiber.
// requireRole: role tối thiểu để truy cập route ("" = chỉ cần đăng nhập, "admin" = chỉ admin).
func AuthMiddleware(requireRole string) fiber.Handler {
	return func(c fiber.Ctx) error {
		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("Thiếu Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}
		token := parts[1]

		// Kiểm tra chữ ký và hạn token trước khi query database
		if err := verifyJwtToken(token); err != nil {
			HandleErrorResponse(c, err)
			return nil
		}

		// Tìm user có token (token bị thu hồi khi logout/block/đổi mật khẩu)
		user, err := getAuthUserService().FindByToken(context.Background(), token)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("Token không tồn tại trong database")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Kiểm tra user có bị khóa không
		if user.IsBlock {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthCredentials,
				"Tài khoản đã bị khóa: "+user.BlockNote,
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		// Lưu thông tin user vào context
		c.Locals("user_id", user.ID.Hex())
		c.Locals("user_role", user.Role)
		c.Locals("user", user)

		// Kiểm tra role nếu route yêu cầu
		if requireRole == authmodels.RoleAdmin && user.Role != authmodels.RoleAdmin {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"user_id":    user.ID.Hex(),
				"user_email": user.Email,
				"path":       c.Path(),
			}).Warn("User không có quyền admin")
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthRole,
				"Không có quyền truy cập. Chức năng này yêu cầu quyền quản trị.",
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		return c.Next()
	}
}
