// Package authsvc - các tiện ích context và kiểm tra quyền quản trị.
package authsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	authmodels "epicerie_commerce/internal/api/auth/models"
	basesvc "epicerie_commerce/internal/api/base/service"
	"epicerie_commerce/internal/global"
)

type contextKey string

// userIDContextKey key lưu userID trong context (xuyên qua các tầng service).
const userIDContextKey contextKey = "auth_user_id"

// SetUserIDToContext lưu userID vào context để các service phía dưới kiểm tra quyền.
func SetUserIDToContext(ctx context.Context, userID primitive.ObjectID) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// GetUserIDFromContext lấy userID từ context. Trả về NilObjectID nếu không có.
func GetUserIDFromContext(ctx context.Context) primitive.ObjectID {
	if userID, ok := ctx.Value(userIDContextKey).(primitive.ObjectID); ok {
		return userID
	}
	return primitive.NilObjectID
}

// IsAdministratorFromContext kiểm tra user trong context có role admin không.
// Được đăng ký vào basesvc (SetIsAdminFromContextFunc) để bảo vệ dữ liệu hệ thống.
func IsAdministratorFromContext(ctx context.Context) (bool, error) {
	userID := GetUserIDFromContext(ctx)
	if userID.IsZero() {
		return false, nil
	}

	collection, exists := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exists {
		return false, fmt.Errorf("users collection chưa được đăng ký")
	}

	userService := basesvc.NewBaseServiceMongo[authmodels.User](collection)
	user, err := userService.FindOneById(ctx, userID)
	if err != nil {
		return false, err
	}

	return user.Role == authmodels.RoleAdmin && !user.IsBlock, nil
}
