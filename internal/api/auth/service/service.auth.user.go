package authsvc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authdto "epicerie_commerce/internal/api/auth/dto"
	authmodels "epicerie_commerce/internal/api/auth/models"
	basesvc "epicerie_commerce/internal/api/base/service"
	"epicerie_commerce/internal/common"
	"epicerie_commerce/internal/global"
	"epicerie_commerce/internal/utility"
)

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng quản trị.
type UserService struct {
	*basesvc.BaseServiceMongoImpl[authmodels.User]
}

// NewUserService tạo mới UserService.
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}

	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[authmodels.User](userCollection),
	}, nil
}

// hashPassword băm mật khẩu với salt (SHA-256).
func hashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(sum[:])
}

// generateJwtToken tạo JWT token cho user (HMAC, secret từ config).
func generateJwtToken(userID primitive.ObjectID) (string, error) {
	random, err := utility.GenerateSecureToken(8)
	if err != nil {
		return "", err
	}

	claims := authmodels.JwtToken{
		UserID:       userID.Hex(),
		Time:         strconv.FormatInt(time.Now().UnixMilli(), 10),
		RandomNumber: random,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(30 * 24 * time.Hour).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(global.MongoDB_ServerConfig.JwtSecret))
}

// CreateUser tạo người dùng quản trị mới với mật khẩu đã băm.
func (s *UserService) CreateUser(ctx context.Context, input *authdto.UserCreateInput) (authmodels.User, error) {
	var zero authmodels.User

	salt, err := utility.GenerateSecureToken(16)
	if err != nil {
		return zero, common.NewError(common.ErrCodeInternalServer, "Không thể sinh salt", common.StatusInternalServerError, err)
	}

	role := input.Role
	if role == "" {
		role = authmodels.RoleStaff
	}

	user := authmodels.User{
		Name:     input.Name,
		Email:    input.Email,
		Salt:     salt,
		Password: hashPassword(input.Password, salt),
		Role:     role,
	}

	return s.InsertOne(ctx, user)
}

// EnsureSystemAdmin seed tài khoản quản trị hệ thống nếu chưa có admin nào.
// Trả về (user, true) khi tạo mới, (user, false) khi admin đã tồn tại.
func (s *UserService) EnsureSystemAdmin(ctx context.Context, name, email, password string) (authmodels.User, bool, error) {
	var zero authmodels.User

	existing, err := s.FindOne(ctx, bson.M{"role": authmodels.RoleAdmin}, nil)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return zero, false, err
	}

	salt, err := utility.GenerateSecureToken(16)
	if err != nil {
		return zero, false, common.NewError(common.ErrCodeInternalServer, "Không thể sinh salt", common.StatusInternalServerError, err)
	}

	admin := authmodels.User{
		Name:     name,
		Email:    email,
		Salt:     salt,
		Password: hashPassword(password, salt),
		Role:     authmodels.RoleAdmin,
		IsSystem: true,
	}

	created, err := s.InsertOne(basesvc.WithSystemDataInsertAllowed(ctx), admin)
	if err != nil {
		return zero, false, err
	}
	return created, true, nil
}

// Login xác thực email/mật khẩu, sinh JWT token mới và lưu vào user.
func (s *UserService) Login(ctx context.Context, input *authdto.UserLoginInput) (*authmodels.User, error) {
	user, err := s.FindOne(ctx, bson.M{"email": input.Email}, nil)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}

	if user.Password != hashPassword(input.Password, user.Salt) {
		return nil, common.ErrInvalidCredentials
	}

	if user.IsBlock {
		return nil, common.NewError(
			common.ErrCodeAuthCredentials,
			"Tài khoản đã bị khóa: "+user.BlockNote,
			common.StatusForbidden,
			nil,
		)
	}

	token, err := generateJwtToken(user.ID)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không thể tạo token", common.StatusInternalServerError, err)
	}

	updated, err := s.UpdateById(ctx, user.ID, &basesvc.UpdateData{
		Set: map[string]interface{}{"token": token},
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// Logout xóa token hiện tại của người dùng.
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.UpdateById(ctx, userID, &basesvc.UpdateData{
		Unset: map[string]interface{}{"token": ""},
	})
	return err
}

// ChangePassword đổi mật khẩu (yêu cầu mật khẩu cũ), vô hiệu hóa token hiện tại.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, input *authdto.UserChangePasswordInput) error {
	user, err := s.FindOneById(ctx, userID)
	if err != nil {
		return err
	}

	if user.Password != hashPassword(input.OldPassword, user.Salt) {
		return common.NewError(common.ErrCodeAuthCredentials, "Mật khẩu cũ không đúng", common.StatusUnauthorized, nil)
	}

	salt, err := utility.GenerateSecureToken(16)
	if err != nil {
		return common.NewError(common.ErrCodeInternalServer, "Không thể sinh salt", common.StatusInternalServerError, err)
	}

	_, err = s.UpdateById(ctx, userID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"salt":     salt,
			"password": hashPassword(input.NewPassword, salt),
		},
		Unset: map[string]interface{}{"token": ""},
	})
	return err
}

// SetBlockByEmail khóa hoặc mở khóa người dùng theo email.
func (s *UserService) SetBlockByEmail(ctx context.Context, email string, isBlock bool, note string) (authmodels.User, error) {
	var zero authmodels.User

	user, err := s.FindOne(ctx, bson.M{"email": email}, nil)
	if err != nil {
		return zero, err
	}

	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"isBlock":   isBlock,
			"blockNote": note,
		},
	}
	if isBlock {
		// Vô hiệu hóa phiên đăng nhập hiện tại khi khóa
		update.Unset = map[string]interface{}{"token": ""}
	}

	return s.UpdateById(ctx, user.ID, update)
}

// FindByToken tìm user theo JWT token hiện tại (dùng cho middleware xác thực).
func (s *UserService) FindByToken(ctx context.Context, token string) (authmodels.User, error) {
	return s.FindOne(ctx, bson.M{"token": token}, nil)
}
