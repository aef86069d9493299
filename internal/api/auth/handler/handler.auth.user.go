package authhdl

import (
	"fmt"

	authdto "epicerie_commerce/internal/api/auth/dto"
	models "epicerie_commerce/internal/api/auth/models"
	authsvc "epicerie_commerce/internal/api/auth/service"
	basehdl "epicerie_commerce/internal/api/base/handler"
	basesvc "epicerie_commerce/internal/api/base/service"
	"epicerie_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler xử lý các request xác thực và quản lý người dùng
type UserHandler struct {
	*basehdl.BaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput]
	userService *authsvc.UserService
}

// NewUserHandler tạo instance mới của UserHandler
func NewUserHandler() (*UserHandler, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput](userService)
	return &UserHandler{
		BaseHandler: baseHandler,
		userService: userService,
	}, nil
}

// sanitizeUser xóa các trường nhạy cảm trước khi trả về client
func sanitizeUser(user *models.User) {
	user.Password = ""
	user.Salt = ""
	user.Token = ""
}

// currentUserID lấy ObjectID của user đang đăng nhập từ context của request
func (h *UserHandler) currentUserID(c fiber.Ctx) (primitive.ObjectID, error) {
	userID := c.Locals("user_id")
	if userID == nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeAuth, "User not authenticated", common.StatusUnauthorized, nil)
	}
	objID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "Invalid user ID", common.StatusBadRequest, err)
	}
	return objID, nil
}

// HandleLogin xử lý đăng nhập bằng email và mật khẩu, trả về user kèm JWT token
func (h *UserHandler) HandleLogin(c fiber.Ctx) error {
	var input authdto.UserLoginInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	user, err := h.userService.Login(c.Context(), &input)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	token := user.Token
	sanitizeUser(user)
	h.HandleResponse(c, map[string]interface{}{
		"user":  user,
		"token": token,
	}, nil)
	return nil
}

// HandleRegister tạo tài khoản người dùng mới (chỉ admin gọi được qua route)
func (h *UserHandler) HandleRegister(c fiber.Ctx) error {
	var input authdto.UserCreateInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	user, err := h.userService.CreateUser(c.Context(), &input)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	sanitizeUser(&user)
	h.HandleResponse(c, user, nil)
	return nil
}

// HandleLogout xử lý đăng xuất, thu hồi token hiện tại của người dùng
func (h *UserHandler) HandleLogout(c fiber.Ctx) error {
	objID, err := h.currentUserID(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	err = h.userService.Logout(c.Context(), objID)
	h.HandleResponse(c, nil, err)
	return nil
}

// HandleGetProfile lấy thông tin profile của người dùng đang đăng nhập
func (h *UserHandler) HandleGetProfile(c fiber.Ctx) error {
	objID, err := h.currentUserID(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	user, err := h.userService.BaseServiceMongoImpl.FindOneById(c.Context(), objID)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	sanitizeUser(&user)
	h.HandleResponse(c, user, nil)
	return nil
}

// HandleUpdateProfile cập nhật tên hiển thị của người dùng đang đăng nhập
func (h *UserHandler) HandleUpdateProfile(c fiber.Ctx) error {
	objID, err := h.currentUserID(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input authdto.UserUpdateInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	// Chỉ cho phép tự đổi tên, không tự đổi role
	update := &basesvc.UpdateData{Set: map[string]interface{}{"name": input.Name}}
	updatedUser, err := h.userService.BaseServiceMongoImpl.UpdateById(c.Context(), objID, update)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	sanitizeUser(&updatedUser)
	h.HandleResponse(c, updatedUser, nil)
	return nil
}

// HandleChangePassword đổi mật khẩu người dùng, thu hồi token sau khi đổi
func (h *UserHandler) HandleChangePassword(c fiber.Ctx) error {
	objID, err := h.currentUserID(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input authdto.UserChangePasswordInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	err = h.userService.ChangePassword(c.Context(), objID, &input)
	h.HandleResponse(c, nil, err)
	return nil
}

// HandleBlockUser khóa tài khoản theo email (admin)
func (h *UserHandler) HandleBlockUser(c fiber.Ctx) error {
	var input authdto.BlockUserInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	user, err := h.userService.SetBlockByEmail(c.Context(), input.Email, true, input.Note)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	sanitizeUser(&user)
	h.HandleResponse(c, user, nil)
	return nil
}

// HandleUnBlockUser mở khóa tài khoản theo email (admin)
func (h *UserHandler) HandleUnBlockUser(c fiber.Ctx) error {
	var input authdto.UnBlockUserInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	user, err := h.userService.SetBlockByEmail(c.Context(), input.Email, false, "")
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	sanitizeUser(&user)
	h.HandleResponse(c, user, nil)
	return nil
}
