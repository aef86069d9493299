// Package authmodels - model người dùng quản trị (User) thuộc domain auth.
package authmodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các role của người dùng quản trị.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User định nghĩa mô hình người dùng quản trị (đăng nhập backend).
// Token chứa token xác thực mới nhất của người dùng.
type User struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email" index:"unique"`
	Password  string             `json:"-" bson:"password,omitempty"`
	Salt      string             `json:"-" bson:"salt,omitempty"`
	Role      string             `json:"role" bson:"role" default:"staff"`
	Token     string             `json:"token,omitempty" bson:"token,omitempty"`
	IsBlock   bool               `json:"-" bson:"isBlock"`
	BlockNote string             `json:"-" bson:"blockNote,omitempty"`
	IsSystem  bool               `json:"isSystem,omitempty" bson:"isSystem,omitempty"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
