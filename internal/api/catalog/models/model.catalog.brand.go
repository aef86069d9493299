package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Brand đại diện cho một thương hiệu hàng hóa
type Brand struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của thương hiệu

	Name        string `json:"name" bson:"name" index:"text"`                       // Tên thương hiệu
	Slug        string `json:"slug" bson:"slug" index:"unique"`                     // Slug duy nhất dùng trong URL
	Description string `json:"description,omitempty" bson:"description,omitempty"` // Mô tả thương hiệu
	LogoURL     string `json:"logoUrl,omitempty" bson:"logoUrl,omitempty"`          // Logo thương hiệu
	IsActive    bool   `json:"isActive" bson:"isActive" index:"single:1"`           // Thương hiệu có hiển thị trên storefront không

	_Relationships struct{} `relationship:"collection:products,field:brandId,message:Không thể xóa thương hiệu vì có %d sản phẩm đang thuộc thương hiệu này. Vui lòng gỡ thương hiệu khỏi các sản phẩm trước."`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật
}
