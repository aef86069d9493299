package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category đại diện cho một danh mục sản phẩm trong cây danh mục.
// Cây được lưu dạng adjacency list (parentId) kèm level và path (materialized path)
// được service tính lại mỗi khi đổi cha.
type Category struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của danh mục

	// ===== IDENTITY =====
	Name        string `json:"name" bson:"name" index:"text"`                       // Tên hiển thị của danh mục
	Slug        string `json:"slug" bson:"slug" index:"unique"`                     // Slug duy nhất dùng trong URL
	Description string `json:"description,omitempty" bson:"description,omitempty"` // Mô tả danh mục

	// ===== HIERARCHY =====
	ParentID *primitive.ObjectID `json:"parentId,omitempty" bson:"parentId,omitempty" index:"single:1"` // ID của danh mục cha (null nếu là gốc)
	Level    int                 `json:"level" bson:"level" index:"single:1"`                           // Độ sâu trong cây (gốc = 0)
	Path     string              `json:"path" bson:"path"`                                              // Materialized path: chuỗi slug tổ tiên nối bằng "/", rỗng với gốc

	// ===== DISPLAY =====
	ImageURL  string `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"` // Ảnh đại diện danh mục
	SortOrder int    `json:"sortOrder" bson:"sortOrder"`                   // Thứ tự hiển thị giữa các danh mục cùng cha
	IsActive  bool   `json:"isActive" bson:"isActive" index:"single:1"`    // Danh mục có hiển thị trên storefront không

	// ===== DENORMALIZED =====
	ProductCount int64 `json:"productCount" bson:"productCount"` // Số sản phẩm thuộc danh mục (gồm cả cây con), service tự cập nhật

	_Relationships struct{} `relationship:"collection:categories,field:parentId,message:Không thể xóa danh mục vì có %d danh mục con trực thuộc. Vui lòng xóa hoặc di chuyển các danh mục con trước.|collection:products,field:categoryId,message:Không thể xóa danh mục vì có %d sản phẩm đang thuộc danh mục này. Vui lòng di chuyển các sản phẩm sang danh mục khác trước."`

	// ===== AUDIT =====
	CreatedBy *primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"` // User tạo danh mục (nil khi tạo từ seed/script)
	UpdatedBy *primitive.ObjectID `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"` // User sửa danh mục lần cuối

	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật
}
