package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái lưu kho của sản phẩm
const (
	ProductStatusActive   = "active"   // Đang bán
	ProductStatusInactive = "inactive" // Tạm ẩn khỏi storefront
	ProductStatusArchived = "archived" // Ngừng kinh doanh
)

// Product đại diện cho một sản phẩm trong catalog.
// Giá lưu bằng đơn vị nhỏ nhất của tiền tệ (cent) để tránh sai số float.
type Product struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của sản phẩm

	// ===== IDENTITY =====
	Name        string `json:"name" bson:"name" index:"text"`                       // Tên sản phẩm
	Slug        string `json:"slug" bson:"slug" index:"unique"`                     // Slug duy nhất dùng trong URL
	SKU         string `json:"sku,omitempty" bson:"sku,omitempty" index:"single:1"` // Mã hàng nội bộ
	Description string `json:"description,omitempty" bson:"description,omitempty"`  // Mô tả sản phẩm

	// ===== CLASSIFICATION =====
	CategoryID primitive.ObjectID  `json:"categoryId" bson:"categoryId" index:"single:1"`                // Danh mục chứa sản phẩm
	BrandID    *primitive.ObjectID `json:"brandId,omitempty" bson:"brandId,omitempty" index:"single:1"` // Thương hiệu (tùy chọn)

	// ===== PRICING & STOCK =====
	Price     int64  `json:"price" bson:"price"`                           // Giá bán, tính bằng cent
	SalePrice *int64 `json:"salePrice,omitempty" bson:"salePrice,omitempty"` // Giá khuyến mãi, tính bằng cent (nil nếu không giảm giá)
	Stock     int64  `json:"stock" bson:"stock"`                           // Số lượng tồn kho
	Unit      string `json:"unit,omitempty" bson:"unit,omitempty"`         // Đơn vị bán (kg, chai, hộp...)

	// ===== DISPLAY =====
	Images []string `json:"images,omitempty" bson:"images,omitempty"` // Danh sách URL ảnh sản phẩm
	Status string   `json:"status" bson:"status" index:"single:1"`    // Trạng thái: active, inactive, archived

	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật
}

// EffectivePrice trả về giá thực bán của sản phẩm (ưu tiên giá khuyến mãi nếu có và thấp hơn giá gốc)
func (p *Product) EffectivePrice() int64 {
	if p.SalePrice != nil && *p.SalePrice > 0 && *p.SalePrice < p.Price {
		return *p.SalePrice
	}
	return p.Price
}
