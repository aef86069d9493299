package catalogdto

// ProductCreateInput dữ liệu đầu vào khi tạo sản phẩm.
// Slug do service tự cấp phát từ tên; giá tính bằng cent.
type ProductCreateInput struct {
	Name        string   `json:"name" validate:"required,no_xss,maxLength=300"`
	SKU         string   `json:"sku,omitempty" validate:"omitempty,maxLength=100"`
	Description string   `json:"description,omitempty" validate:"omitempty,maxLength=5000"`
	CategoryID  string   `json:"categoryId" validate:"required" transform:"str_objectid"`
	BrandID     string   `json:"brandId,omitempty" transform:"str_objectid_ptr,optional"`
	Price       int64    `json:"price" validate:"required,min=0"`
	SalePrice   *int64   `json:"salePrice,omitempty" validate:"omitempty,min=0"`
	Stock       int64    `json:"stock,omitempty" validate:"omitempty,min=0"`
	Unit        string   `json:"unit,omitempty" validate:"omitempty,maxLength=50"`
	Images      []string `json:"images,omitempty" validate:"omitempty,dive,url"`
	Status      string   `json:"status,omitempty" validate:"omitempty,oneof=active inactive archived" transform:"string,default=active"`
}

// ProductUpdateInput dữ liệu đầu vào khi cập nhật sản phẩm.
// Không có name: đổi tên phải đi qua endpoint rename để slug được cấp phát lại.
type ProductUpdateInput struct {
	SKU         string   `json:"sku,omitempty" validate:"omitempty,maxLength=100"`
	Description string   `json:"description,omitempty" validate:"omitempty,maxLength=5000"`
	CategoryID  string   `json:"categoryId,omitempty" transform:"str_objectid,optional"`
	BrandID     string   `json:"brandId,omitempty" transform:"str_objectid_ptr,optional"`
	Price       *int64   `json:"price,omitempty" validate:"omitempty,min=0"`
	SalePrice   *int64   `json:"salePrice,omitempty" validate:"omitempty,min=0"`
	Stock       *int64   `json:"stock,omitempty" validate:"omitempty,min=0"`
	Unit        string   `json:"unit,omitempty" validate:"omitempty,maxLength=50"`
	Images      []string `json:"images,omitempty" validate:"omitempty,dive,url"`
	Status      string   `json:"status,omitempty" validate:"omitempty,oneof=active inactive archived"`
}

// ProductSlugParams params từ URL chứa slug sản phẩm
type ProductSlugParams struct {
	Slug string `uri:"slug" validate:"required"`
}
