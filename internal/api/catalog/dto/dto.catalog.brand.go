package catalogdto

// BrandCreateInput dữ liệu đầu vào khi tạo thương hiệu.
// Slug do service tự cấp phát từ tên.
type BrandCreateInput struct {
	Name        string `json:"name" validate:"required,no_xss,maxLength=200"`
	Description string `json:"description,omitempty" validate:"omitempty,maxLength=2000"`
	LogoURL     string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// BrandUpdateInput dữ liệu đầu vào khi cập nhật thương hiệu.
// Không có name: đổi tên phải đi qua endpoint rename để slug được cấp phát lại.
type BrandUpdateInput struct {
	Description string `json:"description,omitempty" validate:"omitempty,maxLength=2000"`
	LogoURL     string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// RenameInput dữ liệu đầu vào khi đổi tên thương hiệu hoặc sản phẩm
type RenameInput struct {
	Name string `json:"name" validate:"required,no_xss,maxLength=200"`
}
