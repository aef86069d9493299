package catalogdto

// CategoryCreateInput dữ liệu đầu vào khi tạo danh mục.
// Slug không nhận từ client mà do service tự cấp phát từ tên.
type CategoryCreateInput struct {
	Name        string `json:"name" validate:"required,no_xss,maxLength=200"`
	Description string `json:"description,omitempty" validate:"omitempty,maxLength=2000"`
	ParentID    string `json:"parentId,omitempty" transform:"str_objectid_ptr,optional"`
	ImageURL    string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	SortOrder   int    `json:"sortOrder,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// CategoryUpdateInput dữ liệu đầu vào khi cập nhật danh mục.
// Không chứa parentId (đổi cha đi qua endpoint set-parent) và không chứa name
// (đổi tên đi qua endpoint rename để slug và path cây con được tính lại).
type CategoryUpdateInput struct {
	Description string `json:"description,omitempty" validate:"omitempty,maxLength=2000"`
	ImageURL    string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	SortOrder   int    `json:"sortOrder,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// CategorySetParentInput dữ liệu đầu vào khi đổi cha của danh mục.
// ParentID rỗng nghĩa là chuyển thành danh mục gốc.
type CategorySetParentInput struct {
	ParentID string `json:"parentId,omitempty" transform:"str_objectid_ptr,optional"`
}

// CategoryIDParams params từ URL chứa ID danh mục
type CategoryIDParams struct {
	ID string `uri:"id" validate:"required" transform:"str_objectid"`
}

// CategorySlugParams params từ URL chứa slug danh mục
type CategorySlugParams struct {
	Slug string `uri:"slug" validate:"required"`
}
