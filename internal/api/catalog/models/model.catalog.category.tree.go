package models

// CategoryTreeNode là một node trong cây danh mục trả về cho client
type CategoryTreeNode struct {
	Category Category            `json:"category"` // Dữ liệu danh mục
	Children []*CategoryTreeNode `json:"children"` // Các danh mục con trực tiếp, sắp theo sortOrder rồi tên
}

// BreadcrumbItem là một mắt xích trong đường dẫn từ gốc xuống một danh mục
type BreadcrumbItem struct {
	ID   string `json:"id"`   // ID danh mục dạng hex
	Name string `json:"name"` // Tên danh mục
	Slug string `json:"slug"` // Slug danh mục
}
