package catalogsvc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	authsvc "epicerie_commerce/internal/api/auth/service"
	catalogdto "epicerie_commerce/internal/api/catalog/dto"
	models "epicerie_commerce/internal/api/catalog/models"
	basesvc "epicerie_commerce/internal/api/base/service"
	"epicerie_commerce/internal/common"
	"epicerie_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryService quản lý cây danh mục sản phẩm.
// Mọi thao tác thay đổi cấu trúc cây (tạo, đổi cha, xóa) đi qua treeMu
// để level và path luôn nhất quán với parentId.
type CategoryService struct {
	*basesvc.BaseServiceMongoImpl[models.Category]
	productService *basesvc.BaseServiceMongoImpl[models.Product]
	treeMu         sync.Mutex
}

// NewCategoryService tạo mới CategoryService
func NewCategoryService() (*CategoryService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Categories)
	if !exist {
		return nil, fmt.Errorf("failed to get categories collection: %v", common.ErrNotFound)
	}
	productCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Products)
	if !exist {
		return nil, fmt.Errorf("failed to get products collection: %v", common.ErrNotFound)
	}
	return &CategoryService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Category](collection),
		productService:       basesvc.NewBaseServiceMongo[models.Product](productCollection),
	}, nil
}

// actorFromContext trả về ID user đang thao tác (nil khi request không đăng nhập
// hoặc chạy từ seed/script) để ghi vào createdBy/updatedBy
func actorFromContext(ctx context.Context) *primitive.ObjectID {
	userID := authsvc.GetUserIDFromContext(ctx)
	if userID.IsZero() {
		return nil
	}
	return &userID
}

// ChildPath tính path cho danh mục con trực tiếp của parent: chuỗi slug tổ tiên
// nối bằng "/". Danh mục gốc có path rỗng, con của gốc "a" có path "a",
// cháu có path "a/b".
func ChildPath(parent models.Category) string {
	if parent.Path == "" {
		return parent.Slug
	}
	return parent.Path + "/" + parent.Slug
}

// CreateCategory tạo danh mục mới: cấp phát slug từ tên, tính level và path từ cha.
// ParentID rỗng tạo danh mục gốc (level 0, path rỗng).
func (s *CategoryService) CreateCategory(ctx context.Context, input *catalogdto.CategoryCreateInput) (models.Category, error) {
	s.treeMu.Lock()
	defer s.treeMu.Unlock()

	var zero models.Category

	actor := actorFromContext(ctx)
	cat := models.Category{
		ID:          primitive.NewObjectID(),
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		SortOrder:   input.SortOrder,
		IsActive:    true,
		CreatedBy:   actor,
		UpdatedBy:   actor,
	}
	if input.IsActive != nil {
		cat.IsActive = *input.IsActive
	}

	if input.ParentID != "" {
		parentID, err := primitive.ObjectIDFromHex(input.ParentID)
		if err != nil {
			return zero, common.NewError(common.ErrCodeValidationFormat, "parentId không hợp lệ", common.StatusBadRequest, err)
		}
		parent, err := s.FindOneById(ctx, parentID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return zero, common.NewError(common.ErrCodeValidationInput, "Danh mục cha không tồn tại", common.StatusBadRequest, err)
			}
			return zero, err
		}
		cat.ParentID = &parent.ID
		cat.Level = parent.Level + 1
		cat.Path = ChildPath(parent)
	} else {
		cat.Level = 0
		cat.Path = ""
	}

	var created models.Category
	_, err := AllocateSlug(ctx, input.Name, func(ctx context.Context, slug string) error {
		cat.Slug = slug
		var insertErr error
		created, insertErr = s.InsertOne(ctx, cat)
		return insertErr
	})
	if err != nil {
		return zero, err
	}
	return created, nil
}

// Rename đổi tên danh mục và cấp phát lại slug từ tên mới. Path của các hậu duệ
// chứa slug này nên phải tính lại cho toàn bộ cây con sau khi đổi.
func (s *CategoryService) Rename(ctx context.Context, id primitive.ObjectID, name string) (models.Category, error) {
	s.treeMu.Lock()
	defer s.treeMu.Unlock()

	var zero models.Category

	if _, err := s.FindOneById(ctx, id); err != nil {
		return zero, err
	}

	var updated models.Category
	// Cập nhật trên chính bản ghi nên slug cũ của nó không tính là đụng độ
	_, err := AllocateSlug(ctx, name, func(ctx context.Context, slug string) error {
		set := map[string]interface{}{"name": name, "slug": slug}
		if actor := actorFromContext(ctx); actor != nil {
			set["updatedBy"] = *actor
		}
		var updateErr error
		updated, updateErr = s.UpdateById(ctx, id, &basesvc.UpdateData{Set: set})
		return updateErr
	})
	if err != nil {
		return zero, err
	}

	if err := s.recomputeSubtree(ctx, updated); err != nil {
		return zero, err
	}
	return updated, nil
}

// SetParent đổi cha của danh mục và tính lại level/path cho toàn bộ cây con.
// newParentID nil chuyển danh mục thành gốc. Trả về common.ErrCycleDetected nếu
// cha mới là chính nó hoặc là hậu duệ của nó.
func (s *CategoryService) SetParent(ctx context.Context, id primitive.ObjectID, newParentID *primitive.ObjectID) (models.Category, error) {
	s.treeMu.Lock()
	defer s.treeMu.Unlock()

	var zero models.Category

	if _, err := s.FindOneById(ctx, id); err != nil {
		return zero, err
	}

	var parent *models.Category
	if newParentID != nil {
		if *newParentID == id {
			return zero, common.ErrCycleDetected
		}
		p, err := s.FindOneById(ctx, *newParentID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return zero, common.NewError(common.ErrCodeValidationInput, "Danh mục cha không tồn tại", common.StatusBadRequest, err)
			}
			return zero, err
		}
		// Cha mới không được nằm trong cây con của danh mục đang chuyển
		if err := ensureNotDescendant(ctx, id, p, s.FindOneById); err != nil {
			return zero, err
		}
		parent = &p
	}

	update := &basesvc.UpdateData{Set: map[string]interface{}{}}
	if actor := actorFromContext(ctx); actor != nil {
		update.Set["updatedBy"] = *actor
	}
	if parent != nil {
		update.Set["parentId"] = parent.ID
		update.Set["level"] = parent.Level + 1
		update.Set["path"] = ChildPath(*parent)
	} else {
		update.Unset = map[string]interface{}{"parentId": ""}
		update.Set["level"] = 0
		update.Set["path"] = ""
	}

	updated, err := s.UpdateById(ctx, id, update)
	if err != nil {
		return zero, err
	}

	if err := s.recomputeSubtree(ctx, updated); err != nil {
		return zero, err
	}
	return updated, nil
}

// ensureNotDescendant kiểm tra candidate không phải hậu duệ của rootID bằng cách
// đi ngược chuỗi cha của candidate qua hàm lookup. Visited set chặn vòng lặp
// vô hạn nếu dữ liệu đã hỏng sẵn.
func ensureNotDescendant(ctx context.Context, rootID primitive.ObjectID, candidate models.Category, lookup func(context.Context, primitive.ObjectID) (models.Category, error)) error {
	visited := map[primitive.ObjectID]bool{candidate.ID: true}
	current := candidate
	for current.ParentID != nil {
		parentID := *current.ParentID
		if parentID == rootID {
			return common.ErrCycleDetected
		}
		if visited[parentID] {
			return common.ErrCycleDetected
		}
		visited[parentID] = true
		parent, err := lookup(ctx, parentID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil
			}
			return err
		}
		current = parent
	}
	return nil
}

// recomputeSubtree tính lại level và path cho toàn bộ hậu duệ của root qua
// closure truy vấn/ghi của service
func (s *CategoryService) recomputeSubtree(ctx context.Context, root models.Category) error {
	childrenOf := func(ctx context.Context, parentID primitive.ObjectID) ([]models.Category, error) {
		return s.Find(ctx, bson.M{"parentId": parentID}, nil)
	}
	save := func(ctx context.Context, child models.Category) error {
		_, err := s.UpdateById(ctx, child.ID, &basesvc.UpdateData{Set: map[string]interface{}{
			"level": child.Level,
			"path":  child.Path,
		}})
		return err
	}
	return recomputeSubtree(ctx, root, childrenOf, save)
}

// recomputeSubtree lan truyền level và path từ root xuống toàn bộ hậu duệ
// (BFS theo parentId, không đệ quy). Visited set chặn lặp khi dữ liệu hỏng.
func recomputeSubtree(ctx context.Context, root models.Category,
	childrenOf func(context.Context, primitive.ObjectID) ([]models.Category, error),
	save func(context.Context, models.Category) error) error {
	visited := map[primitive.ObjectID]bool{root.ID: true}
	queue := []models.Category{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := childrenOf(ctx, current.ID)
		if err != nil {
			return err
		}
		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			child.Level = current.Level + 1
			child.Path = ChildPath(current)
			if err := save(ctx, child); err != nil {
				return err
			}
			queue = append(queue, child)
		}
	}
	return nil
}

// Descendants trả về tất cả hậu duệ của một danh mục (BFS theo parentId, không đệ quy).
// Visited set chặn lặp vô hạn khi dữ liệu hỏng.
func (s *CategoryService) Descendants(ctx context.Context, id primitive.ObjectID) ([]models.Category, error) {
	var result []models.Category
	visited := map[primitive.ObjectID]bool{id: true}
	queue := []primitive.ObjectID{id}
	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		children, err := s.Find(ctx, bson.M{"parentId": currentID}, nil)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			result = append(result, child)
			queue = append(queue, child.ID)
		}
	}
	return result, nil
}

// Breadcrumb trả về đường dẫn từ gốc xuống danh mục (gốc đứng đầu, danh mục đứng cuối)
func (s *CategoryService) Breadcrumb(ctx context.Context, id primitive.ObjectID) ([]models.BreadcrumbItem, error) {
	cat, err := s.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}
	return breadcrumbWalk(ctx, cat, s.FindOneById)
}

// breadcrumbWalk đi ngược chuỗi cha từ danh mục lên gốc qua hàm lookup.
// Visited set chặn vòng lặp; cha mất tích thì dừng thay vì lỗi.
func breadcrumbWalk(ctx context.Context, cat models.Category, lookup func(context.Context, primitive.ObjectID) (models.Category, error)) ([]models.BreadcrumbItem, error) {
	items := []models.BreadcrumbItem{{ID: cat.ID.Hex(), Name: cat.Name, Slug: cat.Slug}}
	visited := map[primitive.ObjectID]bool{cat.ID: true}
	current := cat
	for current.ParentID != nil {
		parentID := *current.ParentID
		if visited[parentID] {
			break
		}
		visited[parentID] = true
		parent, err := lookup(ctx, parentID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				break
			}
			return nil, err
		}
		items = append([]models.BreadcrumbItem{{ID: parent.ID.Hex(), Name: parent.Name, Slug: parent.Slug}}, items...)
		current = parent
	}
	return items, nil
}

// BuildTree dựng rừng danh mục bằng hai lượt duyệt: lượt một index node theo
// ID, lượt hai nối con vào cha. Node có cha không tồn tại được coi là gốc để
// không mất dữ liệu. activeOnly lọc trước các danh mục ẩn (storefront); con
// của danh mục ẩn khi đó trở thành gốc theo chính sách orphan-to-root.
func (s *CategoryService) BuildTree(ctx context.Context, activeOnly bool) ([]*models.CategoryTreeNode, error) {
	categories, err := s.Find(ctx, bson.M{}, nil)
	if err != nil {
		return nil, err
	}
	if activeOnly {
		categories = FilterActive(categories)
	}
	return AssembleTree(categories), nil
}

// FilterActive giữ lại các danh mục đang hiển thị
func FilterActive(categories []models.Category) []models.Category {
	active := make([]models.Category, 0, len(categories))
	for _, cat := range categories {
		if cat.IsActive {
			active = append(active, cat)
		}
	}
	return active
}

// AssembleTree dựng rừng từ danh sách danh mục đã nạp sẵn (tách riêng để test không cần DB)
func AssembleTree(categories []models.Category) []*models.CategoryTreeNode {
	nodes := make(map[primitive.ObjectID]*models.CategoryTreeNode, len(categories))
	for _, cat := range categories {
		nodes[cat.ID] = &models.CategoryTreeNode{Category: cat, Children: []*models.CategoryTreeNode{}}
	}

	var roots []*models.CategoryTreeNode
	for _, cat := range categories {
		node := nodes[cat.ID]
		if cat.ParentID != nil {
			if parent, ok := nodes[*cat.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortTreeNodes(roots)
	for _, node := range nodes {
		sortTreeNodes(node.Children)
	}
	return roots
}

// sortTreeNodes sắp các node cùng cấp theo sortOrder rồi theo tên
func sortTreeNodes(nodes []*models.CategoryTreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Category.SortOrder != nodes[j].Category.SortOrder {
			return nodes[i].Category.SortOrder < nodes[j].Category.SortOrder
		}
		return nodes[i].Category.Name < nodes[j].Category.Name
	})
}

// FindBySlug tìm danh mục theo slug
func (s *CategoryService) FindBySlug(ctx context.Context, slug string) (models.Category, error) {
	return s.FindOne(ctx, bson.M{"slug": slug}, nil)
}

// RefreshProductCount tính lại productCount (gồm cả cây con) cho danh mục
// và toàn bộ chuỗi tổ tiên của nó.
func (s *CategoryService) RefreshProductCount(ctx context.Context, categoryID primitive.ObjectID) error {
	visited := map[primitive.ObjectID]bool{}
	currentID := categoryID
	for !currentID.IsZero() && !visited[currentID] {
		visited[currentID] = true
		cat, err := s.FindOneById(ctx, currentID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil
			}
			return err
		}
		if err := s.refreshOneProductCount(ctx, cat); err != nil {
			return err
		}
		if cat.ParentID == nil {
			return nil
		}
		currentID = *cat.ParentID
	}
	return nil
}

// productCountFilter lọc sản phẩm được tính vào productCount: thuộc nhóm
// danh mục và đang bán (sản phẩm ẩn/lưu trữ không tính).
func productCountFilter(categoryIDs []primitive.ObjectID) bson.M {
	return bson.M{
		"categoryId": bson.M{"$in": categoryIDs},
		"status":     models.ProductStatusActive,
	}
}

// refreshOneProductCount đếm sản phẩm đang bán thuộc danh mục và cây con rồi ghi lại productCount
func (s *CategoryService) refreshOneProductCount(ctx context.Context, cat models.Category) error {
	ids := []primitive.ObjectID{cat.ID}
	descendants, err := s.Descendants(ctx, cat.ID)
	if err != nil {
		return err
	}
	for _, d := range descendants {
		ids = append(ids, d.ID)
	}

	count, err := s.productService.CountDocuments(ctx, productCountFilter(ids))
	if err != nil {
		return err
	}
	_, err = s.UpdateById(ctx, cat.ID, &basesvc.UpdateData{Set: map[string]interface{}{"productCount": count}})
	return err
}

// DeleteCategory xóa danh mục sau khi kiểm tra không còn danh mục con và sản phẩm trực thuộc
func (s *CategoryService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	s.treeMu.Lock()
	defer s.treeMu.Unlock()

	if err := basesvc.ValidateBeforeDeleteCategory(ctx, id); err != nil {
		return err
	}
	cat, err := s.FindOneById(ctx, id)
	if err != nil {
		return err
	}
	if err := s.DeleteById(ctx, id); err != nil {
		return err
	}
	// Tổ tiên mất một nhánh, cập nhật lại số đếm
	if cat.ParentID != nil {
		return s.RefreshProductCount(ctx, *cat.ParentID)
	}
	return nil
}
