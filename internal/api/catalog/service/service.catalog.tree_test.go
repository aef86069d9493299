// Package catalogsvc - Test dựng rừng danh mục từ danh sách phẳng.
package catalogsvc

import (
	"context"
	"errors"
	"testing"

	authsvc "epicerie_commerce/internal/api/auth/service"
	models "epicerie_commerce/internal/api/catalog/models"
	"epicerie_commerce/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mapLookup giả lập FindOneById trên một tập danh mục trong bộ nhớ
func mapLookup(cats ...models.Category) func(context.Context, primitive.ObjectID) (models.Category, error) {
	byID := make(map[primitive.ObjectID]models.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}
	return func(_ context.Context, id primitive.ObjectID) (models.Category, error) {
		c, ok := byID[id]
		if !ok {
			return models.Category{}, common.ErrNotFound
		}
		return c, nil
	}
}

func newCategory(name string, parentID *primitive.ObjectID, sortOrder int) models.Category {
	return models.Category{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Slug:      Slugify(name),
		ParentID:  parentID,
		SortOrder: sortOrder,
	}
}

func TestAssembleTree_HaiLuotDuyet(t *testing.T) {
	root := newCategory("Épicerie", nil, 0)
	child1 := newCategory("Huiles", &root.ID, 1)
	child2 := newCategory("Condiments", &root.ID, 0)
	grandchild := newCategory("Olive", &child1.ID, 0)

	// Thứ tự đầu vào cố tình đảo: con đứng trước cha
	tree := AssembleTree([]models.Category{grandchild, child1, child2, root})

	if len(tree) != 1 {
		t.Fatalf("số root = %d, muốn 1", len(tree))
	}
	if tree[0].Category.ID != root.ID {
		t.Fatalf("root sai: %s", tree[0].Category.Name)
	}
	if len(tree[0].Children) != 2 {
		t.Fatalf("số con của root = %d, muốn 2", len(tree[0].Children))
	}
	// Con sắp theo sortOrder: Condiments (0) trước Huiles (1)
	if tree[0].Children[0].Category.ID != child2.ID {
		t.Errorf("con đầu tiên = %s, muốn Condiments (sortOrder nhỏ hơn)", tree[0].Children[0].Category.Name)
	}
	huiles := tree[0].Children[1]
	if len(huiles.Children) != 1 || huiles.Children[0].Category.ID != grandchild.ID {
		t.Errorf("Huiles phải chứa đúng một con là Olive")
	}
}

func TestAssembleTree_ChaKhongTonTaiThanhRoot(t *testing.T) {
	ghostParent := primitive.NewObjectID()
	orphan := newCategory("Mồ côi", &ghostParent, 0)
	root := newCategory("Gốc", nil, 0)

	tree := AssembleTree([]models.Category{orphan, root})
	if len(tree) != 2 {
		t.Fatalf("số root = %d, muốn 2 (node có cha không tồn tại phải thành root)", len(tree))
	}
}

func TestAssembleTree_CungSortOrderSapTheoTen(t *testing.T) {
	root := newCategory("Gốc", nil, 0)
	b := newCategory("Bơ", &root.ID, 5)
	a := newCategory("Avocat", &root.ID, 5)

	tree := AssembleTree([]models.Category{root, b, a})
	children := tree[0].Children
	if len(children) != 2 {
		t.Fatalf("số con = %d, muốn 2", len(children))
	}
	if children[0].Category.Name != "Avocat" {
		t.Errorf("cùng sortOrder phải sắp theo tên: con đầu = %s, muốn Avocat", children[0].Category.Name)
	}
}

func TestAssembleTree_Rong(t *testing.T) {
	tree := AssembleTree(nil)
	if len(tree) != 0 {
		t.Errorf("danh sách rỗng phải trả về rừng rỗng, nhận %d root", len(tree))
	}
}

func TestChildPath(t *testing.T) {
	rootA := newCategory("A", nil, 0)
	rootA.Path = ""

	if got := ChildPath(rootA); got != "a" {
		t.Errorf("con trực tiếp của gốc %q phải có path %q, nhận %q", rootA.Slug, "a", got)
	}

	childB := newCategory("B", &rootA.ID, 0)
	childB.Path = ChildPath(rootA)
	if got := ChildPath(childB); got != "a/b" {
		t.Errorf("cháu phải có path nối chuỗi slug tổ tiên %q, nhận %q", "a/b", got)
	}
}

// Rừng active-only: tập ID sau khi duỗi phẳng phải đúng bằng tập danh mục
// đang hiển thị, danh mục ẩn không lọt vào cây.
func TestFilterActive_TapIDKhopDanhMucHienThi(t *testing.T) {
	root := newCategory("Épicerie", nil, 0)
	root.IsActive = true
	shown := newCategory("Huiles", &root.ID, 0)
	shown.IsActive = true
	hidden := newCategory("Archives", &root.ID, 1)
	hidden.IsActive = false
	orphaned := newCategory("Olive", &hidden.ID, 0) // con của danh mục ẩn
	orphaned.IsActive = true

	tree := AssembleTree(FilterActive([]models.Category{root, shown, hidden, orphaned}))

	got := map[primitive.ObjectID]bool{}
	var flatten func(nodes []*models.CategoryTreeNode)
	flatten = func(nodes []*models.CategoryTreeNode) {
		for _, n := range nodes {
			got[n.Category.ID] = true
			flatten(n.Children)
		}
	}
	flatten(tree)

	want := map[primitive.ObjectID]bool{root.ID: true, shown.ID: true, orphaned.ID: true}
	if len(got) != len(want) {
		t.Fatalf("số node = %d, muốn %d", len(got), len(want))
	}
	for id := range want {
		if !got[id] {
			t.Errorf("thiếu danh mục đang hiển thị %s trong cây", id.Hex())
		}
	}
	if got[hidden.ID] {
		t.Errorf("danh mục ẩn không được xuất hiện trong cây")
	}
}

func TestProductCountFilter_ChiDemSanPhamDangBan(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	filter := productCountFilter(ids)

	if filter["status"] != models.ProductStatusActive {
		t.Errorf("productCount chỉ đếm sản phẩm đang bán, filter status = %v", filter["status"])
	}
	cond, ok := filter["categoryId"].(bson.M)
	if !ok {
		t.Fatalf("filter phải giới hạn theo nhóm danh mục, nhận %v", filter)
	}
	if got, ok := cond["$in"].([]primitive.ObjectID); !ok || len(got) != 2 {
		t.Errorf("nhóm danh mục trong filter sai: %v", cond)
	}
}

func TestBreadcrumbWalk_GocDungDauDanhMucDungCuoi(t *testing.T) {
	root := newCategory("Épicerie", nil, 0)
	child := newCategory("Huiles", &root.ID, 0)
	grandchild := newCategory("Olive", &child.ID, 0)
	lookup := mapLookup(root, child, grandchild)

	items, err := breadcrumbWalk(context.Background(), grandchild, lookup)
	if err != nil {
		t.Fatalf("breadcrumbWalk trả về lỗi: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("số mục breadcrumb = %d, muốn 3", len(items))
	}
	if items[0].Slug != root.Slug {
		t.Errorf("mục đầu phải là gốc %q, nhận %q", root.Slug, items[0].Slug)
	}
	if items[len(items)-1].Slug != grandchild.Slug {
		t.Errorf("mục cuối phải là chính danh mục %q, nhận %q", grandchild.Slug, items[len(items)-1].Slug)
	}
}

func TestBreadcrumbWalk_ChuoiChaVongVanDung(t *testing.T) {
	a := newCategory("A", nil, 0)
	b := newCategory("B", &a.ID, 0)
	a.ParentID = &b.ID // dữ liệu hỏng: cha hai chiều
	lookup := mapLookup(a, b)

	items, err := breadcrumbWalk(context.Background(), b, lookup)
	if err != nil {
		t.Fatalf("breadcrumbWalk trả về lỗi: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("chuỗi cha vòng phải dừng sau khi thăm mỗi node một lần, số mục = %d", len(items))
	}
}

// Chuyển gốc B (slug "b") xuống dưới gốc A (slug "a"): B nhận level 1 và
// path "a", cây con của B được lan truyền lại theo.
func TestRecomputeSubtree_LanTruyenSauDoiCha(t *testing.T) {
	a := newCategory("A", nil, 0)
	b := newCategory("B", nil, 0)
	c := newCategory("C", &b.ID, 0)
	c.Level = 1
	c.Path = "b"

	// B vừa được gắn dưới A
	b.ParentID = &a.ID
	b.Level = a.Level + 1
	b.Path = ChildPath(a)
	if b.Level != 1 || b.Path != "a" {
		t.Fatalf("B sau khi đổi cha: level = %d path = %q, muốn 1 và \"a\"", b.Level, b.Path)
	}

	byParent := map[primitive.ObjectID][]models.Category{b.ID: {c}}
	saved := map[primitive.ObjectID]models.Category{}
	childrenOf := func(_ context.Context, parentID primitive.ObjectID) ([]models.Category, error) {
		return byParent[parentID], nil
	}
	save := func(_ context.Context, cat models.Category) error {
		saved[cat.ID] = cat
		return nil
	}

	if err := recomputeSubtree(context.Background(), b, childrenOf, save); err != nil {
		t.Fatalf("recomputeSubtree trả về lỗi: %v", err)
	}

	got, ok := saved[c.ID]
	if !ok {
		t.Fatalf("hậu duệ C phải được ghi lại sau khi đổi cha")
	}
	if got.Level != 2 || got.Path != "a/b" {
		t.Errorf("C sau lan truyền: level = %d path = %q, muốn 2 và %q", got.Level, got.Path, "a/b")
	}
}

func TestActorFromContext(t *testing.T) {
	if actor := actorFromContext(context.Background()); actor != nil {
		t.Errorf("context không đăng nhập phải cho actor nil, nhận %v", actor)
	}

	userID := primitive.NewObjectID()
	ctx := authsvc.SetUserIDToContext(context.Background(), userID)
	actor := actorFromContext(ctx)
	if actor == nil || *actor != userID {
		t.Errorf("actor = %v, muốn %s", actor, userID.Hex())
	}
}

func TestEnsureNotDescendant_ChanChuyenXuongConChau(t *testing.T) {
	root := newCategory("A", nil, 0)
	child := newCategory("B", &root.ID, 0)
	grandchild := newCategory("C", &child.ID, 0)
	lookup := mapLookup(root, child, grandchild)

	// Chuyển A xuống dưới C (cháu của A) phải bị chặn
	if err := ensureNotDescendant(context.Background(), root.ID, grandchild, lookup); !errors.Is(err, common.ErrCycleDetected) {
		t.Errorf("đổi cha xuống cháu phải trả ErrCycleDetected, nhận %v", err)
	}

	// Chuyển C lên dưới A là hợp lệ
	if err := ensureNotDescendant(context.Background(), grandchild.ID, root, lookup); err != nil {
		t.Errorf("đổi cha lên tổ tiên phải hợp lệ, nhận %v", err)
	}
}

func TestEnsureNotDescendant_DuLieuHongHaiChieu(t *testing.T) {
	a := newCategory("A", nil, 0)
	b := newCategory("B", &a.ID, 0)
	// Dữ liệu hỏng: A và B trỏ cha lẫn nhau
	a.ParentID = &b.ID
	lookup := mapLookup(a, b)

	other := newCategory("X", nil, 0)
	if err := ensureNotDescendant(context.Background(), other.ID, a, lookup); !errors.Is(err, common.ErrCycleDetected) {
		t.Errorf("chuỗi cha hai chiều phải dừng với ErrCycleDetected, nhận %v", err)
	}
}

func TestEnsureNotDescendant_ChaMatTichDungLai(t *testing.T) {
	missing := primitive.NewObjectID()
	orphan := newCategory("Mồ côi", &missing, 0)
	lookup := mapLookup(orphan)

	if err := ensureNotDescendant(context.Background(), primitive.NewObjectID(), orphan, lookup); err != nil {
		t.Errorf("cha không tồn tại phải coi như hết chuỗi, nhận %v", err)
	}
}

func TestAssembleTree_TuThamChieuKhongLap(t *testing.T) {
	self := newCategory("Tự trỏ", nil, 0)
	self.ParentID = &self.ID

	tree := AssembleTree([]models.Category{self})
	if len(tree) != 1 {
		t.Fatalf("node tự trỏ phải được coi là root, số root = %d", len(tree))
	}
	if len(tree[0].Children) != 0 {
		t.Errorf("node tự trỏ không được là con của chính nó")
	}
}
