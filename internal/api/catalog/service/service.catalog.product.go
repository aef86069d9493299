package catalogsvc

import (
	"context"
	"errors"
	"fmt"

	basesvc "epicerie_commerce/internal/api/base/service"
	catalogdto "epicerie_commerce/internal/api/catalog/dto"
	models "epicerie_commerce/internal/api/catalog/models"
	"epicerie_commerce/internal/common"
	"epicerie_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductService quản lý sản phẩm trong catalog
type ProductService struct {
	*basesvc.BaseServiceMongoImpl[models.Product]
	categoryService *basesvc.BaseServiceMongoImpl[models.Category]
	brandService    *basesvc.BaseServiceMongoImpl[models.Brand]
}

// NewProductService tạo mới ProductService
func NewProductService() (*ProductService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Products)
	if !exist {
		return nil, fmt.Errorf("failed to get products collection: %v", common.ErrNotFound)
	}
	categoryCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Categories)
	if !exist {
		return nil, fmt.Errorf("failed to get categories collection: %v", common.ErrNotFound)
	}
	brandCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Brands)
	if !exist {
		return nil, fmt.Errorf("failed to get brands collection: %v", common.ErrNotFound)
	}
	return &ProductService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Product](collection),
		categoryService:      basesvc.NewBaseServiceMongo[models.Category](categoryCollection),
		brandService:         basesvc.NewBaseServiceMongo[models.Brand](brandCollection),
	}, nil
}

// CreateProduct tạo sản phẩm mới: kiểm tra danh mục/thương hiệu tồn tại rồi cấp phát slug từ tên
func (s *ProductService) CreateProduct(ctx context.Context, input *catalogdto.ProductCreateInput) (models.Product, error) {
	var zero models.Product

	categoryID, err := primitive.ObjectIDFromHex(input.CategoryID)
	if err != nil {
		return zero, common.NewError(common.ErrCodeValidationFormat, "categoryId không hợp lệ", common.StatusBadRequest, err)
	}
	if _, err := s.categoryService.FindOneById(ctx, categoryID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return zero, common.NewError(common.ErrCodeValidationInput, "Danh mục không tồn tại", common.StatusBadRequest, err)
		}
		return zero, err
	}

	product := models.Product{
		Name:        input.Name,
		SKU:         input.SKU,
		Description: input.Description,
		CategoryID:  categoryID,
		Price:       input.Price,
		SalePrice:   input.SalePrice,
		Stock:       input.Stock,
		Unit:        input.Unit,
		Images:      input.Images,
		Status:      input.Status,
	}
	if product.Status == "" {
		product.Status = models.ProductStatusActive
	}

	if input.BrandID != "" {
		brandID, err := primitive.ObjectIDFromHex(input.BrandID)
		if err != nil {
			return zero, common.NewError(common.ErrCodeValidationFormat, "brandId không hợp lệ", common.StatusBadRequest, err)
		}
		if _, err := s.brandService.FindOneById(ctx, brandID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return zero, common.NewError(common.ErrCodeValidationInput, "Thương hiệu không tồn tại", common.StatusBadRequest, err)
			}
			return zero, err
		}
		product.BrandID = &brandID
	}

	var created models.Product
	_, err = AllocateSlug(ctx, input.Name, func(ctx context.Context, slug string) error {
		product.Slug = slug
		var insertErr error
		created, insertErr = s.InsertOne(ctx, product)
		return insertErr
	})
	if err != nil {
		return zero, err
	}
	return created, nil
}

// FindBySlug tìm sản phẩm theo slug
func (s *ProductService) FindBySlug(ctx context.Context, slug string) (models.Product, error) {
	return s.FindOne(ctx, bson.M{"slug": slug}, nil)
}

// Rename đổi tên sản phẩm và chạy lại vòng cấp phát slug theo tên mới.
// Cập nhật trên chính bản ghi nên slug cũ của nó không tính là đụng độ.
func (s *ProductService) Rename(ctx context.Context, id primitive.ObjectID, name string) (models.Product, error) {
	var zero models.Product

	if _, err := s.FindOneById(ctx, id); err != nil {
		return zero, err
	}

	var updated models.Product
	_, err := AllocateSlug(ctx, name, func(ctx context.Context, slug string) error {
		var updateErr error
		updated, updateErr = s.UpdateById(ctx, id, &basesvc.UpdateData{Set: map[string]interface{}{
			"name": name,
			"slug": slug,
		}})
		return updateErr
	})
	if err != nil {
		return zero, err
	}
	return updated, nil
}

// FindActiveByCategory trả về sản phẩm đang bán của một nhóm danh mục (dùng cho trang danh mục storefront)
func (s *ProductService) FindActiveByCategory(ctx context.Context, categoryIDs []primitive.ObjectID) ([]models.Product, error) {
	filter := bson.M{
		"categoryId": bson.M{"$in": categoryIDs},
		"status":     models.ProductStatusActive,
	}
	return s.Find(ctx, filter, nil)
}

// stockAdjustFilter lọc bản ghi được phép nhận thay đổi tồn kho: khi trừ kho
// chỉ khớp nếu tồn hiện tại đủ để kết quả không âm, nhờ đó hai lần trừ đồng
// thời không bao giờ cùng đi qua với tồn chỉ đủ cho một lần.
func stockAdjustFilter(id primitive.ObjectID, delta int64) bson.M {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	return filter
}

// AdjustStock cộng/trừ tồn kho của sản phẩm (delta âm khi trừ) bằng một
// FindOneAndUpdate $inc nguyên tử, điều kiện đủ tồn nằm ngay trong filter.
func (s *ProductService) AdjustStock(ctx context.Context, id primitive.ObjectID, delta int64) (models.Product, error) {
	var zero models.Product

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err := s.Collection().FindOneAndUpdate(ctx,
		stockAdjustFilter(id, delta),
		bson.M{"$inc": bson.M{"stock": delta}},
		opts,
	).Decode(&updated)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return zero, common.ConvertMongoError(err)
	}

	// Không khớp filter: phân biệt sản phẩm không tồn tại với tồn kho không đủ
	product, ferr := s.FindOneById(ctx, id)
	if ferr != nil {
		return zero, ferr
	}
	return zero, common.NewError(common.ErrCodeValidationInput,
		fmt.Sprintf("Tồn kho không đủ: còn %d, yêu cầu %d", product.Stock, -delta),
		common.StatusBadRequest, nil)
}
