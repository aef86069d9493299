package catalogsvc

import (
	"context"
	"fmt"

	basesvc "epicerie_commerce/internal/api/base/service"
	catalogdto "epicerie_commerce/internal/api/catalog/dto"
	models "epicerie_commerce/internal/api/catalog/models"
	"epicerie_commerce/internal/common"
	"epicerie_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BrandService quản lý thương hiệu hàng hóa
type BrandService struct {
	*basesvc.BaseServiceMongoImpl[models.Brand]
}

// NewBrandService tạo mới BrandService
func NewBrandService() (*BrandService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Brands)
	if !exist {
		return nil, fmt.Errorf("failed to get brands collection: %v", common.ErrNotFound)
	}
	return &BrandService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Brand](collection),
	}, nil
}

// CreateBrand tạo thương hiệu mới, cấp phát slug duy nhất từ tên
func (s *BrandService) CreateBrand(ctx context.Context, input *catalogdto.BrandCreateInput) (models.Brand, error) {
	var zero models.Brand

	brand := models.Brand{
		Name:        input.Name,
		Description: input.Description,
		LogoURL:     input.LogoURL,
		IsActive:    true,
	}
	if input.IsActive != nil {
		brand.IsActive = *input.IsActive
	}

	var created models.Brand
	_, err := AllocateSlug(ctx, input.Name, func(ctx context.Context, slug string) error {
		brand.Slug = slug
		var insertErr error
		created, insertErr = s.InsertOne(ctx, brand)
		return insertErr
	})
	if err != nil {
		return zero, err
	}
	return created, nil
}

// FindBySlug tìm thương hiệu theo slug
func (s *BrandService) FindBySlug(ctx context.Context, slug string) (models.Brand, error) {
	return s.FindOne(ctx, bson.M{"slug": slug}, nil)
}

// Rename đổi tên thương hiệu và chạy lại vòng cấp phát slug theo tên mới
func (s *BrandService) Rename(ctx context.Context, id primitive.ObjectID, name string) (models.Brand, error) {
	var zero models.Brand

	if _, err := s.FindOneById(ctx, id); err != nil {
		return zero, err
	}

	var updated models.Brand
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

// DeleteBrand xóa thương hiệu sau khi kiểm tra không còn sản phẩm trực thuộc
func (s *BrandService) DeleteBrand(ctx context.Context, id primitive.ObjectID) error {
	if err := basesvc.ValidateBeforeDeleteBrand(ctx, id); err != nil {
		return err
	}
	return s.DeleteById(ctx, id)
}
