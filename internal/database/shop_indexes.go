// Package database - Index bổ sung cho shop (compound nhiều field) không thể định nghĩa qua model tags.
package database

import (
	"context"
	"strings"

	"epicerie_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateShopAdditionalIndexes tạo các index bổ sung cho shop (compound phức tạp).
// Gọi sau CreateIndexes cho từng collection.
func CreateShopAdditionalIndexes(ctx context.Context, db *mongo.Database) error {
	// products: (categoryId, createdAt desc) — danh sách sản phẩm theo danh mục
	products := db.Collection(global.MongoDB_ColNames.Products)
	if _, err := products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "categoryId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("product_category_created"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// products: (brandId, status) — lọc sản phẩm theo thương hiệu đang hoạt động
	if _, err := products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "brandId", Value: 1},
			{Key: "status", Value: 1},
		},
		Options: options.Index().SetName("product_brand_status").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// orders: (status, createdAt desc) — danh sách đơn hàng admin theo trạng thái
	orders := db.Collection(global.MongoDB_ColNames.Orders)
	if _, err := orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("order_status_created"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// orders: (customer.email, createdAt desc) — tra cứu đơn hàng của khách
	if _, err := orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "customer.email", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("order_customer_email").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// categories: (parentId, sortOrder) — duyệt con trực tiếp theo thứ tự
	categories := db.Collection(global.MongoDB_ColNames.Categories)
	if _, err := categories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "parentId", Value: 1},
			{Key: "sortOrder", Value: 1},
		},
		Options: options.Index().SetName("category_parent_sort"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
