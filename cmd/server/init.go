package main

import (
	"context"

	"epicerie_commerce/config"
	authmodels "epicerie_commerce/internal/api/auth/models"
	catalogmodels "epicerie_commerce/internal/api/catalog/models"
	shopmodels "epicerie_commerce/internal/api/shop/models"
	"epicerie_commerce/internal/database"
	"epicerie_commerce/internal/global"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Users = "auth_users"
	global.MongoDB_ColNames.Categories = "categories"
	global.MongoDB_ColNames.Brands = "brands"
	global.MongoDB_ColNames.Products = "products"
	global.MongoDB_ColNames.Orders = "orders"
	global.MongoDB_ColNames.Counters = "counters"

	logrus.Info("Initialized collection names") // Ghi log thông báo đã khởi tạo tên các collection
}

// Hàm khởi tạo validator (dùng global.InitValidator để đăng ký custom validators: no_xss, ...)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator") // Ghi log thông báo đã khởi tạo validator
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil") // Ghi log lỗi nếu khởi tạo cấu hình thất bại
	}
	logrus.Info("Initialized server config") // Ghi log thông báo đã khởi tạo cấu hình server
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err) // Ghi log lỗi nếu kết nối database thất bại
	}
	logrus.Info("Connected to MongoDB") // Ghi log thông báo đã kết nối database thành công

	// Khởi tạo các db và collections nếu chưa có
	database.EnsureDatabaseAndCollections(global.MongoDB_Session)
	logrus.Info("Ensured database and collections") // Ghi log thông báo đã đảm bảo database và các collection

	// Khởi tạo các index cho các collection (từ index tags trên model)
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Users), authmodels.User{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Categories), catalogmodels.Category{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Brands), catalogmodels.Brand{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Products), catalogmodels.Product{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Orders), shopmodels.Order{})

	// Index compound bổ sung không biểu diễn được qua model tags
	if err := database.CreateShopAdditionalIndexes(context.TODO(), db); err != nil {
		logrus.Errorf("Failed to create additional indexes: %v", err)
	}
}
