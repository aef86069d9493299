package global

import (
	"epicerie_commerce/config"
	"epicerie_commerce/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_Shop_CollectionName chứa tên các collection trong MongoDB
type MongoDB_Shop_CollectionName struct {
	Users      string // Tên collection cho người dùng quản trị
	Categories string // Tên collection cho danh mục sản phẩm
	Brands     string // Tên collection cho thương hiệu
	Products   string // Tên collection cho sản phẩm
	Orders     string // Tên collection cho đơn hàng
	Counters   string // Tên collection cho bộ đếm cấp phát mã đơn hàng
}

// Các biến toàn cục
var Validate *validator.Validate                                                     // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                                    // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration                                       // Cấu hình của server
var MongoDB_ColNames MongoDB_Shop_CollectionName = *new(MongoDB_Shop_CollectionName) // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
