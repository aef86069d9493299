package catalogsvc

import (
	"context"

	"epicerie_commerce/internal/api/events"
	"epicerie_commerce/internal/global"
	"epicerie_commerce/internal/logger"

	"github.com/sirupsen/logrus"
)

// RegisterDataChangeHandlers đăng ký hook cập nhật productCount của danh mục
// mỗi khi collection products thay đổi. Gọi một lần khi khởi động server,
// sau khi registry collection đã sẵn sàng.
func RegisterDataChangeHandlers() {
	events.OnDataChanged(func(ctx context.Context, e events.DataChangeEvent) {
		if e.CollectionName != global.MongoDB_ColNames.Products {
			return
		}

		categoryID := events.GetObjectIDField(e.Document, "CategoryID")
		if categoryID.IsZero() {
			return
		}

		categoryService, err := NewCategoryService()
		if err != nil {
			logger.GetAppLogger().WithError(err).Warn("Không thể tạo category service trong product hook")
			return
		}
		if err := categoryService.RefreshProductCount(context.Background(), categoryID); err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"categoryId": categoryID.Hex(),
				"operation":  e.Operation,
			}).WithError(err).Warn("Cập nhật productCount thất bại")
		}
	})
}
