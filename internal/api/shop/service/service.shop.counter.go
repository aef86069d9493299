package shopsvc

import (
	"context"
	"fmt"

	models "epicerie_commerce/internal/api/shop/models"
	"epicerie_commerce/internal/common"
	"epicerie_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CounterService cấp phát số thứ tự nguyên tử trên collection counters.
// Dùng driver trực tiếp vì cần $inc/$max trong một round-trip, không đi qua UpdateData.
type CounterService struct {
	collection *mongo.Collection
}

// NewCounterService tạo mới CounterService
func NewCounterService() (*CounterService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Counters)
	if !exist {
		return nil, fmt.Errorf("failed to get counters collection: %v", common.ErrNotFound)
	}
	return &CounterService{collection: collection}, nil
}

// Next tăng bộ đếm của key lên 1 và trả về giá trị mới.
// Upsert tạo bộ đếm với seq=1 nếu key chưa tồn tại; FindOneAndUpdate với $inc
// là nguyên tử nên hai request đồng thời không bao giờ nhận cùng một số.
func (s *CounterService) Next(ctx context.Context, key string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.Counter
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": key},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return counter.Seq, nil
}

// FastForward đẩy bộ đếm của key lên ít nhất bằng seq ($max, không bao giờ lùi).
// Dùng khi phát hiện bộ đếm tụt lại sau dữ liệu thật (ví dụ counter bị xóa tay
// trong khi đơn hàng của ngày đó vẫn còn).
func (s *CounterService) FastForward(ctx context.Context, key string, seq int64) error {
	opts := options.Update().SetUpsert(true)
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$max": bson.M{"seq": seq}},
		opts,
	)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}
