// Package catalogsvc - Test filter điều chỉnh tồn kho (không cần DB).
package catalogsvc

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trừ kho phải khớp bản ghi theo điều kiện đủ tồn ngay trong filter: hai lần
// trừ đồng thời với tồn chỉ đủ một lần thì lần thứ hai không khớp bản ghi nào.
func TestStockAdjustFilter_TruKho(t *testing.T) {
	id := primitive.NewObjectID()
	filter := stockAdjustFilter(id, -3)

	if filter["_id"] != id {
		t.Errorf("filter phải khớp đúng sản phẩm theo _id")
	}
	cond, ok := filter["stock"].(bson.M)
	if !ok {
		t.Fatalf("trừ kho phải kèm điều kiện tồn, filter = %v", filter)
	}
	if cond["$gte"] != int64(3) {
		t.Errorf("điều kiện tồn = %v, muốn $gte 3", cond)
	}
}

func TestStockAdjustFilter_CongKho(t *testing.T) {
	id := primitive.NewObjectID()
	filter := stockAdjustFilter(id, 5)

	if _, exists := filter["stock"]; exists {
		t.Errorf("cộng kho không được ràng buộc tồn hiện tại, filter = %v", filter)
	}
	if filter["_id"] != id {
		t.Errorf("filter phải khớp đúng sản phẩm theo _id")
	}
}
