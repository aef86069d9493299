package utility

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// P2Int64 chuyển đổi một giá trị bất kỳ thành int64, trả về 0 nếu không chuyển đổi được
func P2Int64(input interface{}) int64 {
	switch v := input.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// String2ObjectID chuyển đổi chuỗi thành ObjectID
// @params - chuỗi cần chuyển đổi
// @returns - ObjectID
func String2ObjectID(id string) primitive.ObjectID {
	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return objectId
}

