package models

// Counter là bộ đếm nguyên tử cấp phát số thứ tự đơn hàng theo ngày.
// _id có dạng "order-YYYYMMDD", seq tăng bằng $inc trong FindOneAndUpdate.
type Counter struct {
	ID  string `json:"id" bson:"_id"`   // Khóa bộ đếm, ví dụ "order-20260831"
	Seq int64  `json:"seq" bson:"seq"` // Giá trị hiện tại, bắt đầu từ 1
}
