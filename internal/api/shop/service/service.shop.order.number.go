package shopsvc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// orderNumberPrefix mở đầu mọi mã đơn hàng
const orderNumberPrefix = "ORD"

// maxOrderNumberAttempts giới hạn số lần thử cấp phát mã đơn khi đụng độ
const maxOrderNumberAttempts = 5

// CounterKeyForDate trả về khóa bộ đếm của một ngày: "order-YYYYMMDD"
func CounterKeyForDate(t time.Time) string {
	return "order-" + t.Format("20060102")
}

// FormatOrderNumber ghép mã đơn hàng: ORD-YYYYMMDD-NNNN.
// Phần số đệm đủ 4 chữ số, vượt 9999 thì dài ra tự nhiên.
func FormatOrderNumber(t time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", orderNumberPrefix, t.Format("20060102"), seq)
}

// ParseOrderNumberSeq tách số thứ tự từ mã đơn hàng, trả về false nếu mã sai định dạng
func ParseOrderNumberSeq(orderNumber string) (int64, bool) {
	parts := strings.Split(orderNumber, "-")
	if len(parts) != 3 || parts[0] != orderNumberPrefix {
		return 0, false
	}
	seq, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}

// OrderNumberDatePrefix trả về tiền tố mã đơn của một ngày ("ORD-YYYYMMDD-"),
// dùng để quét mã lớn nhất hiện có khi cần fast-forward bộ đếm.
func OrderNumberDatePrefix(t time.Time) string {
	return fmt.Sprintf("%s-%s-", orderNumberPrefix, t.Format("20060102"))
}
