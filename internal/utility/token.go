package utility

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken sinh một token ngẫu nhiên an toàn (hex) với độ dài byte cho trước.
// Dùng cho token xác nhận đơn hàng gửi qua email.
// @params - số byte ngẫu nhiên (ví dụ 32 byte -> chuỗi hex 64 ký tự)
// @returns - chuỗi hex và lỗi nếu có
func GenerateSecureToken(numBytes int) (string, error) {
	if numBytes <= 0 {
		numBytes = 32
	}
	buf := make([]byte, numBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("không thể sinh token ngẫu nhiên: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
