// Package common - Test danh mục mã lỗi xác thực.
package common

import "testing"

// Các mã lỗi xác thực mà middleware và error handler của fiber dựa vào
// phải có mặt trong danh mục với mã phân cấp duy nhất.
func TestMaLoiXacThuc_DayDuVaDuyNhat(t *testing.T) {
	codes := []ErrorCode{ErrCodeAuth, ErrCodeAuthToken, ErrCodeAuthCredentials, ErrCodeAuthRole}
	seen := map[string]bool{}
	for _, ec := range codes {
		if ec.Code == "" {
			t.Errorf("mã lỗi %+v không được rỗng", ec)
		}
		if ec.Category != "Authentication" {
			t.Errorf("mã %s phải thuộc nhóm Authentication, nhận %q", ec.Code, ec.Category)
		}
		if seen[ec.Code] {
			t.Errorf("mã %s bị trùng trong danh mục", ec.Code)
		}
		seen[ec.Code] = true
	}
	if ErrCodeAuthRole.Code != "AUTH_003" {
		t.Errorf("mã thiếu quyền = %q, muốn AUTH_003", ErrCodeAuthRole.Code)
	}
}
