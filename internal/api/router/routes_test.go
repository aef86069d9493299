// Package router - Test cấu hình CRUD dùng chung giữa các domain.
package router

import "testing"

// Collection có slug do service cấp phát không được mở đường insert/upsert
// generic: tạo bản ghi phải đi qua endpoint nghiệp vụ riêng.
func TestManagedWriteConfig_KhongMoDuongTaoGeneric(t *testing.T) {
	cfg := ManagedWriteConfig
	if cfg.InsOne || cfg.InsMany || cfg.Upsert || cfg.UpsMany {
		t.Errorf("ManagedWriteConfig không được mở insert/upsert generic: InsOne=%v InsMany=%v Upsert=%v UpsMany=%v",
			cfg.InsOne, cfg.InsMany, cfg.Upsert, cfg.UpsMany)
	}
	if cfg.UpdOne || cfg.UpdMany || cfg.FindUpd {
		t.Errorf("ManagedWriteConfig chỉ cho update theo id, không mở update theo filter tự do")
	}
	if !cfg.UpdById || !cfg.DelById {
		t.Errorf("ManagedWriteConfig phải giữ update/delete theo id cho admin")
	}
}

func TestReadOnlyConfig_KhongMoDuongGhi(t *testing.T) {
	cfg := ReadOnlyConfig
	if cfg.InsOne || cfg.InsMany || cfg.UpdOne || cfg.UpdMany || cfg.UpdById ||
		cfg.FindUpd || cfg.DelOne || cfg.DelMany || cfg.DelById || cfg.FindDel ||
		cfg.Upsert || cfg.UpsMany {
		t.Errorf("ReadOnlyConfig không được mở bất kỳ operation ghi nào")
	}
}
