// Package catalogsvc - Test Slugify và AllocateSlug (không cần DB).
package catalogsvc

import (
	"context"
	"errors"
	"testing"

	"epicerie_commerce/internal/common"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"chu thuong va khoang trang", "Fruits Frais", "fruits-frais"},
		{"ky tu dac biet", "Huiles & Condiments!!", "huiles-condiments"},
		{"bo dau tieng Phap", "Épicerie Salée", "epicerie-salee"},
		{"gach ngang thua o dau cuoi", "  --Thé Vert--  ", "the-vert"},
		{"so giu nguyen dau cau bi loai", "100% Jus d'Orange", "100-jus-dorange"},
		{"dau nhay khong thanh gach ngang", "l'huile d'olive", "lhuile-dolive"},
		{"dau cau giua chu bi loai han", "rock&roll", "rockroll"},
		{"chuoi rong", "", ""},
		{"chi ky tu dac biet", "!!!", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Slugify(tc.in)
			if got != tc.want {
				t.Errorf("Slugify(%q) = %q, muốn %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestAllocateSlug_KhongDungDo(t *testing.T) {
	var inserted []string
	slug, err := AllocateSlug(context.Background(), "Fruits Frais", func(ctx context.Context, s string) error {
		inserted = append(inserted, s)
		return nil
	})
	if err != nil {
		t.Fatalf("AllocateSlug trả về lỗi: %v", err)
	}
	if slug != "fruits-frais" {
		t.Errorf("slug = %q, muốn %q", slug, "fruits-frais")
	}
	if len(inserted) != 1 {
		t.Errorf("số lần insert = %d, muốn 1", len(inserted))
	}
}

func TestAllocateSlug_ThemHauToKhiDungDo(t *testing.T) {
	existing := map[string]bool{"fruits-frais": true, "fruits-frais-1": true}
	var tried []string
	slug, err := AllocateSlug(context.Background(), "Fruits Frais", func(ctx context.Context, s string) error {
		tried = append(tried, s)
		if existing[s] {
			return common.ErrMongoDuplicate
		}
		return nil
	})
	if err != nil {
		t.Fatalf("AllocateSlug trả về lỗi: %v", err)
	}
	if slug != "fruits-frais-2" {
		t.Errorf("slug = %q, muốn %q", slug, "fruits-frais-2")
	}
	if len(tried) != 3 {
		t.Errorf("số lần thử = %d, muốn 3 (gốc, -1, -2), đã thử: %v", len(tried), tried)
	}
}

func TestAllocateSlug_HetLuotThu(t *testing.T) {
	var tried int
	_, err := AllocateSlug(context.Background(), "Fruits Frais", func(ctx context.Context, s string) error {
		tried++
		return common.ErrMongoDuplicate
	})
	if !errors.Is(err, common.ErrAllocationExhausted) {
		t.Fatalf("muốn ErrAllocationExhausted, nhận %v", err)
	}
	if tried != maxSlugAttempts {
		t.Errorf("số lần thử = %d, muốn %d", tried, maxSlugAttempts)
	}
}

func TestAllocateSlug_LoiKhacDungNgay(t *testing.T) {
	boom := errors.New("mat ket noi")
	var tried int
	_, err := AllocateSlug(context.Background(), "Fruits Frais", func(ctx context.Context, s string) error {
		tried++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("muốn lỗi gốc được trả về nguyên vẹn, nhận %v", err)
	}
	if tried != 1 {
		t.Errorf("số lần thử = %d, muốn 1 (lỗi không phải duplicate phải dừng ngay)", tried)
	}
}

func TestAllocateSlug_TenRong(t *testing.T) {
	var tried int
	_, err := AllocateSlug(context.Background(), "!!!", func(ctx context.Context, s string) error {
		tried++
		return nil
	})
	if err == nil {
		t.Fatal("tên chuẩn hóa ra chuỗi rỗng phải trả về lỗi validation, không được cấp slug")
	}
	if tried != 0 {
		t.Errorf("số lần ghi = %d, muốn 0 (không được ghi khi tên không hợp lệ)", tried)
	}
}
