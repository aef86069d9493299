package catalogsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"epicerie_commerce/internal/common"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxSlugAttempts giới hạn số lần thử cấp phát slug (slug gốc + các hậu tố -1, -2...)
const maxSlugAttempts = 5

// slugNormalizer bỏ dấu (combining marks) khỏi chuỗi Unicode: "Épicerie" -> "Epicerie"
var slugNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify chuyển tên hiển thị thành slug URL: bỏ dấu, thường hóa, loại bỏ
// ký tự không phải chữ/số/khoảng trắng/gạch ngang, rồi gộp khoảng trắng và
// gạch ngang liền nhau thành một gạch. Dấu câu bị loại hẳn chứ không thay
// bằng gạch ngang.
//
//	"Huiles & Condiments!!" -> "huiles-condiments"
//	"l'huile d'olive"       -> "lhuile-dolive"
func Slugify(name string) string {
	normalized, _, err := transform.String(slugNormalizer, name)
	if err != nil {
		normalized = name
	}

	var b strings.Builder
	b.Grow(len(normalized))
	lastHyphen := true // chặn gạch ngang ở đầu chuỗi
	for _, r := range strings.ToLower(normalized) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// AllocateSlug cấp phát slug duy nhất từ tên hiển thị: thử slug gốc trước,
// nếu đụng độ (unique index trả duplicate) thì thử lần lượt các hậu tố -1, -2...
// persist ghi bản ghi với slug ứng viên (insert khi tạo mới, update khi đổi tên)
// và phải trả về common.ErrMongoDuplicate khi slug đã tồn tại; lỗi khác dừng ngay.
// Sau maxSlugAttempts lần đều đụng độ trả về common.ErrAllocationExhausted.
// Tên chuẩn hóa ra chuỗi rỗng là lỗi validation, không bao giờ được cấp "-1".
func AllocateSlug(ctx context.Context, name string, persist func(ctx context.Context, slug string) error) (string, error) {
	base := Slugify(name)
	if base == "" {
		return "", common.NewError(common.ErrCodeValidationInput, "Tên không chứa ký tự hợp lệ để tạo slug", common.StatusBadRequest, nil)
	}

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", base, attempt)
		}
		err := persist(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, common.ErrMongoDuplicate) {
			return "", err
		}
	}
	return "", common.ErrAllocationExhausted
}
