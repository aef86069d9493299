package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	sender := &EmailSender{currency: "MAD"}

	assert.Equal(t, "123.45 MAD", sender.formatAmount(12345), "Số tiền phải đổi từ cent sang dạng thập phân")
	assert.Equal(t, "0.05 MAD", sender.formatAmount(5), "Cent lẻ phải có số 0 đệm phía trước")
	assert.Equal(t, "10.00 MAD", sender.formatAmount(1000), "Số tiền tròn phải giữ hai chữ số thập phân")
	assert.Equal(t, "0.00 MAD", sender.formatAmount(0), "Số tiền 0 vẫn phải hiển thị đúng định dạng")
}

func TestConfirmLink(t *testing.T) {
	sender := &EmailSender{frontendURL: "https://shop.example.com"}

	link := sender.confirmLink("abc123")
	assert.Equal(t, "https://shop.example.com/order/confirm/abc123", link, "Link xác nhận phải ghép frontend URL với token")
}

func TestEnabled_KhongCoSMTP(t *testing.T) {
	sender := &EmailSender{}
	assert.False(t, sender.Enabled(), "Không cấu hình SMTP host thì sender phải tắt")

	sender.host = "smtp.example.com"
	assert.True(t, sender.Enabled(), "Có SMTP host thì sender phải bật")
}

func TestSendOrderConfirmation_BoQuaKhiTat(t *testing.T) {
	sender := &EmailSender{}
	err := sender.SendOrderConfirmation(nil)
	assert.NoError(t, err, "Sender tắt thì gửi email phải là no-op, không lỗi")
}
