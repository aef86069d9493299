// Package models - Test máy trạng thái đơn hàng.
package models

import "testing"

func TestCanTransitionOrderStatus_CacBuocHopLe(t *testing.T) {
	allowed := [][2]string{
		{OrderStatusPending, OrderStatusConfirmed},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusConfirmed, OrderStatusProcessing},
		{OrderStatusConfirmed, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusShipped},
		{OrderStatusProcessing, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusDelivered},
	}
	for _, pair := range allowed {
		if !CanTransitionOrderStatus(pair[0], pair[1]) {
			t.Errorf("chuyển %s -> %s phải được phép", pair[0], pair[1])
		}
	}
}

func TestCanTransitionOrderStatus_CacBuocBiChan(t *testing.T) {
	denied := [][2]string{
		{OrderStatusPending, OrderStatusProcessing}, // không được nhảy cóc
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusShipped, OrderStatusCancelled}, // đã giao vận chuyển thì không hủy
		{OrderStatusDelivered, OrderStatusShipped}, // không đi lùi
		{OrderStatusCancelled, OrderStatusPending}, // trạng thái cuối không thoát ra
		{OrderStatusDelivered, OrderStatusCancelled},
		{OrderStatusConfirmed, OrderStatusConfirmed}, // không tự chuyển vào chính nó
	}
	for _, pair := range denied {
		if CanTransitionOrderStatus(pair[0], pair[1]) {
			t.Errorf("chuyển %s -> %s phải bị chặn", pair[0], pair[1])
		}
	}
}

func TestCanTransitionOrderStatus_TrangThaiLa(t *testing.T) {
	if CanTransitionOrderStatus("unknown", OrderStatusConfirmed) {
		t.Error("trạng thái không tồn tại không được phép chuyển đi đâu")
	}
	if CanTransitionOrderStatus(OrderStatusPending, "unknown") {
		t.Error("không được chuyển sang trạng thái không tồn tại")
	}
}

func TestChargedUnitPrice(t *testing.T) {
	promo := int64(800)
	tooHigh := int64(1200)
	zero := int64(0)
	cases := []struct {
		name string
		item OrderItem
		want int64
	}{
		{"khong khuyen mai", OrderItem{Price: 1000}, 1000},
		{"khuyen mai thap hon", OrderItem{Price: 1000, PromotionalPrice: &promo}, 800},
		{"khuyen mai cao hon bi bo qua", OrderItem{Price: 1000, PromotionalPrice: &tooHigh}, 1000},
		{"khuyen mai bang 0 bi bo qua", OrderItem{Price: 1000, PromotionalPrice: &zero}, 1000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.item.ChargedUnitPrice(); got != tc.want {
				t.Errorf("ChargedUnitPrice() = %d, muốn %d", got, tc.want)
			}
		})
	}
}

func TestIsValidPaymentStatus(t *testing.T) {
	for _, status := range []string{PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusRefunded} {
		if !IsValidPaymentStatus(status) {
			t.Errorf("%q phải là trạng thái thanh toán hợp lệ", status)
		}
	}
	for _, status := range []string{"", "pending", "PAID", "partial"} {
		if IsValidPaymentStatus(status) {
			t.Errorf("%q không được là trạng thái thanh toán hợp lệ", status)
		}
	}
}
