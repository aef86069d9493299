package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái vòng đời đơn hàng
const (
	OrderStatusPending    = "pending"    // Vừa đặt, chờ khách xác nhận qua email
	OrderStatusConfirmed  = "confirmed"  // Khách đã xác nhận
	OrderStatusProcessing = "processing" // Đang soạn hàng
	OrderStatusShipped    = "shipped"    // Đã giao cho đơn vị vận chuyển
	OrderStatusDelivered  = "delivered"  // Khách đã nhận hàng
	OrderStatusCancelled  = "cancelled"  // Đã hủy
)

// Trạng thái thanh toán của đơn, độc lập với vòng đời giao hàng
const (
	PaymentStatusUnpaid   = "unpaid"   // Chưa thu tiền
	PaymentStatusPaid     = "paid"     // Đã thu tiền
	PaymentStatusRefunded = "refunded" // Đã hoàn tiền
)

// IsValidPaymentStatus kiểm tra giá trị trạng thái thanh toán hợp lệ
func IsValidPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// orderStatusTransitions liệt kê các bước chuyển trạng thái hợp lệ.
// delivered và cancelled là trạng thái cuối.
var orderStatusTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// CanTransitionOrderStatus kiểm tra có được phép chuyển đơn hàng từ from sang to không
func CanTransitionOrderStatus(from, to string) bool {
	for _, allowed := range orderStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// OrderCustomer là thông tin người đặt hàng, nhúng trong đơn
type OrderCustomer struct {
	Name    string `json:"name" bson:"name"`                       // Tên khách hàng
	Email   string `json:"email" bson:"email"`                     // Email nhận xác nhận đơn
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty"` // Số điện thoại liên hệ
	Address string `json:"address" bson:"address"`                 // Địa chỉ giao hàng
}

// OrderItem là một dòng hàng trong đơn. Tên, slug và giá được chụp lại
// tại thời điểm đặt để đơn không đổi khi catalog thay đổi về sau.
type OrderItem struct {
	ProductID        primitive.ObjectID `json:"productId" bson:"productId"`                                 // Sản phẩm được đặt
	Name             string             `json:"name" bson:"name"`                                           // Tên sản phẩm lúc đặt
	Slug             string             `json:"slug" bson:"slug"`                                           // Slug sản phẩm lúc đặt
	Price            int64              `json:"price" bson:"price"`                                         // Giá niêm yết lúc đặt, tính bằng cent
	PromotionalPrice *int64             `json:"promotionalPrice,omitempty" bson:"promotionalPrice,omitempty"` // Giá khuyến mãi lúc đặt (nil nếu không giảm)
	Quantity         int64              `json:"quantity" bson:"quantity"`                                   // Số lượng đặt
	TotalPrice       int64              `json:"totalPrice" bson:"totalPrice"`                               // Giá tính cho khách * Quantity
}

// ChargedUnitPrice trả về đơn giá thực tính cho khách tại thời điểm đặt
// (giá khuyến mãi nếu có và thấp hơn giá niêm yết).
func (i *OrderItem) ChargedUnitPrice() int64 {
	if i.PromotionalPrice != nil && *i.PromotionalPrice > 0 && *i.PromotionalPrice < i.Price {
		return *i.PromotionalPrice
	}
	return i.Price
}

// OrderStatusChange là một mục trong lịch sử trạng thái (append-only)
type OrderStatusChange struct {
	From string `json:"from,omitempty" bson:"from,omitempty"` // Trạng thái trước (rỗng với mục khởi tạo)
	To   string `json:"to" bson:"to"`                         // Trạng thái sau
	Note string `json:"note,omitempty" bson:"note,omitempty"` // Ghi chú kèm theo
	At   int64  `json:"at" bson:"at"`                         // Thời điểm chuyển (unix millis)
}

// Order đại diện cho một đơn hàng của storefront
type Order struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của đơn hàng

	// ===== IDENTITY =====
	OrderNumber       string `json:"orderNumber" bson:"orderNumber" index:"unique"` // Mã đơn dạng ORD-YYYYMMDD-NNNN
	ConfirmationToken string `json:"-" bson:"confirmationToken" index:"unique"`     // Token 64 ký tự hex gửi trong email xác nhận

	// ===== CONTENT =====
	Customer OrderCustomer `json:"customer" bson:"customer"` // Thông tin người đặt
	Items    []OrderItem   `json:"items" bson:"items"`       // Các dòng hàng với giá đã chụp
	Total    int64         `json:"total" bson:"total"`       // Tổng tiền, tính bằng cent

	// ===== LIFECYCLE =====
	Status        string              `json:"status" bson:"status" index:"single:1"` // Trạng thái hiện tại
	PaymentStatus string              `json:"paymentStatus" bson:"paymentStatus"`    // Trạng thái thanh toán (unpaid/paid/refunded)
	History       []OrderStatusChange `json:"history" bson:"history"`                // Lịch sử trạng thái, chỉ thêm không sửa

	CreatedAt int64 `json:"createdAt" bson:"createdAt" index:"single:-1"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`                   // Thời gian cập nhật
}
