package shopdto

// OrderItemInput một dòng hàng trong giỏ khi đặt đơn
type OrderItemInput struct {
	ProductID string `json:"productId" validate:"required" transform:"str_objectid"`
	Quantity  int64  `json:"quantity" validate:"required,min=1,max=1000"`
}

// OrderCreateInput dữ liệu đầu vào khi khách đặt đơn từ storefront
type OrderCreateInput struct {
	CustomerName    string           `json:"customerName" validate:"required,no_xss,maxLength=200"`
	CustomerEmail   string           `json:"customerEmail" validate:"required,email"`
	CustomerPhone   string           `json:"customerPhone,omitempty" validate:"omitempty,maxLength=30"`
	CustomerAddress string           `json:"customerAddress" validate:"required,no_xss,maxLength=500"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1,max=100,dive"`
}

// OrderUpdateStatusInput dữ liệu đầu vào khi admin chuyển trạng thái đơn
type OrderUpdateStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled"`
	Note   string `json:"note,omitempty" validate:"omitempty,maxLength=1000"`
}

// OrderUpdatePaymentStatusInput dữ liệu đầu vào khi admin cập nhật trạng thái thanh toán
type OrderUpdatePaymentStatusInput struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=unpaid paid refunded"`
}

// OrderConfirmParams params từ URL khi khách xác nhận đơn qua link trong email
type OrderConfirmParams struct {
	Token string `uri:"token" validate:"required,len=64,hexadecimal"`
}
