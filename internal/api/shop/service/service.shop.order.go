package shopsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	basesvc "epicerie_commerce/internal/api/base/service"
	catalogsvc "epicerie_commerce/internal/api/catalog/service"
	shopdto "epicerie_commerce/internal/api/shop/dto"
	models "epicerie_commerce/internal/api/shop/models"
	"epicerie_commerce/internal/common"
	"epicerie_commerce/internal/delivery"
	"epicerie_commerce/internal/global"
	"epicerie_commerce/internal/logger"
	"epicerie_commerce/internal/utility"

	catalogmodels "epicerie_commerce/internal/api/catalog/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderService quản lý vòng đời đơn hàng: đặt đơn, cấp phát mã đơn,
// xác nhận qua token và chuyển trạng thái.
type OrderService struct {
	*basesvc.BaseServiceMongoImpl[models.Order]
	counterService *CounterService
	productService *catalogsvc.ProductService
	emailSender    *delivery.EmailSender
}

// NewOrderService tạo mới OrderService
func NewOrderService() (*OrderService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Orders)
	if !exist {
		return nil, fmt.Errorf("failed to get orders collection: %v", common.ErrNotFound)
	}
	counterService, err := NewCounterService()
	if err != nil {
		return nil, fmt.Errorf("failed to create counter service: %v", err)
	}
	productService, err := catalogsvc.NewProductService()
	if err != nil {
		return nil, fmt.Errorf("failed to create product service: %v", err)
	}
	return &OrderService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Order](collection),
		counterService:       counterService,
		productService:       productService,
		emailSender:          delivery.NewEmailSenderFromConfig(),
	}, nil
}

// CreateOrder đặt đơn từ storefront: chụp giá sản phẩm vào từng dòng hàng,
// trừ tồn kho, cấp phát mã đơn và token xác nhận rồi gửi email cho khách.
func (s *OrderService) CreateOrder(ctx context.Context, input *shopdto.OrderCreateInput) (models.Order, error) {
	var zero models.Order

	items, total, err := s.buildOrderItems(ctx, input.Items)
	if err != nil {
		return zero, err
	}

	// Trừ tồn kho trước khi ghi đơn; lỗi ở dòng nào thì hoàn lại các dòng trước đó
	var reserved []models.OrderItem
	for _, item := range items {
		if _, err := s.productService.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			s.releaseStock(ctx, reserved)
			return zero, err
		}
		reserved = append(reserved, item)
	}

	token, err := utility.GenerateSecureToken(32)
	if err != nil {
		s.releaseStock(ctx, reserved)
		return zero, common.NewError(common.ErrCodeInternalServer, "Không thể tạo token xác nhận", common.StatusInternalServerError, err)
	}

	now := time.Now()
	order := models.Order{
		ConfirmationToken: token,
		Customer: models.OrderCustomer{
			Name:    input.CustomerName,
			Email:   input.CustomerEmail,
			Phone:   input.CustomerPhone,
			Address: input.CustomerAddress,
		},
		Items:         items,
		Total:         total,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
		History: []models.OrderStatusChange{
			{To: models.OrderStatusPending, At: now.UnixMilli()},
		},
	}

	created, err := s.insertWithOrderNumber(ctx, order, now)
	if err != nil {
		s.releaseStock(ctx, reserved)
		return zero, err
	}

	// Email không chặn response; lỗi gửi chỉ ghi log
	go func(o models.Order) {
		if err := s.emailSender.SendOrderConfirmation(&o); err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"orderNumber": o.OrderNumber,
				"email":       o.Customer.Email,
			}).WithError(err).Warn("Gửi email xác nhận đơn thất bại")
		}
	}(created)

	return created, nil
}

// buildOrderItems chụp tên, slug và đơn giá hiện tại của từng sản phẩm vào dòng hàng
func (s *OrderService) buildOrderItems(ctx context.Context, inputs []shopdto.OrderItemInput) ([]models.OrderItem, int64, error) {
	var items []models.OrderItem
	var total int64
	for _, in := range inputs {
		productID, err := primitive.ObjectIDFromHex(in.ProductID)
		if err != nil {
			return nil, 0, common.NewError(common.ErrCodeValidationFormat, "productId không hợp lệ: "+in.ProductID, common.StatusBadRequest, err)
		}
		product, err := s.productService.FindOneById(ctx, productID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, 0, common.NewError(common.ErrCodeValidationInput, "Sản phẩm không tồn tại: "+in.ProductID, common.StatusBadRequest, err)
			}
			return nil, 0, err
		}
		if product.Status != catalogmodels.ProductStatusActive {
			return nil, 0, common.NewError(common.ErrCodeBusinessOperation,
				fmt.Sprintf("Sản phẩm %q hiện không bán", product.Name), common.StatusBadRequest, nil)
		}

		item := models.OrderItem{
			ProductID:        product.ID,
			Name:             product.Name,
			Slug:             product.Slug,
			Price:            product.Price,
			PromotionalPrice: product.SalePrice,
			Quantity:         in.Quantity,
		}
		item.TotalPrice = item.ChargedUnitPrice() * in.Quantity
		items = append(items, item)
		total += item.TotalPrice
	}
	return items, total, nil
}

// releaseStock hoàn lại tồn kho của các dòng hàng đã trừ
func (s *OrderService) releaseStock(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if _, err := s.productService.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"productId": item.ProductID.Hex(),
				"quantity":  item.Quantity,
			}).WithError(err).Error("Hoàn tồn kho thất bại")
		}
	}
}

// insertWithOrderNumber cấp phát mã đơn từ bộ đếm theo ngày rồi ghi đơn.
// Đụng độ mã (bộ đếm tụt lại sau dữ liệu thật) thì fast-forward bộ đếm
// lên mã lớn nhất hiện có và thử lại, tối đa maxOrderNumberAttempts lần.
func (s *OrderService) insertWithOrderNumber(ctx context.Context, order models.Order, now time.Time) (models.Order, error) {
	var zero models.Order
	key := CounterKeyForDate(now)

	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		seq, err := s.counterService.Next(ctx, key)
		if err != nil {
			return zero, err
		}
		order.OrderNumber = FormatOrderNumber(now, seq)

		created, err := s.InsertOne(ctx, order)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, common.ErrMongoDuplicate) {
			return zero, err
		}

		if err := s.fastForwardCounter(ctx, now, key); err != nil {
			return zero, err
		}
	}
	return zero, common.ErrAllocationExhausted
}

// fastForwardCounter đẩy bộ đếm của ngày lên số thứ tự lớn nhất đang có trong orders
func (s *OrderService) fastForwardCounter(ctx context.Context, now time.Time, key string) error {
	prefix := OrderNumberDatePrefix(now)
	filter := bson.M{"orderNumber": bson.M{"$regex": "^" + prefix}}

	// Mã đơn đệm 4 chữ số nên sort chuỗi giảm dần cho ra mã lớn nhất
	opts := options.FindOne().SetSort(bson.D{{Key: "orderNumber", Value: -1}})
	var latest models.Order
	if err := s.Collection().FindOne(ctx, filter, opts).Decode(&latest); err != nil {
		return common.ConvertMongoError(err)
	}

	seq, ok := ParseOrderNumberSeq(latest.OrderNumber)
	if !ok {
		return common.NewError(common.ErrCodeDatabaseQuery,
			"Mã đơn hàng hiện có sai định dạng: "+latest.OrderNumber, common.StatusInternalServerError, nil)
	}
	return s.counterService.FastForward(ctx, key, seq)
}

// ConfirmByToken xác nhận đơn bằng token trong email của khách.
// Gọi lại với đơn đã xác nhận trả về đơn như cũ (idempotent).
func (s *OrderService) ConfirmByToken(ctx context.Context, token string) (models.Order, error) {
	var zero models.Order

	order, err := s.FindOne(ctx, bson.M{"confirmationToken": token}, nil)
	if err != nil {
		return zero, err
	}
	if order.Status == models.OrderStatusConfirmed {
		return order, nil
	}
	return s.transition(ctx, order, models.OrderStatusConfirmed, "Khách xác nhận qua email")
}

// UpdateStatus chuyển trạng thái đơn theo máy trạng thái.
// Hủy đơn thì hoàn lại tồn kho của các dòng hàng.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, newStatus string, note string) (models.Order, error) {
	var zero models.Order

	order, err := s.FindOneById(ctx, id)
	if err != nil {
		return zero, err
	}
	updated, err := s.transition(ctx, order, newStatus, note)
	if err != nil {
		return zero, err
	}
	if newStatus == models.OrderStatusCancelled {
		s.releaseStock(ctx, updated.Items)
	}
	return updated, nil
}

// transition kiểm tra bước chuyển hợp lệ rồi ghi trạng thái mới kèm mục lịch sử
func (s *OrderService) transition(ctx context.Context, order models.Order, newStatus string, note string) (models.Order, error) {
	var zero models.Order

	if !models.CanTransitionOrderStatus(order.Status, newStatus) {
		return zero, common.NewError(common.ErrCodeBusinessOperation,
			fmt.Sprintf("Không thể chuyển đơn %s từ %q sang %q", order.OrderNumber, order.Status, newStatus),
			common.StatusBadRequest, nil)
	}

	change := models.OrderStatusChange{
		From: order.Status,
		To:   newStatus,
		Note: note,
		At:   time.Now().UnixMilli(),
	}
	return s.UpdateById(ctx, order.ID, &basesvc.UpdateData{
		Set:  map[string]interface{}{"status": newStatus},
		Push: map[string]interface{}{"history": change},
	})
}

// UpdatePaymentStatus cập nhật trạng thái thanh toán của đơn (unpaid/paid/refunded).
// Thanh toán độc lập với máy trạng thái giao hàng nên không ghi vào history.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, paymentStatus string) (models.Order, error) {
	var zero models.Order

	if !models.IsValidPaymentStatus(paymentStatus) {
		return zero, common.NewError(common.ErrCodeValidationInput,
			"Trạng thái thanh toán không hợp lệ: "+paymentStatus, common.StatusBadRequest, nil)
	}
	if _, err := s.FindOneById(ctx, id); err != nil {
		return zero, err
	}
	return s.UpdateById(ctx, id, &basesvc.UpdateData{
		Set: map[string]interface{}{"paymentStatus": paymentStatus},
	})
}

// FindByOrderNumber tìm đơn theo mã đơn hàng
func (s *OrderService) FindByOrderNumber(ctx context.Context, orderNumber string) (models.Order, error) {
	return s.FindOne(ctx, bson.M{"orderNumber": orderNumber}, nil)
}
